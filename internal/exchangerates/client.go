// Package exchangerates реализует клиент внешнего провайдера валютных курсов.
// Провайдер отдаёт по одному GET-запросу таблицу курсов относительно базовой валюты.
package exchangerates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/magabrotheeeer/subminder/internal/models"
)

type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера курсов.
func NewClient(apiURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates запрашивает у провайдера актуальную таблицу курсов
// относительно базовой валюты base.
func (c *Client) FetchRates(ctx context.Context, base string) (models.RateTable, error) {
	const op = "exchangerates.FetchRates"

	url := fmt.Sprintf("%s/latest/%s", c.apiURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var parsed latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("%s: provider returned empty rate table", op)
	}

	table := models.RateTable{}
	for currency, rate := range parsed.Rates {
		table[currency] = rate
	}
	return table, nil
}
