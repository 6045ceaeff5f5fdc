package exchangerates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRates_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1,"EUR":0.92,"RUB":88.5}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	table, err := client.FetchRates(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, 0.92, table["EUR"])
	assert.Equal(t, 88.5, table["RUB"])
	assert.Equal(t, float64(1), table["USD"])
}

func TestFetchRates_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchRates(context.Background(), "USD")
	assert.Error(t, err)
}

func TestFetchRates_EmptyTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.FetchRates(context.Background(), "USD")
	assert.Error(t, err)
}
