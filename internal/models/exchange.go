package models

import "time"

// RateTable — таблица валютных курсов относительно базовой валюты.
// Инвариант: базовая валюта всегда присутствует с курсом 1.
type RateTable map[string]float64

// ExchangeRate — строка курса в хранилище.
type ExchangeRate struct {
	Currency  string    `json:"currency"`
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updated_at"`
}
