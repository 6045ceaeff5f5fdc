// Package currency содержит конвертацию сумм между валютами и сервис
// валютных курсов: быстрый кеш, долговременное хранилище и обновление
// от внешнего провайдера.
package currency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subminder/internal/lib/sl"
	"github.com/magabrotheeeer/subminder/internal/models"
)

// ErrRatesUnavailable означает, что таблицу курсов не удалось получить
// ни из кеша, ни из хранилища, ни от провайдера. На HTTP-границе — 503.
var ErrRatesUnavailable = errors.New("exchange rates unavailable")

// ErrExchangeUpdateFailed означает сбой при обновлении курсов:
// провайдер или хранилище недоступны. На HTTP-границе — 502.
var ErrExchangeUpdateFailed = errors.New("exchange rates update failed")

const (
	ratesCacheKey = "exchange_rates"
	ratesCacheTTL = 24 * time.Hour
)

// Convert пересчитывает сумму из одной валюты в другую по таблице курсов.
// Совпадающие валюты возвращают сумму без изменений, без погрешности округления.
// Неизвестная валюта считается равной базовой: её курс принимается за 1,
// ошибок конвертация не возвращает.
func Convert(amount float64, fromCurrency, toCurrency string, rates models.RateTable) float64 {
	if fromCurrency == toCurrency {
		return amount
	}
	fromRate, ok := rates[fromCurrency]
	if !ok || fromRate == 0 {
		fromRate = 1
	}
	toRate, ok := rates[toCurrency]
	if !ok || toRate == 0 {
		toRate = 1
	}
	return amount / fromRate * toRate
}

// RateProvider описывает внешний источник валютных курсов.
type RateProvider interface {
	// FetchRates возвращает таблицу курсов относительно базовой валюты.
	FetchRates(ctx context.Context, base string) (models.RateTable, error)
}

// RateRepository определяет методы долговременного хранилища курсов.
type RateRepository interface {
	// UpsertRates атомарно сохраняет всю таблицу курсов.
	UpsertRates(ctx context.Context, table models.RateTable) error
	// ListRates возвращает сохранённую таблицу; пустая таблица — курсов ещё нет.
	ListRates(ctx context.Context) (models.RateTable, error)
}

// Cache описывает методы быстрого кеша.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Service реализует получение и обновление таблицы валютных курсов.
// Конкурентные вызовы GetRates могут наперегонки перезаполнять кеш —
// записи идемпотентны в пределах окна обновления, побеждает последняя.
type Service struct {
	provider     RateProvider
	repo         RateRepository
	cache        Cache
	log          *slog.Logger
	baseCurrency string
}

// NewService создает новый экземпляр Service.
func NewService(provider RateProvider, repo RateRepository, cache Cache, log *slog.Logger, baseCurrency string) *Service {
	return &Service{
		provider:     provider,
		repo:         repo,
		cache:        cache,
		log:          log,
		baseCurrency: baseCurrency,
	}
}

// GetRates возвращает таблицу курсов: сначала из кеша, при промахе из
// хранилища (перезаполняя кеш), а если хранилище пусто — синхронно
// обновляет курсы от провайдера.
func (s *Service) GetRates(ctx context.Context) (models.RateTable, error) {
	const op = "currency.GetRates"

	var table models.RateTable
	found, err := s.cache.Get(ratesCacheKey, &table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrRatesUnavailable, err)
	}
	if found {
		return table, nil
	}

	table, err = s.repo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrRatesUnavailable, err)
	}
	if len(table) > 0 {
		if err := s.cache.Set(ratesCacheKey, table, ratesCacheTTL); err != nil {
			s.log.Warn("failed to cache exchange rates", sl.Err(err))
		}
		return table, nil
	}

	table, err = s.UpdateRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrRatesUnavailable, err)
	}
	return table, nil
}

// UpdateRates запрашивает свежую таблицу у провайдера, принудительно
// выставляет курс базовой валюты в 1, атомарно сохраняет таблицу в
// хранилище и перезаполняет кеш. При ошибке вызывающий не получает
// частично обновлённых данных.
func (s *Service) UpdateRates(ctx context.Context) (models.RateTable, error) {
	const op = "currency.UpdateRates"

	table, err := s.provider.FetchRates(ctx, s.baseCurrency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrExchangeUpdateFailed, err)
	}
	table[s.baseCurrency] = 1

	if err := s.repo.UpsertRates(ctx, table); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrExchangeUpdateFailed, err)
	}

	if err := s.cache.Set(ratesCacheKey, table, ratesCacheTTL); err != nil {
		s.log.Warn("failed to cache exchange rates", sl.Err(err))
	}

	s.log.Info("exchange rates updated", slog.Int("currencies", len(table)))
	return table, nil
}
