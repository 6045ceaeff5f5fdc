package currency

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/magabrotheeeer/subminder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) FetchRates(ctx context.Context, base string) (models.RateTable, error) {
	args := m.Called(ctx, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.RateTable), args.Error(1)
}

type RepoMock struct{ mock.Mock }

func (m *RepoMock) UpsertRates(ctx context.Context, table models.RateTable) error {
	return m.Called(ctx, table).Error(0)
}

func (m *RepoMock) ListRates(ctx context.Context) (models.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.RateTable), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	if table, ok := args.Get(2).(models.RateTable); ok {
		*(result.(*models.RateTable)) = table
	}
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestConvert(t *testing.T) {
	rates := models.RateTable{"USD": 1, "EUR": 0.9, "RUB": 90}

	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		want   float64
	}{
		{name: "same currency is exact", amount: 13.37, from: "EUR", to: "EUR", want: 13.37},
		{name: "eur to rub", amount: 9, from: "EUR", to: "RUB", want: 900},
		{name: "to base", amount: 90, from: "RUB", to: "USD", want: 1},
		{name: "unknown from treated as base", amount: 10, from: "XXX", to: "RUB", want: 900},
		{name: "unknown to treated as base", amount: 90, from: "RUB", to: "XXX", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.amount, tt.from, tt.to, rates)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvert_SameCurrencyBitExact(t *testing.T) {
	// Без промежуточного деления: сумма возвращается как есть.
	amount := 0.1 + 0.2
	assert.Equal(t, amount, Convert(amount, "JPY", "JPY", models.RateTable{}))
}

func TestConvert_ZeroRateTreatedAsOne(t *testing.T) {
	rates := models.RateTable{"USD": 1, "BAD": 0}
	got := Convert(5, "BAD", "USD", rates)
	assert.InDelta(t, 5, got, 1e-9)
}

func TestConvert_RoundTrip(t *testing.T) {
	rates := models.RateTable{"USD": 1, "EUR": 0.9173, "GBP": 0.7851}
	amount := 123.45
	back := Convert(Convert(amount, "EUR", "GBP", rates), "GBP", "EUR", rates)
	assert.True(t, math.Abs(back-amount) < 1e-9)
}

func TestGetRates_CacheHit(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	cached := models.RateTable{"USD": 1, "EUR": 0.9}
	cacheMock.On("Get", "exchange_rates", mock.Anything).Return(true, nil, cached).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	table, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, table)

	repo.AssertNotCalled(t, "ListRates", mock.Anything)
	provider.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything)
}

func TestGetRates_CacheMissStoreHit(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	stored := models.RateTable{"USD": 1, "EUR": 0.9}

	cacheMock.On("Get", "exchange_rates", mock.Anything).Return(false, nil, nil).Once()
	repo.On("ListRates", mock.Anything).Return(stored, nil).Once()
	cacheMock.On("Set", "exchange_rates", stored, 24*time.Hour).Return(nil).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	table, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stored, table)

	cacheMock.AssertExpectations(t)
	provider.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything)
}

func TestGetRates_EmptyStoreTriggersUpdate(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	fetched := models.RateTable{"USD": 1, "EUR": 0.9}

	cacheMock.On("Get", "exchange_rates", mock.Anything).Return(false, nil, nil).Once()
	repo.On("ListRates", mock.Anything).Return(models.RateTable{}, nil).Once()
	provider.On("FetchRates", mock.Anything, "USD").Return(fetched, nil).Once()
	repo.On("UpsertRates", mock.Anything, fetched).Return(nil).Once()
	cacheMock.On("Set", "exchange_rates", fetched, 24*time.Hour).Return(nil).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	table, err := svc.GetRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fetched, table)

	provider.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestGetRates_StoreFailure(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)

	cacheMock.On("Get", "exchange_rates", mock.Anything).Return(false, nil, nil).Once()
	repo.On("ListRates", mock.Anything).Return(nil, errors.New("connection refused")).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	_, err := svc.GetRates(context.Background())
	assert.ErrorIs(t, err, ErrRatesUnavailable)
}

func TestGetRates_ProviderFailureWrapsUnavailable(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)

	cacheMock.On("Get", "exchange_rates", mock.Anything).Return(false, nil, nil).Once()
	repo.On("ListRates", mock.Anything).Return(models.RateTable{}, nil).Once()
	provider.On("FetchRates", mock.Anything, "USD").Return(nil, errors.New("timeout")).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	_, err := svc.GetRates(context.Background())
	assert.ErrorIs(t, err, ErrRatesUnavailable)
}

func TestUpdateRates_ForcesBaseRate(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)
	fetched := models.RateTable{"USD": 0.99999, "EUR": 0.9}

	provider.On("FetchRates", mock.Anything, "USD").Return(fetched, nil).Once()
	repo.On("UpsertRates", mock.Anything, mock.MatchedBy(func(table models.RateTable) bool {
		return table["USD"] == 1
	})).Return(nil).Once()
	cacheMock.On("Set", "exchange_rates", mock.Anything, 24*time.Hour).Return(nil).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	table, err := svc.UpdateRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float64(1), table["USD"])
	repo.AssertExpectations(t)
}

func TestUpdateRates_UpsertFailure(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)

	provider.On("FetchRates", mock.Anything, "USD").Return(models.RateTable{"EUR": 0.9}, nil).Once()
	repo.On("UpsertRates", mock.Anything, mock.Anything).Return(errors.New("tx aborted")).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	_, err := svc.UpdateRates(context.Background())
	assert.ErrorIs(t, err, ErrExchangeUpdateFailed)
	cacheMock.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRates_CacheSetFailureIsNotFatal(t *testing.T) {
	provider := new(ProviderMock)
	repo := new(RepoMock)
	cacheMock := new(CacheMock)

	provider.On("FetchRates", mock.Anything, "USD").Return(models.RateTable{"EUR": 0.9}, nil).Once()
	repo.On("UpsertRates", mock.Anything, mock.Anything).Return(nil).Once()
	cacheMock.On("Set", "exchange_rates", mock.Anything, 24*time.Hour).Return(errors.New("redis down")).Once()

	svc := NewService(provider, repo, cacheMock, newNoopLogger(), "USD")
	_, err := svc.UpdateRates(context.Background())
	assert.NoError(t, err)
}
