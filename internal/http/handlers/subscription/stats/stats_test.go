package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subminder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subminder/internal/models"
	"github.com/magabrotheeeer/subminder/internal/services/currency"
)

// MockService реализует интерфейс stats.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetStats(ctx context.Context, username string) (*models.Stats, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func TestStatsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	okStats := &models.Stats{
		Summary: models.StatsSummary{
			Daily:    2.08,
			Weekly:   14.62,
			Monthly:  63.33,
			Yearly:   760,
			Currency: "EUR",
		},
	}

	tests := []struct {
		name           string
		username       string
		setupMock      func(*MockService)
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:     "успешная выдача сводки",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("GetStats", mock.Anything, "testuser").Return(okStats, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"OK"`)
				assert.Contains(t, body, `"yearly":760`)
				assert.Contains(t, body, `"currency":"EUR"`)
			},
		},
		{
			name:           "нет авторизации",
			username:       "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"error":"unauthorized"`)
			},
		},
		{
			name:     "курсы недоступны",
			username: "testuser",
			setupMock: func(m *MockService) {
				err := fmt.Errorf("currency.GetRates: %w: %v", currency.ErrRatesUnavailable, errors.New("redis down"))
				m.On("GetStats", mock.Anything, "testuser").Return(nil, err)
			},
			expectedStatus: http.StatusServiceUnavailable,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"error":"exchange rates unavailable"`)
			},
		},
		{
			name:     "сбой обновления курсов",
			username: "testuser",
			setupMock: func(m *MockService) {
				err := fmt.Errorf("currency.UpdateRates: %w: %v", currency.ErrExchangeUpdateFailed, errors.New("timeout"))
				m.On("GetStats", mock.Anything, "testuser").Return(nil, err)
			},
			expectedStatus: http.StatusBadGateway,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"error":"exchange rates update failed"`)
			},
		},
		{
			name:     "ошибка сервиса",
			username: "testuser",
			setupMock: func(m *MockService) {
				m.On("GetStats", mock.Anything, "testuser").Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"error":"could not get stats"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			handler := New(logger, mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/stats", nil)
			ctx := context.WithValue(req.Context(), middlewarectx.User, tt.username)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkBody(t, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}
