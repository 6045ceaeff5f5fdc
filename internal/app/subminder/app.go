// Package subminder собирает основное HTTP-приложение: хранилище,
// кеш, сервисы и маршруты.
package subminder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subminder/internal/cache"
	"github.com/magabrotheeeer/subminder/internal/config"
	"github.com/magabrotheeeer/subminder/internal/exchangerates"
	"github.com/magabrotheeeer/subminder/internal/lib/jwt"
	"github.com/magabrotheeeer/subminder/internal/migrations"
	authservice "github.com/magabrotheeeer/subminder/internal/services/auth"
	categoryservice "github.com/magabrotheeeer/subminder/internal/services/category"
	currencyservice "github.com/magabrotheeeer/subminder/internal/services/currency"
	subscriptionservice "github.com/magabrotheeeer/subminder/internal/services/subscription"
	"github.com/magabrotheeeer/subminder/internal/storage"
)

// App представляет основное HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New создает приложение: подключает хранилище и кеш, применяет миграции,
// собирает сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	ratesClient := exchangerates.NewClient(cfg.APIURL)

	authService := authservice.New(db, jwtMaker, logger)
	currencyService := currencyservice.NewService(ratesClient, db, cacheRedis, logger, cfg.BaseCurrency)
	subscriptionService := subscriptionservice.New(db, db, currencyService, cacheRedis, logger)
	categoryService := categoryservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, subscriptionService, categoryService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", slog.Any("err", closeErr))
		}
		return err
	}
}
