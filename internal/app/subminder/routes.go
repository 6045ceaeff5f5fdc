// Package subminder предоставляет маршруты для основного приложения.
package subminder

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subminder/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/category/categorycreate"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/category/categorylist"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/health"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/subscription/stats"
	"github.com/magabrotheeeer/subminder/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subminder/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/subminder/internal/services/auth"
	categoryservice "github.com/magabrotheeeer/subminder/internal/services/category"
	subscriptionservice "github.com/magabrotheeeer/subminder/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	subscriptionService *subscriptionservice.Service,
	categoryService *categoryservice.Service) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/list", list.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/stats", stats.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, subscriptionService).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, subscriptionService).ServeHTTP)
			r.Get("/categories", categorylist.New(logger, categoryService).ServeHTTP)
			r.Post("/categories", categorycreate.New(logger, categoryService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
