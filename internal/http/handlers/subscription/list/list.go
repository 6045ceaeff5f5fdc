// Package list реализует HTTP-обработчик для получения списка подписок пользователя.
//
// Handler извлекает имя пользователя из контекста, вызывает бизнес-логику
// получения списка и возвращает подписки с ценами, пересчитанными
// в валюту отображения пользователя.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subminder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subminder/internal/http/response"
	"github.com/magabrotheeeer/subminder/internal/lib/sl"
	"github.com/magabrotheeeer/subminder/internal/services/currency"
	"github.com/magabrotheeeer/subminder/internal/services/subscription"
)

// Handler обрабатывает запросы на получение списка подписок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения списка
}

// Service описывает интерфейс бизнес-логики получения списка подписок.
type Service interface {
	List(ctx context.Context, username string) (*subscription.ListResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список подписок
// @Description Возвращает все подписки текущего пользователя с ценами в валюте отображения.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} map[string]any "Список подписок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Сбой обновления валютных курсов"
// @Failure 503 {object} response.ErrorResponse "Валютные курсы недоступны"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.List(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, currency.ErrExchangeUpdateFailed):
			log.Error("exchange rates update failed", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("exchange rates update failed"))
		case errors.Is(err, currency.ErrRatesUnavailable):
			log.Error("exchange rates unavailable", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("exchange rates unavailable"))
		default:
			log.Error("failed to list subscriptions", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list subscriptions"))
		}
		return
	}

	log.Info("success to list subscriptions", slog.Int("count", len(res.Items)))
	render.JSON(w, r, response.StatusOKWithData(res))
}
