// Package categorylist реализует HTTP-обработчик получения списка категорий.
//
// Handler извлекает имя пользователя из контекста и возвращает общие категории
// вместе с приватными категориями пользователя.
package categorylist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subminder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subminder/internal/http/response"
	"github.com/magabrotheeeer/subminder/internal/lib/sl"
	"github.com/magabrotheeeer/subminder/internal/models"
)

// Handler обрабатывает запросы на получение списка категорий.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения категорий
}

// Service описывает интерфейс бизнес-логики списка категорий.
type Service interface {
	List(ctx context.Context, username string) ([]*models.Category, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список категорий
// @Description Возвращает общие категории и приватные категории текущего пользователя.
// @Tags Categories
// @Produce  json
// @Success 200 {object} map[string]any "Список категорий"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /categories [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.list"
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
		log.Error("failed to list categories", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list categories"))
		return
	}

	log.Info("success to list categories", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"categories": res,
	}))
}
