// Package list реализует HTTP-обработчик для получения списка
// пользовательских видов деятельности текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mileage-log-generator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/response"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// Handler обрабатывает запросы на получение списка видов деятельности.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка видов деятельности.
type Service interface {
	List(ctx context.Context, username string) ([]*models.CustomBusinessType, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.businesstype.list"

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
		log.Error("failed to list business types", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list business types", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":     len(res),
		"business_types": res,
	}))
}
