// Package read реализует HTTP-обработчик для получения журнала пробега по UID.
//
// Handler извлекает UID из URL-параметров и имя пользователя из контекста,
// вызывает бизнес-логику чтения журнала и возвращает его в JSON-формате.
//
// В случае ошибок формирует соответствующие HTTP-ответы с описанием проблемы.
package read

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/mileage-log-generator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/response"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// Handler обрабатывает запросы на получение журнала пробега по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения журнала по UID
}

// Service описывает интерфейс бизнес-логики чтения журнала.
type Service interface {
	Read(ctx context.Context, uid, username string) (*models.MileageLog, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение журнала по UID.
//
// Выполняет:
// - Извлечение UID из URL и имени пользователя из контекста.
// - Вызов бизнес-логики для чтения журнала.
// - Формирование JSON-ответа с данными или ошибкой.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.logbook.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid in url"))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Read(r.Context(), uid, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Error("mileage log not found", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("mileage log not found"))
			return
		}
		log.Error("failed to read mileage log", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read mileage log"))
		return
	}

	log.Info("success to read mileage log", slog.String("uid", uid),
		slog.Int("entries", len(res.Entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"log": res,
	}))
}
