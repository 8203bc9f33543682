// Package create реализует HTTP-обработчик создания пользовательского вида деятельности.
//
// Handler принимает JSON-запрос с названием, средним числом поездок и списком целей,
// валидирует их, извлекает имя пользователя из контекста и сохраняет вид деятельности
// через сервис бизнес-логики. Возвращает UID созданной записи.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mileage-log-generator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/response"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// Handler управляет HTTP-запросами на создание пользовательских видов деятельности.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания вида деятельности.
type Service interface {
	Create(ctx context.Context, username string, req models.DummyBusinessType) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать пользовательский вид деятельности
// @Description Создает вид деятельности с собственным списком целей поездок. Возвращает UID созданной записи.
// @Tags BusinessTypes
// @Accept  json
// @Produce  json
// @Param request body models.DummyBusinessType true "Описание вида деятельности"
// @Success 200 {object} map[string]any "Успешное создание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /businesstypes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.businesstype.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyBusinessType
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	uid, err := h.service.Create(r.Context(), username, req)
	if err != nil {
		log.Error("failed to create business type", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create business type"))
		return
	}

	log.Info("success to create business type", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"uid": uid,
	}))
}
