// Package generate реализует HTTP-обработчик генерации журнала пробега.
//
// Handler принимает JSON-запрос с параметрами периода и пробега, валидирует их,
// извлекает имя пользователя из контекста, вызывает бизнес-логику генерации
// и возвращает сгенерированный журнал в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/businesstype"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/response"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
	logbook "github.com/magabrotheeeer/mileage-log-generator/internal/services/logbook"
)

// Handler управляет HTTP-запросами на генерацию журналов пробега.
//
// Использует логгер для записи операций и ошибок,
// сервис бизнес-логики для генерации журнала,
// а также валидатор для проверки структуры входных данных.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики генерации журналов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики генерации журнала.
type Service interface {
	Generate(ctx context.Context, username string, req models.DummyGenerateRequest) (*models.MileageLog, error)
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
// @Summary Сгенерировать журнал пробега
// @Description Генерирует журнал пробега за указанный период для текущего пользователя.
// @Tags Logs
// @Accept  json
// @Produce  json
// @Param request body models.DummyGenerateRequest true "Параметры генерации журнала"
// @Success 200 {object} map[string]any "Сгенерированный журнал"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Подписка истекла"
// @Failure 404 {object} response.ErrorResponse "Вид деятельности не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при генерации журнала"
// @Router /logs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.logbook.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyGenerateRequest
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

	result, err := h.service.Generate(r.Context(), username, req)
	if err != nil {
		log.Error("failed to generate mileage log", sl.Err(err))
		switch {
		case errors.Is(err, logbook.ErrSubscriptionExpired):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("subscription expired"))
		case errors.Is(err, businesstype.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("business type not found"))
		case errors.Is(err, generator.ErrInvalidDateRange),
			errors.Is(err, generator.ErrInvalidMileageRange),
			errors.Is(err, generator.ErrPersonalExceedsTotal),
			errors.Is(err, generator.ErrEmptyVehicle):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not generate mileage log"))
		}
		return
	}

	log.Info("success to generate mileage log", slog.String("uid", result.UID),
		slog.Int("entries", len(result.Entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"log": result,
	}))
}
