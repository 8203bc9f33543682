// Package mileagelog предоставляет маршруты для основного приложения.
package mileagelog

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/auth/register"
	btcreate "github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/businesstype/create"
	btlist "github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/businesstype/list"
	btremove "github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/businesstype/remove"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/logbook/generate"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/logbook/health"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/logbook/list"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/logbook/read"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/handlers/logbook/remove"
	"github.com/magabrotheeeer/mileage-log-generator/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/mileage-log-generator/internal/services/auth"
	businesstypeservice "github.com/magabrotheeeer/mileage-log-generator/internal/services/businesstype"
	logbookservice "github.com/magabrotheeeer/mileage-log-generator/internal/services/logbook"
	"github.com/magabrotheeeer/mileage-log-generator/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	authService *authservice.AuthService, logbookService *logbookservice.LogbookService,
	businessTypeService *businesstypeservice.BusinessTypeService) {
	// Глобальные middleware
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
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/logs/{uid}", read.New(logger, logbookService).ServeHTTP)
			r.Get("/logs", list.New(logger, logbookService).ServeHTTP)
			r.Delete("/logs/{uid}", remove.New(logger, logbookService).ServeHTTP)

			r.Post("/businesstypes", btcreate.New(logger, businessTypeService).ServeHTTP)
			r.Get("/businesstypes", btlist.New(logger, businessTypeService).ServeHTTP)
			r.Delete("/businesstypes/{uid}", btremove.New(logger, businessTypeService).ServeHTTP)

			// Генерация требует действующей подписки
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionStatusMiddleware(logger, db))
				r.Post("/logs", generate.New(logger, logbookService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
