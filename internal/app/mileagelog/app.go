// Package mileagelog собирает и запускает основное приложение генератора журналов пробега.
package mileagelog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mileage-log-generator/internal/cache"
	"github.com/magabrotheeeer/mileage-log-generator/internal/config"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/businesstype"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/calendar"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/rnd"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/jwt"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
	"github.com/magabrotheeeer/mileage-log-generator/internal/migrations"
	authservice "github.com/magabrotheeeer/mileage-log-generator/internal/services/auth"
	businesstypeservice "github.com/magabrotheeeer/mileage-log-generator/internal/services/businesstype"
	logbookservice "github.com/magabrotheeeer/mileage-log-generator/internal/services/logbook"
	trialwatchservice "github.com/magabrotheeeer/mileage-log-generator/internal/services/trialwatch"
	"github.com/magabrotheeeer/mileage-log-generator/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и все зависимости приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
	trialWatch *trialwatchservice.TrialWatchService
}

// New собирает приложение: хранилище, миграции, кеш, брокер сообщений,
// движок генерации и HTTP-маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	var rabbitConn *amqp.Connection
	var channel *amqp.Channel
	if cfg.RabbitURL != "" {
		rabbitConn, err = rabbitmq.Connect(cfg.RabbitURL, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		channel, err = rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetLogQueues())
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("rabbitmq url is empty, events will not be published")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)

	resolver := businesstype.NewResolver(db, logger)
	engine := generator.New(resolver, calendar.New(), rnd.New(), logger)

	logbookService := logbookservice.NewLogbookService(db, db, cacheRedis, engine,
		channel, cfg.FreeTierEntryLimit, logger)
	businessTypeService := businesstypeservice.NewBusinessTypeService(db, cacheRedis, logger)
	trialWatchService := trialwatchservice.NewTrialWatchService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, logbookService, businessTypeService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
		trialWatch: trialWatchService,
	}, nil
}

// Run запускает наблюдатель пробных периодов и HTTP-сервер,
// останавливая их при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	go a.trialWatch.ExpireTrialsDaily(ctx)

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
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.rabbitConn != nil {
			if closeErr := a.rabbitConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
