// Package services содержит бизнес-логику для генерации и хранения журналов пробега.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/businesstype"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
	"github.com/magabrotheeeer/mileage-log-generator/internal/metrics"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// ErrSubscriptionExpired возвращается при попытке генерации с истекшей подпиской.
var ErrSubscriptionExpired = errors.New("subscription expired")

// LogRepository определяет методы для работы с журналами пробега в хранилище.
type LogRepository interface {
	// SaveLog сохраняет журнал вместе с поездками и возвращает его UID.
	SaveLog(ctx context.Context, logEntry *models.MileageLog) (string, error)
	// GetLog возвращает журнал пользователя по UID вместе с поездками.
	GetLog(ctx context.Context, uid, username string) (*models.MileageLog, error)
	// ListLogs возвращает шапки журналов пользователя с пагинацией.
	ListLogs(ctx context.Context, username string, limit, offset int) ([]*models.MileageLog, error)
	// RemoveLog удаляет журнал по UID и возвращает количество удалённых строк.
	RemoveLog(ctx context.Context, uid, username string) (int, error)
}

// UserRepository определяет методы для проверки подписки пользователя.
type UserRepository interface {
	// GetSubscriptionStatus возвращает статус подписки: trial, active или expired.
	GetSubscriptionStatus(ctx context.Context, username string) (string, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Generator описывает контракт движка генерации журналов.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) (*models.MileageLog, error)
}

// LogGeneratedEvent событие о сгенерированном журнале для воркеров экспорта.
type LogGeneratedEvent struct {
	LogUID             string    `json:"log_uid"`
	Username           string    `json:"username"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	TotalBusinessMiles float64   `json:"total_business_miles"`
	DeductionAmount    float64   `json:"deduction_amount"`
}

// LogbookService реализует бизнес-логику работы с журналами пробега:
// проверка подписки, генерация, сохранение, кеширование и публикация событий.
type LogbookService struct {
	repo               LogRepository
	users              UserRepository
	cache              Cache
	engine             Generator
	channel            *amqp.Channel
	freeTierEntryLimit int
	log                *slog.Logger
}

// NewLogbookService создает новый экземпляр LogbookService.
// channel может быть nil, тогда события не публикуются.
func NewLogbookService(repo LogRepository, users UserRepository, cache Cache,
	engine Generator, channel *amqp.Channel, freeTierEntryLimit int, log *slog.Logger) *LogbookService {
	return &LogbookService{
		repo:               repo,
		users:              users,
		cache:              cache,
		engine:             engine,
		channel:            channel,
		freeTierEntryLimit: freeTierEntryLimit,
		log:                log,
	}
}

// Generate создает журнал пробега для пользователя: проверяет подписку,
// вызывает движок, сохраняет результат, кеширует его и публикует событие.
func (s *LogbookService) Generate(ctx context.Context, username string, req models.DummyGenerateRequest) (*models.MileageLog, error) {
	started := time.Now()

	startDate, err := time.Parse("02-01-2006", req.StartDate)
	if err != nil {
		metrics.GenerationFailed.WithLabelValues("invalid_request").Inc()
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse("02-01-2006", req.EndDate)
	if err != nil {
		metrics.GenerationFailed.WithLabelValues("invalid_request").Inc()
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	status, err := s.users.GetSubscriptionStatus(ctx, username)
	if err != nil {
		return nil, err
	}
	if status == "expired" {
		metrics.GenerationFailed.WithLabelValues("subscription_expired").Inc()
		return nil, ErrSubscriptionExpired
	}
	entryCap := 0
	if status != "active" {
		entryCap = s.freeTierEntryLimit
	}

	genReq := generator.Request{
		Username:           username,
		StartDate:          startDate,
		EndDate:            endDate,
		StartMileage:       req.StartMileage,
		EndMileage:         req.EndMileage,
		TotalPersonalMiles: req.TotalPersonalMiles,
		Vehicle:            req.Vehicle,
		BusinessTypeRef:    businesstype.ParseRef(req.BusinessType),
		EntryCap:           entryCap,
	}

	logEntry, err := s.engine.Generate(ctx, genReq)
	if err != nil {
		metrics.GenerationFailed.WithLabelValues("engine").Inc()
		return nil, err
	}

	uid, err := s.repo.SaveLog(ctx, logEntry)
	if err != nil {
		metrics.GenerationFailed.WithLabelValues("storage").Inc()
		return nil, err
	}
	logEntry.UID = uid

	metrics.LogsGenerated.WithLabelValues(logEntry.BusinessTypeLabel).Inc()
	metrics.EntriesPerLog.Observe(float64(len(logEntry.Entries)))
	metrics.GenerationDuration.Observe(time.Since(started).Seconds())

	s.log.Info("generated new mileage log", slog.String("uid", uid),
		slog.Int("entries", len(logEntry.Entries)))

	cacheKey := fmt.Sprintf("log:%s", uid)
	if err := s.cache.Set(cacheKey, logEntry, time.Hour); err != nil {
		s.log.Warn("failed to cache mileage log", slog.String("key", cacheKey), slog.Any("err", err))
	}

	if s.channel != nil {
		event := LogGeneratedEvent{
			LogUID:             uid,
			Username:           username,
			StartDate:          logEntry.StartDate,
			EndDate:            logEntry.EndDate,
			TotalBusinessMiles: logEntry.TotalBusinessMiles,
			DeductionAmount:    logEntry.DeductionAmount,
		}
		if err := rabbitmq.PublishMessage(s.channel, "logs", "generated", event); err != nil {
			s.log.Error("failed to publish log generated event", sl.Err(err))
		}
	}

	return logEntry, nil
}

// Read возвращает журнал по UID, используя кеш или репозиторий.
func (s *LogbookService) Read(ctx context.Context, uid, username string) (*models.MileageLog, error) {
	var result *models.MileageLog
	cacheKey := fmt.Sprintf("log:%s", uid)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found && result.Username == username {
		return result, nil
	}
	result, err = s.repo.GetLog(ctx, uid, username)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// List возвращает шапки журналов пользователя с пагинацией.
func (s *LogbookService) List(ctx context.Context, username string, limit, offset int) ([]*models.MileageLog, error) {
	return s.repo.ListLogs(ctx, username, limit, offset)
}

// Remove удаляет журнал по UID и инвалидирует кеш.
func (s *LogbookService) Remove(ctx context.Context, uid, username string) (int, error) {
	cacheKey := fmt.Sprintf("log:%s", uid)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveLog(ctx, uid, username)
	if err != nil {
		return 0, err
	}

	return count, nil
}
