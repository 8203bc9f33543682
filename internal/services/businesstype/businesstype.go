// Package services содержит бизнес-логику для управления пользовательскими
// видами деятельности.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// CustomTypeRepository определяет методы для работы с пользовательскими
// видами деятельности в хранилище.
type CustomTypeRepository interface {
	// CreateCustomType сохраняет пользовательский вид деятельности и возвращает его UID.
	CreateCustomType(ctx context.Context, ct models.CustomBusinessType) (string, error)
	// GetCustomType возвращает пользовательский вид деятельности по UID.
	GetCustomType(ctx context.Context, uid, username string) (*models.CustomBusinessType, error)
	// ListCustomTypes возвращает все пользовательские виды деятельности пользователя.
	ListCustomTypes(ctx context.Context, username string) ([]*models.CustomBusinessType, error)
	// RemoveCustomType удаляет пользовательский вид деятельности по UID.
	RemoveCustomType(ctx context.Context, uid, username string) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// BusinessTypeService реализует бизнес-логику работы с пользовательскими
// видами деятельности, включая кеширование списка.
type BusinessTypeService struct {
	repo  CustomTypeRepository
	cache Cache
	log   *slog.Logger
}

// NewBusinessTypeService создает новый экземпляр BusinessTypeService.
func NewBusinessTypeService(repo CustomTypeRepository, cache Cache, log *slog.Logger) *BusinessTypeService {
	return &BusinessTypeService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create сохраняет новый пользовательский вид деятельности и возвращает его UID.
func (s *BusinessTypeService) Create(ctx context.Context, username string, req models.DummyBusinessType) (string, error) {
	ct := models.CustomBusinessType{
		Username:               username,
		DisplayName:            req.DisplayName,
		AverageTripsPerWorkday: req.AverageTripsPerWorkday,
		Purposes:               req.Purposes,
	}

	uid, err := s.repo.CreateCustomType(ctx, ct)
	if err != nil {
		return "", err
	}

	s.log.Info("created custom business type", slog.String("uid", uid))

	cacheKey := fmt.Sprintf("businesstypes:%s", username)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return uid, nil
}

// List возвращает пользовательские виды деятельности, используя кеш или репозиторий.
func (s *BusinessTypeService) List(ctx context.Context, username string) ([]*models.CustomBusinessType, error) {
	var result []*models.CustomBusinessType
	cacheKey := fmt.Sprintf("businesstypes:%s", username)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListCustomTypes(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Remove удаляет пользовательский вид деятельности и инвалидирует кеш списка.
func (s *BusinessTypeService) Remove(ctx context.Context, uid, username string) (int, error) {
	cacheKey := fmt.Sprintf("businesstypes:%s", username)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveCustomType(ctx, uid, username)
	if err != nil {
		return 0, err
	}
	return count, nil
}
