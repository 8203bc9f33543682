package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/mileage-log-generator/internal/lib/sl"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

type UserRepository interface {
	FindTrialExpiringToday(ctx context.Context) ([]*models.User, error)
	UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error
}

// TrialWatchService раз в сутки переводит пользователей с истекшим
// пробным периодом в статус expired.
type TrialWatchService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewTrialWatchService создает новый экземпляр TrialWatchService.
func NewTrialWatchService(repo UserRepository, log *slog.Logger) *TrialWatchService {
	return &TrialWatchService{
		repo: repo,
		log:  log,
	}
}

func (s *TrialWatchService) ExpireTrialsDaily(ctx context.Context) {
	s.runExpireTrials(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runExpireTrials(ctx)
		}
	}
}

func (s *TrialWatchService) runExpireTrials(ctx context.Context) {
	s.log.Info("starting service to expire ending trial periods")
	users, err := s.repo.FindTrialExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find users", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring trial periods found")
		return
	}
	s.log.Info("found expiring trial periods", "count", len(users))
	for _, user := range users {
		err = s.repo.UpdateSubscriptionStatus(ctx, user.UUID, "expired")
		if err != nil {
			s.log.Error("failed to update subscription status", sl.Err(err),
				"username", user.Username)
		}
	}
}
