package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindTrialExpiringToday(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockRepository) UpdateSubscriptionStatus(ctx context.Context, userUID, status string) error {
	args := m.Called(ctx, userUID, status)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTrialWatchService_runExpireTrials(t *testing.T) {
	user := &models.User{
		UUID:               "user123",
		Email:              "test@example.com",
		Username:           "testuser",
		SubscriptionStatus: "trial",
	}

	tests := []struct {
		name       string
		setupMocks func(*MockRepository)
	}{
		{
			name: "success - found expiring trial periods",
			setupMocks: func(r *MockRepository) {
				r.On("FindTrialExpiringToday", mock.Anything).Return([]*models.User{user}, nil).Once()
				r.On("UpdateSubscriptionStatus", mock.Anything, "user123", "expired").Return(nil).Once()
			},
		},
		{
			name: "success - no expiring trial periods",
			setupMocks: func(r *MockRepository) {
				r.On("FindTrialExpiringToday", mock.Anything).Return([]*models.User{}, nil).Once()
			},
		},
		{
			name: "repository error on find",
			setupMocks: func(r *MockRepository) {
				r.On("FindTrialExpiringToday", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
		{
			name: "repository error on update",
			setupMocks: func(r *MockRepository) {
				r.On("FindTrialExpiringToday", mock.Anything).Return([]*models.User{user}, nil).Once()
				r.On("UpdateSubscriptionStatus", mock.Anything, "user123", "expired").
					Return(errors.New("update error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewTrialWatchService(repo, newNoopLogger())

			tt.setupMocks(repo)

			// Вызываем приватный метод напрямую, тикер не нужен в тесте
			service.runExpireTrials(context.Background())

			repo.AssertExpectations(t)
		})
	}
}

func TestTrialWatchService_NewTrialWatchService(t *testing.T) {
	repo := new(MockRepository)
	logger := newNoopLogger()

	service := NewTrialWatchService(repo, logger)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.repo)
	assert.Equal(t, logger, service.log)
}
