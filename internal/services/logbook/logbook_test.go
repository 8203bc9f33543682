package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator"
	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/businesstype"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

type LogRepoMock struct{ mock.Mock }

func (m *LogRepoMock) SaveLog(ctx context.Context, logEntry *models.MileageLog) (string, error) {
	args := m.Called(ctx, logEntry)
	return args.String(0), args.Error(1)
}
func (m *LogRepoMock) GetLog(ctx context.Context, uid, username string) (*models.MileageLog, error) {
	args := m.Called(ctx, uid, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MileageLog), args.Error(1)
}
func (m *LogRepoMock) ListLogs(ctx context.Context, username string, limit, offset int) ([]*models.MileageLog, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MileageLog), args.Error(1)
}
func (m *LogRepoMock) RemoveLog(ctx context.Context, uid, username string) (int, error) {
	args := m.Called(ctx, uid, username)
	return args.Int(0), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetSubscriptionStatus(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type GeneratorMock struct{ mock.Mock }

func (m *GeneratorMock) Generate(ctx context.Context, req generator.Request) (*models.MileageLog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MileageLog), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() models.DummyGenerateRequest {
	return models.DummyGenerateRequest{
		StartDate:          "01-01-2024",
		EndDate:            "31-01-2024",
		StartMileage:       10000,
		EndMileage:         10500,
		TotalPersonalMiles: 80,
		Vehicle:            "2021 Toyota Camry",
	}
}

func generatedLog() *models.MileageLog {
	return &models.MileageLog{
		Username:           "testuser",
		StartDate:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		StartMileage:       10000,
		EndMileage:         10500,
		TotalMileage:       500,
		TotalBusinessMiles: 420,
		TotalPersonalMiles: 80,
		VehicleLabel:       "2021 Toyota Camry",
	}
}

func TestLogbookService_Generate(t *testing.T) {
	const freeTierLimit = 40

	tests := []struct {
		name       string
		req        models.DummyGenerateRequest
		setupMocks func(r *LogRepoMock, u *UserRepoMock, c *CacheMock, g *GeneratorMock)
		wantErr    error
		wantUID    string
	}{
		{
			name: "успешная генерация с пробной подпиской",
			req:  validRequest(),
			setupMocks: func(r *LogRepoMock, u *UserRepoMock, c *CacheMock, g *GeneratorMock) {
				u.On("GetSubscriptionStatus", mock.Anything, "testuser").Return("trial", nil).Once()
				g.On("Generate", mock.Anything, mock.MatchedBy(func(req generator.Request) bool {
					return req.EntryCap == freeTierLimit && req.Username == "testuser"
				})).Return(generatedLog(), nil).Once()
				r.On("SaveLog", mock.Anything, mock.Anything).Return("log-uid-1", nil).Once()
				c.On("Set", "log:log-uid-1", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantUID: "log-uid-1",
		},
		{
			name: "активная подписка без ограничения записей",
			req:  validRequest(),
			setupMocks: func(r *LogRepoMock, u *UserRepoMock, c *CacheMock, g *GeneratorMock) {
				u.On("GetSubscriptionStatus", mock.Anything, "testuser").Return("active", nil).Once()
				g.On("Generate", mock.Anything, mock.MatchedBy(func(req generator.Request) bool {
					return req.EntryCap == 0
				})).Return(generatedLog(), nil).Once()
				r.On("SaveLog", mock.Anything, mock.Anything).Return("log-uid-2", nil).Once()
				c.On("Set", "log:log-uid-2", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantUID: "log-uid-2",
		},
		{
			name: "истекшая подписка блокирует генерацию",
			req:  validRequest(),
			setupMocks: func(_ *LogRepoMock, u *UserRepoMock, _ *CacheMock, _ *GeneratorMock) {
				u.On("GetSubscriptionStatus", mock.Anything, "testuser").Return("expired", nil).Once()
			},
			wantErr: ErrSubscriptionExpired,
		},
		{
			name: "невалидная дата начала",
			req: models.DummyGenerateRequest{
				StartDate: "2024-01-01",
				EndDate:   "31-01-2024",
			},
			setupMocks: func(_ *LogRepoMock, _ *UserRepoMock, _ *CacheMock, _ *GeneratorMock) {},
			wantErr:    errors.New("invalid start date"),
		},
		{
			name: "неизвестный пользовательский тип не сохраняется",
			req:  validRequest(),
			setupMocks: func(_ *LogRepoMock, u *UserRepoMock, _ *CacheMock, g *GeneratorMock) {
				u.On("GetSubscriptionStatus", mock.Anything, "testuser").Return("trial", nil).Once()
				g.On("Generate", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("generator.Generate: %w", businesstype.ErrNotFound)).Once()
			},
			wantErr: businesstype.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(LogRepoMock)
			users := new(UserRepoMock)
			cache := new(CacheMock)
			engine := new(GeneratorMock)
			tt.setupMocks(repo, users, cache, engine)

			svc := NewLogbookService(repo, users, cache, engine, nil, freeTierLimit, newNoopLogger())
			got, err := svc.Generate(context.Background(), "testuser", tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrSubscriptionExpired) || errors.Is(tt.wantErr, businesstype.ErrNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				// Журнал не сохраняется при любой ошибке генерации
				repo.AssertNotCalled(t, "SaveLog", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, got.UID)

			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			cache.AssertExpectations(t)
			engine.AssertExpectations(t)
		})
	}
}

func TestLogbookService_Read(t *testing.T) {
	cached := generatedLog()
	cached.UID = "log-uid-1"

	t.Run("чтение из кеша", func(t *testing.T) {
		repo := new(LogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", "log:log-uid-1", mock.Anything).
			Run(func(args mock.Arguments) {
				ptr := args.Get(1).(**models.MileageLog)
				*ptr = cached
			}).Return(true, nil).Once()

		svc := NewLogbookService(repo, new(UserRepoMock), cache, new(GeneratorMock), nil, 40, newNoopLogger())
		got, err := svc.Read(context.Background(), "log-uid-1", "testuser")
		require.NoError(t, err)
		assert.Equal(t, cached, got)
		repo.AssertNotCalled(t, "GetLog", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("промах кеша идет в хранилище", func(t *testing.T) {
		repo := new(LogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", "log:log-uid-1", mock.Anything).Return(false, nil).Once()
		repo.On("GetLog", mock.Anything, "log-uid-1", "testuser").Return(cached, nil).Once()
		cache.On("Set", "log:log-uid-1", cached, time.Hour).Return(nil).Once()

		svc := NewLogbookService(repo, new(UserRepoMock), cache, new(GeneratorMock), nil, 40, newNoopLogger())
		got, err := svc.Read(context.Background(), "log-uid-1", "testuser")
		require.NoError(t, err)
		assert.Equal(t, cached, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		repo := new(LogRepoMock)
		cache := new(CacheMock)
		cache.On("Get", "log:missing", mock.Anything).Return(false, nil).Once()
		repo.On("GetLog", mock.Anything, "missing", "testuser").Return(nil, errors.New("not found")).Once()

		svc := NewLogbookService(repo, new(UserRepoMock), cache, new(GeneratorMock), nil, 40, newNoopLogger())
		_, err := svc.Read(context.Background(), "missing", "testuser")
		assert.Error(t, err)
	})
}

func TestLogbookService_Remove(t *testing.T) {
	repo := new(LogRepoMock)
	cache := new(CacheMock)
	cache.On("Invalidate", "log:log-uid-1").Return(nil).Once()
	repo.On("RemoveLog", mock.Anything, "log-uid-1", "testuser").Return(1, nil).Once()

	svc := NewLogbookService(repo, new(UserRepoMock), cache, new(GeneratorMock), nil, 40, newNoopLogger())
	count, err := svc.Remove(context.Background(), "log-uid-1", "testuser")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestLogbookService_List(t *testing.T) {
	repo := new(LogRepoMock)
	logs := []*models.MileageLog{generatedLog(), generatedLog()}
	repo.On("ListLogs", mock.Anything, "testuser", 10, 0).Return(logs, nil).Once()

	svc := NewLogbookService(repo, new(UserRepoMock), new(CacheMock), new(GeneratorMock), nil, 40, newNoopLogger())
	got, err := svc.List(context.Background(), "testuser", 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}
