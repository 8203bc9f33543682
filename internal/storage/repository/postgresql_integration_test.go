package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/businesstype"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

func TestStorage_SaveAndGetLog(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := GetTestUserUID()
	factory.CreateUser(t, userUID, "testuser", "test@example.com", "hashedpassword", "user")

	logEntry := GetTestMileageLog("testuser")

	uid, err := storage.SaveLog(context.Background(), logEntry)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetLog(context.Background(), uid, "testuser")
	require.NoError(t, err)

	assert.Equal(t, "testuser", got.Username)
	assert.Equal(t, logEntry.StartMileage, got.StartMileage)
	assert.Equal(t, logEntry.EndMileage, got.EndMileage)
	assert.Equal(t, logEntry.TotalBusinessMiles, got.TotalBusinessMiles)
	assert.Equal(t, logEntry.DeductionAmount, got.DeductionAmount)
	assert.Equal(t, logEntry.VehicleLabel, got.VehicleLabel)
	require.Len(t, got.Entries, len(logEntry.Entries))

	// Поездки возвращаются в порядке генерации с сохранением показаний одометра
	for i, entry := range got.Entries {
		assert.Equal(t, logEntry.Entries[i].Kind, entry.Kind)
		assert.Equal(t, logEntry.Entries[i].StartMileage, entry.StartMileage)
		assert.Equal(t, logEntry.Entries[i].EndMileage, entry.EndMileage)
		assert.Equal(t, logEntry.Entries[i].Miles, entry.Miles)
		assert.Equal(t, logEntry.Entries[i].Purpose, entry.Purpose)
		assert.Equal(t, logEntry.Entries[i].Location, entry.Location)
	}
}

func TestStorage_GetLog_WrongUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, GetTestUserUID(), "owner", "owner@example.com", "hashedpassword", "user")
	factory.CreateUser(t, GetTestUserUID(), "intruder", "intruder@example.com", "hashedpassword", "user")

	uid, err := storage.SaveLog(context.Background(), GetTestMileageLog("owner"))
	require.NoError(t, err)

	// Чужой журнал недоступен
	_, err = storage.GetLog(context.Background(), uid, "intruder")
	assert.Error(t, err)
}

func TestStorage_ListLogs(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		limit     int
		offset    int
		wantCount int
		setup     func(t *testing.T, storage *Storage, factory *TestDataFactory)
	}{
		{
			name:      "successful list logs with pagination",
			username:  "testuser",
			limit:     10,
			offset:    0,
			wantCount: 2,
			setup: func(t *testing.T, storage *Storage, factory *TestDataFactory) {
				factory.CreateUser(t, GetTestUserUID(), "testuser", "test@example.com", "hashedpassword", "user")
				_, err := storage.SaveLog(context.Background(), GetTestMileageLog("testuser"))
				require.NoError(t, err)
				_, err = storage.SaveLog(context.Background(), GetTestMileageLog("testuser"))
				require.NoError(t, err)
			},
		},
		{
			name:      "list logs for non-existing user",
			username:  "nonexistent",
			limit:     10,
			offset:    0,
			wantCount: 0,
			setup:     func(_ *testing.T, _ *Storage, _ *TestDataFactory) {},
		},
		{
			name:      "offset beyond available logs",
			username:  "testuser",
			limit:     10,
			offset:    5,
			wantCount: 0,
			setup: func(t *testing.T, storage *Storage, factory *TestDataFactory) {
				factory.CreateUser(t, GetTestUserUID(), "testuser", "test@example.com", "hashedpassword", "user")
				_, err := storage.SaveLog(context.Background(), GetTestMileageLog("testuser"))
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, storage, factory)

			got, err := storage.ListLogs(context.Background(), tt.username, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)

			// Список содержит только шапки, без поездок
			for _, item := range got {
				assert.Empty(t, item.Entries)
			}
		})
	}
}

func TestStorage_RemoveLog(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, GetTestUserUID(), "testuser", "test@example.com", "hashedpassword", "user")

	uid, err := storage.SaveLog(context.Background(), GetTestMileageLog("testuser"))
	require.NoError(t, err)

	removed, err := storage.RemoveLog(context.Background(), uid, "testuser")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// Поездки удаляются каскадно
	var entriesCount int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM mileage_log_entries WHERE log_uid = $1", uid).Scan(&entriesCount)
	require.NoError(t, err)
	assert.Equal(t, 0, entriesCount)

	removed, err = storage.RemoveLog(context.Background(), uid, "testuser")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestStorage_CustomBusinessTypes(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, GetTestUserUID(), "testuser", "test@example.com", "hashedpassword", "user")

	ct := GetTestCustomBusinessType("testuser")
	uid, err := storage.CreateCustomType(context.Background(), ct)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetCustomType(context.Background(), uid, "testuser")
	require.NoError(t, err)
	assert.Equal(t, ct.DisplayName, got.DisplayName)
	assert.Equal(t, ct.AverageTripsPerWorkday, got.AverageTripsPerWorkday)
	require.Len(t, got.Purposes, len(ct.Purposes))
	assert.Equal(t, models.PurposeRule{Name: "Grooming Appointment", MaxDistance: 20, FrequencyPerDay: 6}, got.Purposes[0])

	list, err := storage.ListCustomTypes(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	removed, err := storage.RemoveCustomType(context.Background(), uid, "testuser")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	list, err = storage.ListCustomTypes(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStorage_GetCustomType_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, GetTestUserUID(), "testuser", "test@example.com", "hashedpassword", "user")

	_, err := storage.GetCustomType(context.Background(), GetTestUserUID(), "testuser")
	require.Error(t, err)
	assert.True(t, errors.Is(err, businesstype.ErrNotFound))
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	trialEnd := time.Now().AddDate(0, 0, 7)
	user := models.User{
		Email:              "new@example.com",
		Username:           "newuser",
		PasswordHash:       "hashedpassword",
		Role:               "user",
		TrialEndDate:       &trialEnd,
		SubscriptionStatus: "trial",
	}

	uid, err := storage.RegisterUser(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	got, err := storage.GetUserByUsername(context.Background(), "newuser")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UUID)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "trial", got.SubscriptionStatus)

	byUID, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "newuser", byUID.Username)

	status, err := storage.GetSubscriptionStatus(context.Background(), "newuser")
	require.NoError(t, err)
	assert.Equal(t, "trial", status)

	err = storage.UpdateSubscriptionStatus(context.Background(), uid, "expired")
	require.NoError(t, err)

	status, err = storage.GetSubscriptionStatus(context.Background(), "newuser")
	require.NoError(t, err)
	assert.Equal(t, "expired", status)
}

func TestStorage_ContextCancellation(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.ListLogs(ctx, "testuser", 10, 0)
	assert.Error(t, err)
}
