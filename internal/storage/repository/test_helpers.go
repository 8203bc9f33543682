package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, username, email, passwordHash, role string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, username, email, passwordHash, role)
	require.NoError(t, err)
}

// CreateUserWithSubscription создает пользователя с полными данными подписки
func (f *TestDataFactory) CreateUserWithSubscription(t *testing.T, userUID, username, email, passwordHash, role string,
	trialEndDate, subscriptionExpiry time.Time, subscriptionStatus string) {
	_, err := f.storage.DB.Exec(`INSERT INTO users
		(uid, username, email, password_hash, role, trial_end_date, subscription_status, subscription_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userUID, username, email, passwordHash, role, trialEndDate, subscriptionStatus, subscriptionExpiry)
	require.NoError(t, err)
}

// GetTestMileageLog возвращает стандартный тестовый журнал пробега
// с двумя поездками и непрерывными показаниями одометра.
func GetTestMileageLog(username string) *models.MileageLog {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	return &models.MileageLog{
		Username:           username,
		StartDate:          start,
		EndDate:            end,
		StartMileage:       10000,
		EndMileage:         10500,
		TotalMileage:       500,
		TotalBusinessMiles: 420.5,
		TotalPersonalMiles: 79.5,
		DeductionRate:      0.67,
		DeductionAmount:    281.74,
		VehicleLabel:       "2021 Toyota Camry",
		BusinessTypeLabel:  "General Business",
		Entries: []models.TripEntry{
			{
				Date:         start.AddDate(0, 0, 1),
				Kind:         models.TripBusiness,
				StartMileage: 10000,
				EndMileage:   10012.5,
				Miles:        12.5,
				Purpose:      "Client Meeting",
				Location:     "Downtown Office",
			},
			{
				Date:         start.AddDate(0, 0, 1),
				Kind:         models.TripPersonal,
				StartMileage: 10012.5,
				EndMileage:   10018.7,
				Miles:        6.2,
				Purpose:      "Grocery Shopping",
				Location:     "Local Area",
			},
		},
	}
}

// GetTestCustomBusinessType возвращает стандартный пользовательский вид деятельности
func GetTestCustomBusinessType(username string) models.CustomBusinessType {
	return models.CustomBusinessType{
		Username:               username,
		DisplayName:            "Mobile Pet Grooming",
		AverageTripsPerWorkday: 5,
		Purposes: []models.PurposeRule{
			{Name: "Grooming Appointment", MaxDistance: 20, FrequencyPerDay: 6},
			{Name: "Supply Pickup", MaxDistance: 0, FrequencyPerDay: 1},
		},
	}
}

// GetTestUserUID возвращает новый UID для тестового пользователя
func GetTestUserUID() string {
	return uuid.New().String()
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	// Создаем таблицы
	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS mileage_log_entries CASCADE;
        DROP TABLE IF EXISTS mileage_logs CASCADE;
        DROP TABLE IF EXISTS custom_business_types CASCADE;
        DROP TABLE IF EXISTS users CASCADE;

        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE users (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            trial_end_date DATE,
            subscription_status TEXT DEFAULT 'trial',
            subscription_expiry DATE
        );

        CREATE TABLE mileage_logs (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username TEXT NOT NULL REFERENCES users(username),
            start_date DATE NOT NULL,
            end_date DATE NOT NULL,
            start_mileage DOUBLE PRECISION NOT NULL,
            end_mileage DOUBLE PRECISION NOT NULL,
            total_mileage DOUBLE PRECISION NOT NULL,
            total_business_miles DOUBLE PRECISION NOT NULL,
            total_personal_miles DOUBLE PRECISION NOT NULL,
            deduction_rate DOUBLE PRECISION NOT NULL,
            deduction_amount DOUBLE PRECISION NOT NULL,
            vehicle_label TEXT NOT NULL,
            business_type_label TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE TABLE mileage_log_entries (
            id SERIAL PRIMARY KEY,
            log_uid UUID NOT NULL REFERENCES mileage_logs(uid) ON DELETE CASCADE,
            position INT NOT NULL,
            trip_date DATE NOT NULL,
            kind TEXT NOT NULL,
            start_mileage DOUBLE PRECISION NOT NULL,
            end_mileage DOUBLE PRECISION NOT NULL,
            miles DOUBLE PRECISION NOT NULL,
            purpose TEXT NOT NULL,
            location TEXT NOT NULL
        );

        CREATE TABLE custom_business_types (
            uid UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username TEXT NOT NULL REFERENCES users(username),
            display_name TEXT NOT NULL,
            average_trips_per_workday DOUBLE PRECISION NOT NULL,
            purposes JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );

        CREATE INDEX idx_mileage_logs_username ON mileage_logs(username);
        CREATE INDEX idx_mileage_log_entries_log_uid ON mileage_log_entries(log_uid);
        CREATE INDEX idx_custom_business_types_username ON custom_business_types(username);
    `)
	require.NoError(t, err, "Failed to create tables")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
