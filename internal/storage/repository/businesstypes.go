package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/mileage-log-generator/internal/generator/businesstype"
	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// CreateCustomType сохраняет пользовательский вид деятельности и возвращает его UID.
// Список целей сериализуется в JSONB.
func (s *Storage) CreateCustomType(ctx context.Context, ct models.CustomBusinessType) (string, error) {
	const op = "storage.CreateCustomType"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	purposes, err := json.Marshal(ct.Purposes)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO custom_business_types (username, display_name,
			      average_trips_per_workday, purposes)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid`
	var newUID string
	err = s.DB.QueryRowContext(ctx, query,
		ct.Username, ct.DisplayName, ct.AverageTripsPerWorkday, purposes).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetCustomType возвращает пользовательский вид деятельности по UID
// или businesstype.ErrNotFound, если такого типа у пользователя нет.
func (s *Storage) GetCustomType(ctx context.Context, uid, username string) (*models.CustomBusinessType, error) {
	const op = "storage.GetCustomType"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, display_name, average_trips_per_workday, purposes, created_at
			  FROM custom_business_types
			  WHERE uid = $1 AND username = $2`
	row := s.DB.QueryRowContext(ctx, query, uid, username)

	var result models.CustomBusinessType
	var purposes []byte
	if err := row.Scan(&result.UID, &result.Username, &result.DisplayName,
		&result.AverageTripsPerWorkday, &purposes, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, businesstype.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(purposes, &result.Purposes); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListCustomTypes возвращает все пользовательские виды деятельности пользователя.
func (s *Storage) ListCustomTypes(ctx context.Context, username string) ([]*models.CustomBusinessType, error) {
	const op = "storage.ListCustomTypes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, display_name, average_trips_per_workday, purposes, created_at
			  FROM custom_business_types
			  WHERE username = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.CustomBusinessType
	for rows.Next() {
		var item models.CustomBusinessType
		var purposes []byte
		if err := rows.Scan(&item.UID, &item.Username, &item.DisplayName,
			&item.AverageTripsPerWorkday, &purposes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(purposes, &item.Purposes); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveCustomType удаляет пользовательский вид деятельности по UID
// и возвращает количество удалённых строк.
func (s *Storage) RemoveCustomType(ctx context.Context, uid, username string) (int, error) {
	const op = "storage.RemoveCustomType"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM custom_business_types WHERE uid = $1 AND username = $2`
	result, err := s.DB.ExecContext(ctx, query, uid, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
