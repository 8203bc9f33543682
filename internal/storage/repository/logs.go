package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/mileage-log-generator/internal/models"
)

// SaveLog сохраняет журнал пробега вместе с поездками в одной транзакции
// и возвращает UID журнала.
func (s *Storage) SaveLog(ctx context.Context, logEntry *models.MileageLog) (string, error) {
	const op = "storage.SaveLog"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO mileage_logs (username, start_date, end_date, start_mileage,
			      end_mileage, total_mileage, total_business_miles, total_personal_miles,
			      deduction_rate, deduction_amount, vehicle_label, business_type_label)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING uid`
	var newUID string
	err = tx.QueryRowContext(ctx, query,
		logEntry.Username, logEntry.StartDate, logEntry.EndDate, logEntry.StartMileage,
		logEntry.EndMileage, logEntry.TotalMileage, logEntry.TotalBusinessMiles,
		logEntry.TotalPersonalMiles, logEntry.DeductionRate, logEntry.DeductionAmount,
		logEntry.VehicleLabel, logEntry.BusinessTypeLabel).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	entryQuery := `INSERT INTO mileage_log_entries (log_uid, position, trip_date, kind,
			      start_mileage, end_mileage, miles, purpose, location)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, entry := range logEntry.Entries {
		if _, err := tx.ExecContext(ctx, entryQuery,
			newUID, i, entry.Date, entry.Kind, entry.StartMileage, entry.EndMileage,
			entry.Miles, entry.Purpose, entry.Location); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetLog возвращает журнал пользователя по UID вместе с поездками
// в порядке генерации.
func (s *Storage) GetLog(ctx context.Context, uid, username string) (*models.MileageLog, error) {
	const op = "storage.GetLog"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, start_date, end_date, start_mileage, end_mileage,
			      total_mileage, total_business_miles, total_personal_miles,
			      deduction_rate, deduction_amount, vehicle_label, business_type_label, created_at
			  FROM mileage_logs
			  WHERE uid = $1 AND username = $2`
	row := s.DB.QueryRowContext(ctx, query, uid, username)

	var result models.MileageLog
	if err := row.Scan(&result.UID, &result.Username, &result.StartDate, &result.EndDate,
		&result.StartMileage, &result.EndMileage, &result.TotalMileage,
		&result.TotalBusinessMiles, &result.TotalPersonalMiles, &result.DeductionRate,
		&result.DeductionAmount, &result.VehicleLabel, &result.BusinessTypeLabel,
		&result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entryQuery := `SELECT trip_date, kind, start_mileage, end_mileage, miles, purpose, location
			  FROM mileage_log_entries
			  WHERE log_uid = $1
			  ORDER BY position`
	rows, err := s.DB.QueryContext(ctx, entryQuery, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var entry models.TripEntry
		if err := rows.Scan(&entry.Date, &entry.Kind, &entry.StartMileage, &entry.EndMileage,
			&entry.Miles, &entry.Purpose, &entry.Location); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entry.VehicleLabel = result.VehicleLabel
		entry.BusinessTypeLabel = result.BusinessTypeLabel
		result.Entries = append(result.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListLogs возвращает шапки журналов пользователя с пагинацией,
// без поездок.
func (s *Storage) ListLogs(ctx context.Context, username string, limit, offset int) ([]*models.MileageLog, error) {
	const op = "storage.ListLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, start_date, end_date, start_mileage, end_mileage,
			      total_mileage, total_business_miles, total_personal_miles,
			      deduction_rate, deduction_amount, vehicle_label, business_type_label, created_at
			  FROM mileage_logs
			  WHERE username = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MileageLog
	for rows.Next() {
		var item models.MileageLog
		if err := rows.Scan(&item.UID, &item.Username, &item.StartDate, &item.EndDate,
			&item.StartMileage, &item.EndMileage, &item.TotalMileage,
			&item.TotalBusinessMiles, &item.TotalPersonalMiles, &item.DeductionRate,
			&item.DeductionAmount, &item.VehicleLabel, &item.BusinessTypeLabel,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveLog удаляет журнал пользователя по UID и возвращает количество
// удалённых строк. Поездки удаляются каскадно.
func (s *Storage) RemoveLog(ctx context.Context, uid, username string) (int, error) {
	const op = "storage.RemoveLog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM mileage_logs WHERE uid = $1 AND username = $2`
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
