package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/psqlbuilder"
)

const classTable = "class_sessions"

var classColumns = []string{
	"id",
	"class_id",
	"trainer_id",
	"room_id",
	"start_ts",
	"end_ts",
	"capacity",
	"status",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// CreateClass создает групповое занятие
func (r *Repository) CreateClass(ctx context.Context, s *domain.ClassSession) (*domain.ClassSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(classTable).
		Columns(
			"class_id",
			"trainer_id",
			"room_id",
			"start_ts",
			"end_ts",
			"capacity",
			"status",
		).
		Values(
			s.ClassID,
			s.TrainerID,
			s.RoomID,
			s.Range.Start,
			s.Range.End,
			s.Capacity,
			s.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClass - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateClass - execute insert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetClassByID получает групповое занятие по ID
func (r *Repository) GetClassByID(ctx context.Context, id int64) (*domain.ClassSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(classColumns...).
		From(classTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetClassByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanClass(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClassByID - scan session: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListClass получает групповые занятия по фильтру, упорядоченные по началу
func (r *Repository) ListClass(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.ClassSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select(classColumns...).From(classTable), filter).
		OrderBy("start_ts ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListClass - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListClass - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.ClassSession, 0)
	for rows.Next() {
		s, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListClass - scan row: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListClass - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

// UpdateClassStatus обновляет статус группового занятия
func (r *Repository) UpdateClassStatus(ctx context.Context, id int64, status domain.SessionStatus) error {
	return r.updateStatus(ctx, classTable, "UpdateClassStatus", id, status)
}

func scanClass(row rowScanner) (*domain.ClassSession, error) {
	var (
		s                    domain.ClassSession
		trainerID, roomID    sql.NullInt64
		cancelledAt          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&s.ClassID,
		&trainerID,
		&roomID,
		&s.Range.Start,
		&s.Range.End,
		&s.Capacity,
		&s.Status,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if !s.Status.IsValid() {
		return nil, fmt.Errorf("unknown session status %q", s.Status)
	}

	if trainerID.Valid {
		s.TrainerID = &trainerID.Int64
	}
	if roomID.Valid {
		s.RoomID = &roomID.Int64
	}
	if cancelledAt.Valid {
		s.CancelledAt = &cancelledAt.Time
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
