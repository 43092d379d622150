package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/psqlbuilder"
)

const (
	table = "class_registrations"

	uniqueViolationCode = "23505"
)

// Repository репозиторий записей на групповые занятия
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет запись участника на занятие
func (r *Repository) Create(ctx context.Context, reg *domain.ClassRegistration) (*domain.ClassRegistration, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("class_session_id", "member_id").
		Values(reg.ClassSessionID, reg.MemberID).
		Suffix("RETURNING registered_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&reg.RegisteredAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return reg, nil
}

// Delete удаляет запись участника на занятие
func (r *Repository) Delete(ctx context.Context, sessionID, memberID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"class_session_id": sessionID, "member_id": memberID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}

// ListBySession получает записи на занятие в порядке регистрации
func (r *Repository) ListBySession(ctx context.Context, sessionID int64) ([]*domain.ClassRegistration, error) {
	builder := psqlbuilder.Select("class_session_id", "member_id", "registered_at").
		From(table).
		Where(squirrel.Eq{"class_session_id": sessionID}).
		OrderBy("registered_at ASC", "member_id ASC")

	return r.list(ctx, "ListBySession", builder)
}

// ListForScheduledSessions получает записи на все занятия в статусе scheduled
// Используется при восстановлении трекера мест
func (r *Repository) ListForScheduledSessions(ctx context.Context) ([]*domain.ClassRegistration, error) {
	builder := psqlbuilder.Select("r.class_session_id", "r.member_id", "r.registered_at").
		From(table + " r").
		Join("class_sessions s ON s.id = r.class_session_id").
		Where(squirrel.Eq{"s.status": string(domain.StatusScheduled)}).
		OrderBy("r.class_session_id ASC", "r.registered_at ASC")

	return r.list(ctx, "ListForScheduledSessions", builder)
}

func (r *Repository) list(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.ClassRegistration, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	regs := make([]*domain.ClassRegistration, 0)
	for rows.Next() {
		var (
			reg          domain.ClassRegistration
			registeredAt sql.NullTime
		)
		if err := rows.Scan(&reg.ClassSessionID, &reg.MemberID, &registeredAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		reg.RegisteredAt = registeredAt.Time
		regs = append(regs, &reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return regs, nil
}
