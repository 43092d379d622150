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

const personalTable = "personal_sessions"

var personalColumns = []string{
	"id",
	"member_id",
	"trainer_id",
	"room_id",
	"start_ts",
	"end_ts",
	"status",
	"note",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий персональных и групповых занятий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория занятий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreatePersonal создает персональное занятие
// Если в контексте передана активная транзакция, использует её
func (r *Repository) CreatePersonal(ctx context.Context, s *domain.PersonalSession) (*domain.PersonalSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(personalTable).
		Columns(
			"member_id",
			"trainer_id",
			"room_id",
			"start_ts",
			"end_ts",
			"status",
			"note",
		).
		Values(
			s.MemberID,
			s.TrainerID,
			s.RoomID,
			s.Range.Start,
			s.Range.End,
			s.Status,
			s.Note,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePersonal - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreatePersonal - execute insert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetPersonalByID получает персональное занятие по ID
func (r *Repository) GetPersonalByID(ctx context.Context, id int64) (*domain.PersonalSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(personalColumns...).
		From(personalTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPersonalByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanPersonal(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPersonalByID - scan session: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListPersonal получает персональные занятия по фильтру, упорядоченные по началу
func (r *Repository) ListPersonal(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.PersonalSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyFilter(psqlbuilder.Select(personalColumns...).From(personalTable), filter).
		OrderBy("start_ts ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPersonal - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPersonal - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.PersonalSession, 0)
	for rows.Next() {
		s, err := scanPersonal(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListPersonal - scan row: %v", ErrScanRow, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPersonal - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

// UpdatePersonalStatus обновляет статус персонального занятия
// При отмене проставляет cancelled_at
func (r *Repository) UpdatePersonalStatus(ctx context.Context, id int64, status domain.SessionStatus) error {
	return r.updateStatus(ctx, personalTable, "UpdatePersonalStatus", id, status)
}

func (r *Repository) updateStatus(ctx context.Context, table, op string, id int64, status domain.SessionStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})
	if status == domain.StatusCancelled {
		builder = builder.Set("cancelled_at", squirrel.Expr("NOW()"))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// applyFilter добавляет условия ScheduleFilter к запросу
func applyFilter(b squirrel.SelectBuilder, filter domain.ScheduleFilter) squirrel.SelectBuilder {
	if filter.TrainerID != nil {
		b = b.Where(squirrel.Eq{"trainer_id": *filter.TrainerID})
	}
	if filter.RoomID != nil {
		b = b.Where(squirrel.Eq{"room_id": *filter.RoomID})
	}
	if filter.From != nil {
		b = b.Where(squirrel.Gt{"end_ts": *filter.From})
	}
	if filter.To != nil {
		b = b.Where(squirrel.Lt{"start_ts": *filter.To})
	}
	if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		b = b.Where(squirrel.NotEq{"status": inactive})
	}
	return b
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPersonal(row rowScanner) (*domain.PersonalSession, error) {
	var (
		s                    domain.PersonalSession
		roomID               sql.NullInt64
		note                 sql.NullString
		cancelledAt          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&s.ID,
		&s.MemberID,
		&s.TrainerID,
		&roomID,
		&s.Range.Start,
		&s.Range.End,
		&s.Status,
		&note,
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

	if roomID.Valid {
		s.RoomID = &roomID.Int64
	}
	if note.Valid {
		s.Note = &note.String
	}
	if cancelledAt.Valid {
		s.CancelledAt = &cancelledAt.Time
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
