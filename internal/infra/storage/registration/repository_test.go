package registration

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
)

func setupMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func TestCreate(t *testing.T) {
	repo, mock := setupMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO class_registrations \(class_session_id,member_id\) VALUES \(\$1,\$2\) RETURNING registered_at`).
		WithArgs(int64(5), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"registered_at"}).AddRow(now))

	reg, err := repo.Create(context.Background(), &domain.ClassRegistration{ClassSessionID: 5, MemberID: 100})

	require.NoError(t, err)
	assert.Equal(t, now, reg.RegisteredAt)
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectQuery(`INSERT INTO class_registrations`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.ClassRegistration{ClassSessionID: 5, MemberID: 100})

	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestDelete(t *testing.T) {
	repo, mock := setupMock(t)

	mock.ExpectExec(`DELETE FROM class_registrations WHERE class_session_id = \$1 AND member_id = \$2`).
		WithArgs(int64(5), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 5, 100))

	mock.ExpectExec(`DELETE FROM class_registrations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5, 100), ErrRegistrationNotFound)
}

func TestListForScheduledSessions(t *testing.T) {
	repo, mock := setupMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT r.class_session_id, r.member_id, r.registered_at FROM class_registrations r JOIN class_sessions s ON s.id = r.class_session_id WHERE s.status = \$1`).
		WithArgs("scheduled").
		WillReturnRows(sqlmock.NewRows([]string{"class_session_id", "member_id", "registered_at"}).
			AddRow(1, 10, now).
			AddRow(1, 11, now))

	regs, err := repo.ListForScheduledSessions(context.Background())

	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, int64(11), regs[1].MemberID)
}
