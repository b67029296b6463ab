// AngelaMos | 2026
// repository_test.go

package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/decorbook/internal/core"
)

const bookingID = "9a7c0c56-8f7e-4d3a-9a61-2f0f1d6b8e42"

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var bookingColumnNames = []string{
	"id", "requester_email", "service_id", "service_name", "cost",
	"booking_date", "location", "decorator_email", "decorator_name", "status",
	"payment_status", "transaction_ref", "created_at", "updated_at",
	"paid_at", "assigned_at", "completed_at", "cancelled_at",
}

func bookingRow(status, payment string, decorator, ref any, now time.Time) *sqlmock.Rows {
	var name any
	if decorator != nil {
		name = "Dana"
	}
	return sqlmock.NewRows(bookingColumnNames).AddRow(
		bookingID, "user@x.com", testServiceID, "Wedding stage", "100.00",
		now, "Bangkok", decorator, name, status,
		payment, ref, now, now,
		nil, nil, nil, nil,
	)
}

func TestRepositoryTransition(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Should condition the payment write on the expected status", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE bookings SET status = \$1, updated_at = NOW\(\), paid_at = NOW\(\), payment_status = \$2, transaction_ref = \$3 WHERE \(?id = \$4 AND status = \$5\)? RETURNING id`).
			WithArgs("paid", "paid", "abc", bookingID, "pending").
			WillReturnRows(bookingRow("paid", "paid", nil, "abc", now))

		b, err := repo.Transition(ctx, bookingID, StatusPending, Change{
			To:             StatusPaid,
			Stamp:          StampPaid,
			TransactionRef: "abc",
		})
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, b.Status)
		require.NotNil(t, b.TransactionRef)
		assert.Equal(t, "abc", *b.TransactionRef)
	})

	t.Run("Should stamp the decorator on assignment", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE bookings SET status = \$1, updated_at = NOW\(\), assigned_at = NOW\(\), decorator_email = \$2, decorator_name = \$3 WHERE`).
			WithArgs("assigned", "d@x.com", "Dana", bookingID, "paid").
			WillReturnRows(bookingRow("assigned", "paid", "d@x.com", "abc", now))

		b, err := repo.Transition(ctx, bookingID, StatusPaid, Change{
			To:        StatusAssigned,
			Stamp:     StampAssigned,
			Decorator: &Decorator{Email: "d@x.com", Name: "Dana"},
		})
		require.NoError(t, err)
		assert.True(t, b.IsAssignedTo("d@x.com"))
	})

	t.Run("Should report a lost race as a concurrent update", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE bookings SET status`).
			WillReturnRows(sqlmock.NewRows(bookingColumnNames))
		mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM bookings WHERE id = \$1\)`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := repo.Transition(ctx, bookingID, StatusPaid, Change{To: StatusAssigned})
		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		assert.ErrorIs(t, err, core.ErrPreconditionFailed)
	})

	t.Run("Should report a missing booking as not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`UPDATE bookings SET status`).
			WillReturnRows(sqlmock.NewRows(bookingColumnNames))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := repo.Transition(ctx, bookingID, StatusPaid, Change{To: StatusAssigned})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("Should null the decorator columns when clearing", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`cancelled_at = NOW\(\), decorator_email = \$2, decorator_name = \$3 WHERE`).
			WithArgs("cancelled", nil, nil, bookingID, "assigned").
			WillReturnRows(bookingRow("cancelled", "paid", nil, "abc", now))

		b, err := repo.Transition(ctx, bookingID, StatusAssigned, Change{
			To:             StatusCancelled,
			Stamp:          StampCancelled,
			ClearDecorator: true,
		})
		require.NoError(t, err)
		assert.Nil(t, b.DecoratorEmail)
	})
}

func TestRepositoryList(t *testing.T) {
	ctx := context.Background()

	t.Run("Should filter by decorator and status", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings WHERE \(status = \$1 AND decorator_email = \$2\)`).
			WithArgs("assigned", "d@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`ORDER BY created_at DESC, id LIMIT 20 OFFSET 0`).
			WithArgs("assigned", "d@x.com").
			WillReturnRows(bookingRow("assigned", "paid", "d@x.com", "abc", time.Now()))

		bookings, total, err := repo.List(ctx, ListBookingsParams{
			Status:         StatusAssigned,
			DecoratorEmail: "d@x.com",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, bookings, 1)
		assert.True(t, bookings[0].HasConsistentDecorator())
	})
}

func TestRepositoryGetByID(t *testing.T) {
	t.Run("Should map a missing row to not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`SELECT id, requester_email`).
			WithArgs(bookingID).
			WillReturnRows(sqlmock.NewRows(bookingColumnNames))

		_, err := repo.GetByID(context.Background(), bookingID)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
