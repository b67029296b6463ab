// AngelaMos | 2026
// ledger.go

package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/decorbook/internal/core"
)

// Ledger is append-only. There is deliberately no update or delete.
type Ledger interface {
	Append(ctx context.Context, p *Payment) error
	ListByPayer(
		ctx context.Context,
		email string,
		page core.PageParams,
	) ([]Payment, int, error)
	GetByBooking(ctx context.Context, bookingID string) (*Payment, error)
}

type ledger struct {
	db core.DBTX
}

// NewLedger binds the ledger to a pool or to an open transaction.
func NewLedger(db core.DBTX) Ledger {
	return &ledger{db: db}
}

const paymentColumns = `id, booking_id, payer_email, amount, currency,
		       transaction_ref, status, created_at`

func (l *ledger) Append(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, payer_email, amount, currency, transaction_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := l.db.GetContext(ctx, &p.CreatedAt, query,
		p.ID,
		p.BookingID,
		p.PayerEmail,
		p.Amount,
		p.Currency,
		p.TransactionRef,
		p.Status,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("append payment: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("append payment: %w", err)
	}

	return nil
}

func (l *ledger) ListByPayer(
	ctx context.Context,
	email string,
	page core.PageParams,
) ([]Payment, int, error) {
	page.Normalize()

	var total int
	if err := l.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM payments WHERE payer_email = $1`, email,
	); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE payer_email = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	payments := []Payment{}
	if err := l.db.SelectContext(ctx, &payments, query,
		email, page.PageSize, page.Offset(),
	); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	return payments, total, nil
}

func (l *ledger) GetByBooking(ctx context.Context, bookingID string) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`

	var p Payment
	err := l.db.GetContext(ctx, &p, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &p, nil
}
