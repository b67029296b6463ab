// AngelaMos | 2026
// uow.go

package booking

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/payment"
)

// UnitOfWork runs fn against a booking repository and a payment ledger that
// share one transaction. fn returning an error rolls both back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repo Repository, ledger payment.Ledger) error) error
}

type sqlUnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) UnitOfWork {
	return &sqlUnitOfWork{db: db}
}

func (u *sqlUnitOfWork) Do(
	ctx context.Context,
	fn func(repo Repository, ledger payment.Ledger) error,
) error {
	return core.InTx(ctx, u.db, func(tx *sqlx.Tx) error {
		return fn(NewRepository(tx), payment.NewLedger(tx))
	})
}
