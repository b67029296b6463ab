// AngelaMos | 2026
// repository.go

package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/carterperez-dev/decorbook/internal/core"
)

// ErrConcurrentUpdate means a conditional write found the booking in a
// different status than the caller read.
var ErrConcurrentUpdate = fmt.Errorf(
	"booking modified concurrently: %w",
	core.ErrPreconditionFailed,
)

type Stamp string

const (
	StampNone      Stamp = ""
	StampPaid      Stamp = "paid_at"
	StampAssigned  Stamp = "assigned_at"
	StampCompleted Stamp = "completed_at"
	StampCancelled Stamp = "cancelled_at"
)

type Decorator struct {
	Email string
	Name  string
}

// Change describes one status transition applied by Transition.
type Change struct {
	To             Status
	Stamp          Stamp
	Decorator      *Decorator
	ClearDecorator bool
	TransactionRef string
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	Transition(
		ctx context.Context,
		id string,
		from Status,
		change Change,
	) (*Booking, error)
	UpdateDetails(
		ctx context.Context,
		id string,
		from Status,
		date time.Time,
		location string,
	) (*Booking, error)
	List(ctx context.Context, params ListBookingsParams) ([]Booking, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, requester_email, service_id, service_name, cost,
		       booking_date, location, decorator_email, decorator_name, status,
		       payment_status, transaction_ref, created_at, updated_at,
		       paid_at, assigned_at, completed_at, cancelled_at`

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (id, requester_email, service_id, service_name, cost,
		                      booking_date, location, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		b.ID,
		b.RequesterEmail,
		b.ServiceID,
		b.ServiceName,
		b.Cost,
		b.Date,
		b.Location,
		b.Status,
		b.PaymentStatus,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create booking: service: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &b, nil
}

// Transition moves the booking out of status from in a single conditional
// UPDATE. A miss is resolved into ErrNotFound or ErrConcurrentUpdate.
func (r *repository) Transition(
	ctx context.Context,
	id string,
	from Status,
	change Change,
) (*Booking, error) {
	q := core.Builder.
		Update("bookings").
		Set("status", string(change.To)).
		Set("updated_at", squirrel.Expr("NOW()"))

	if change.Stamp != StampNone {
		q = q.Set(string(change.Stamp), squirrel.Expr("NOW()"))
	}

	switch {
	case change.Decorator != nil:
		q = q.Set("decorator_email", change.Decorator.Email).
			Set("decorator_name", change.Decorator.Name)
	case change.ClearDecorator:
		q = q.Set("decorator_email", nil).Set("decorator_name", nil)
	}

	if change.TransactionRef != "" {
		q = q.Set("payment_status", PaymentPaid).
			Set("transaction_ref", change.TransactionRef)
	}

	query, args, err := q.
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		Suffix("RETURNING " + bookingColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking transition: %w", err)
	}

	var b Booking
	err = r.db.GetContext(ctx, &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.resolveMiss(ctx, id, "transition booking")
	}
	if err != nil {
		return nil, fmt.Errorf("transition booking: %w", err)
	}

	return &b, nil
}

func (r *repository) UpdateDetails(
	ctx context.Context,
	id string,
	from Status,
	date time.Time,
	location string,
) (*Booking, error) {
	query := `
		UPDATE bookings
		SET booking_date = $3, location = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id, string(from), date, location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.resolveMiss(ctx, id, "update booking details")
	}
	if err != nil {
		return nil, fmt.Errorf("update booking details: %w", err)
	}

	return &b, nil
}

func (r *repository) resolveMiss(ctx context.Context, id, op string) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrConcurrentUpdate)
}

func (r *repository) List(
	ctx context.Context,
	params ListBookingsParams,
) ([]Booking, int, error) {
	params.Normalize()

	where := squirrel.And{}

	if params.Status != "" {
		where = append(where, squirrel.Eq{"status": string(params.Status)})
	}

	if params.RequesterEmail != "" {
		where = append(where, squirrel.Eq{"requester_email": params.RequesterEmail})
	}

	if params.DecoratorEmail != "" {
		where = append(where, squirrel.Eq{"decorator_email": params.DecoratorEmail})
	}

	if params.ServiceID != "" {
		where = append(where, squirrel.Eq{"service_id": params.ServiceID})
	}

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"service_name": pattern},
			squirrel.ILike{"location": pattern},
		})
	}

	if params.From != nil {
		where = append(where, squirrel.GtOrEq{"booking_date": *params.From})
	}

	if params.To != nil {
		where = append(where, squirrel.LtOrEq{"booking_date": *params.To})
	}

	countQuery, args, err := core.Builder.
		Select("COUNT(*)").
		From("bookings").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count bookings: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	query, args, err := core.Builder.
		Select(bookingColumns).
		From("bookings").
		Where(where).
		OrderBy("created_at DESC", "id").
		Limit(params.Limit()).
		Offset(uint64(params.Offset())). //nolint:gosec // page >= 1
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings: %w", err)
	}

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, total, nil
}
