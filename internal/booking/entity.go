// AngelaMos | 2026
// entity.go

package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusAssigned, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// DateLayout is the wire format of a booking date.
const DateLayout = "2006-01-02"

type Booking struct {
	ID             string          `db:"id"`
	RequesterEmail string          `db:"requester_email"`
	ServiceID      string          `db:"service_id"`
	ServiceName    string          `db:"service_name"`
	Cost           decimal.Decimal `db:"cost"`
	Date           time.Time       `db:"booking_date"`
	Location       string          `db:"location"`
	DecoratorEmail *string         `db:"decorator_email"`
	DecoratorName  *string         `db:"decorator_name"`
	Status         Status          `db:"status"`
	PaymentStatus  string          `db:"payment_status"`
	TransactionRef *string         `db:"transaction_ref"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
	PaidAt         *time.Time      `db:"paid_at"`
	AssignedAt     *time.Time      `db:"assigned_at"`
	CompletedAt    *time.Time      `db:"completed_at"`
	CancelledAt    *time.Time      `db:"cancelled_at"`
}

func (b *Booking) IsRequester(email string) bool {
	return b.RequesterEmail == email
}

func (b *Booking) IsAssignedTo(email string) bool {
	return b.DecoratorEmail != nil && *b.DecoratorEmail == email
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

// HasConsistentDecorator reports whether the decorator fields agree with
// the status: set exactly while assigned or completed.
func (b *Booking) HasConsistentDecorator() bool {
	wantDecorator := b.Status == StatusAssigned || b.Status == StatusCompleted
	return (b.DecoratorEmail != nil) == wantDecorator
}

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	Email string
	Admin bool
}
