// AngelaMos | 2026
// dto.go

package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type CreateBookingRequest struct {
	ServiceID string           `json:"service_id" validate:"required,uuid"`
	Date      string           `json:"date"       validate:"required,datetime=2006-01-02"`
	Location  string           `json:"location"   validate:"required,min=2,max=500"`
	Cost      *decimal.Decimal `json:"cost,omitempty"`
}

type UpdateDetailsRequest struct {
	Date     *string `json:"date,omitempty"     validate:"omitempty,datetime=2006-01-02"`
	Location *string `json:"location,omitempty" validate:"omitempty,min=2,max=500"`
}

type ConfirmPaymentRequest struct {
	TransactionRef string `json:"transaction_ref" validate:"required,max=255"`
}

type AssignDecoratorRequest struct {
	DecoratorEmail string `json:"decorator_email" validate:"required,email"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

type BookingResponse struct {
	ID             string          `json:"id"`
	RequesterEmail string          `json:"requester_email"`
	ServiceID      string          `json:"service_id"`
	ServiceName    string          `json:"service_name"`
	Cost           decimal.Decimal `json:"cost"`
	Date           string          `json:"date"`
	Location       string          `json:"location"`
	DecoratorEmail *string         `json:"decorator_email"`
	DecoratorName  *string         `json:"decorator_name"`
	Status         Status          `json:"status"`
	PaymentStatus  string          `json:"payment_status"`
	TransactionRef *string         `json:"transaction_ref,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	AssignedAt     *time.Time      `json:"assigned_at,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
}

// ListBookingsParams filters every booking listing. The per-caller views
// pin RequesterEmail or DecoratorEmail before reaching the repository.
type ListBookingsParams struct {
	core.PageParams
	Status         Status
	RequesterEmail string
	DecoratorEmail string
	ServiceID      string
	Search         string
	From           *time.Time
	To             *time.Time
}

func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		RequesterEmail: b.RequesterEmail,
		ServiceID:      b.ServiceID,
		ServiceName:    b.ServiceName,
		Cost:           b.Cost,
		Date:           b.Date.Format(DateLayout),
		Location:       b.Location,
		DecoratorEmail: b.DecoratorEmail,
		DecoratorName:  b.DecoratorName,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		TransactionRef: b.TransactionRef,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		PaidAt:         b.PaidAt,
		AssignedAt:     b.AssignedAt,
		CompletedAt:    b.CompletedAt,
		CancelledAt:    b.CancelledAt,
	}
}

func ToBookingResponseList(bookings []Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = ToBookingResponse(&bookings[i])
	}
	return out
}
