// AngelaMos | 2026
// entity.go

package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an immutable ledger row written once per confirmed booking.
type Payment struct {
	ID             string          `db:"id"`
	BookingID      string          `db:"booking_id"`
	PayerEmail     string          `db:"payer_email"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	TransactionRef string          `db:"transaction_ref"`
	Status         string          `db:"status"`
	CreatedAt      time.Time       `db:"created_at"`
}

const StatusSucceeded = "succeeded"

type CheckoutRequest struct {
	BookingID   string
	Amount      decimal.Decimal
	Currency    string
	Description string
	PayerEmail  string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
