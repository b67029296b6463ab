// AngelaMos | 2026
// dto.go

package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID             string          `json:"id"`
	BookingID      string          `json:"booking_id"`
	PayerEmail     string          `json:"payer_email"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	TransactionRef string          `json:"transaction_ref"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

func ToPaymentResponseList(payments []Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, PaymentResponse{
			ID:             p.ID,
			BookingID:      p.BookingID,
			PayerEmail:     p.PayerEmail,
			Amount:         p.Amount,
			Currency:       p.Currency,
			TransactionRef: p.TransactionRef,
			Status:         p.Status,
			CreatedAt:      p.CreatedAt,
		})
	}
	return responses
}
