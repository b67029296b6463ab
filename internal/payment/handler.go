// AngelaMos | 2026
// handler.go

package payment

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
)

type Handler struct {
	ledger Ledger
}

func NewHandler(ledger Ledger) *Handler {
	return &Handler{ledger: ledger}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	authz middleware.Authorizer,
) {
	r.Route("/payments", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireUser(authz))

		r.Get("/{email}", h.ListByPayer)
	})
}

// ListByPayer returns a payer's ledger newest first. Callers may read their
// own history; admins may read anyone's.
func (h *Handler) ListByPayer(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(chi.URLParam(r, "email"))

	if email != middleware.GetUserEmail(r.Context()) &&
		!middleware.IsAdmin(r.Context()) {
		core.Forbidden(w, "cannot read another user's payments")
		return
	}

	page := core.PageFromRequest(r)

	payments, total, err := h.ledger.ListByPayer(r.Context(), email, page)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToPaymentResponseList(payments), page.Page, page.PageSize, total)
}
