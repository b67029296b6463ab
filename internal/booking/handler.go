// AngelaMos | 2026
// handler.go

package booking

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/middleware"
	"github.com/carterperez-dev/decorbook/internal/receipt"
)

type Handler struct {
	service       *Service
	validator     *validator.Validate
	checkoutLimit func(http.Handler) http.Handler
}

// NewHandler wires the booking routes. checkoutLimit throttles checkout
// creation and may be nil.
func NewHandler(
	service *Service,
	checkoutLimit func(http.Handler) http.Handler,
) *Handler {
	if checkoutLimit == nil {
		checkoutLimit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{
		service:       service,
		validator:     validator.New(validator.WithRequiredStructEnabled()),
		checkoutLimit: checkoutLimit,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	authz middleware.Authorizer,
) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireUser(authz))

		r.Post("/", h.Create)
		r.Get("/me", h.ListMine)
		r.Patch("/pay/{id}", h.ConfirmPayment)
		r.Patch("/cancel/{id}", h.Cancel)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.UpdateDetails)
		r.With(h.checkoutLimit).Post("/{id}/checkout", h.CreateCheckout)
		r.Get("/{id}/receipt", h.Receipt)
	})

	r.Route("/decorator", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireDecorator(authz))

		r.Get("/bookings", h.ListAssigned)
		r.Patch("/status/{id}", h.UpdateStatus)
	})
}

// RegisterAdminRoutes expects r to be mounted under /admin behind the
// admin guard.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/bookings", h.ListAll)
	r.Patch("/assign-decorator/{id}", h.AssignDecorator)
}

func actorFrom(r *http.Request) Actor {
	return Actor{
		Email: middleware.GetUserEmail(r.Context()),
		Admin: middleware.IsAdmin(r.Context()),
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !h.decode(w, r, &req) {
		return
	}

	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		core.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	b, err := h.service.Create(r.Context(), middleware.GetUserEmail(r.Context()), CreateInput{
		ServiceID: req.ServiceID,
		Date:      date,
		Location:  req.Location,
		Cost:      req.Cost,
	})
	if err != nil {
		core.HandleError(w, err, "service")
		return
	}

	core.Created(w, ToBookingResponse(b))
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	page := core.PageFromRequest(r)

	bookings, total, err := h.service.ListMine(
		r.Context(),
		middleware.GetUserEmail(r.Context()),
		page,
	)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.Paginated(w, ToBookingResponseList(bookings), page.Page, page.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), actorFrom(r))
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req UpdateDetailsRequest
	if !h.decode(w, r, &req) {
		return
	}

	in := DetailsInput{Location: req.Location}
	if req.Date != nil {
		date, err := time.Parse(DateLayout, *req.Date)
		if err != nil {
			core.BadRequest(w, "date must be YYYY-MM-DD")
			return
		}
		in.Date = &date
	}

	b, err := h.service.UpdateDetails(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserEmail(r.Context()),
		in,
	)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	b, err := h.service.ConfirmPayment(
		r.Context(),
		chi.URLParam(r, "id"),
		req.TransactionRef,
		actorFrom(r),
	)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"), actorFrom(r))
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CreateCheckout(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserEmail(r.Context()),
	)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.OK(w, session)
}

func (h *Handler) Receipt(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Receipt(r.Context(), chi.URLParam(r, "id"), actorFrom(r))
	if err != nil {
		core.HandleError(w, err, "payment")
		return
	}

	pdf, err := receipt.Render(*doc)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", receipt.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	_, _ = w.Write(pdf)
}

func (h *Handler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	page := core.PageFromRequest(r)

	bookings, total, err := h.service.ListAssigned(
		r.Context(),
		middleware.GetUserEmail(r.Context()),
		Status(r.URL.Query().Get("status")),
		page,
	)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.Paginated(w, ToBookingResponseList(bookings), page.Page, page.PageSize, total)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	b, err := h.service.UpdateStatus(
		r.Context(),
		chi.URLParam(r, "id"),
		middleware.GetUserEmail(r.Context()),
		Status(req.Status),
	)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListBookingsParams{
		PageParams:     core.PageFromRequest(r),
		Status:         Status(q.Get("status")),
		RequesterEmail: q.Get("requester"),
		DecoratorEmail: q.Get("decorator"),
		ServiceID:      q.Get("service_id"),
		Search:         q.Get("search"),
	}

	var err error
	if params.From, err = parseDate(q.Get("from")); err != nil {
		core.BadRequest(w, "from must be YYYY-MM-DD")
		return
	}
	if params.To, err = parseDate(q.Get("to")); err != nil {
		core.BadRequest(w, "to must be YYYY-MM-DD")
		return
	}

	bookings, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.Paginated(
		w,
		ToBookingResponseList(bookings),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) AssignDecorator(w http.ResponseWriter, r *http.Request) {
	var req AssignDecoratorRequest
	if !h.decode(w, r, &req) {
		return
	}

	b, err := h.service.AssignDecorator(
		r.Context(),
		chi.URLParam(r, "id"),
		req.DecoratorEmail,
		actorFrom(r),
	)
	if err != nil {
		core.HandleError(w, err, "booking")
		return
	}

	core.OK(w, ToBookingResponse(b))
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil // absent bound
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
