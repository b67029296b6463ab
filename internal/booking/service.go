// AngelaMos | 2026
// service.go

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/decorbook/internal/catalog"
	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/events"
	"github.com/carterperez-dev/decorbook/internal/payment"
	"github.com/carterperez-dev/decorbook/internal/receipt"
	"github.com/carterperez-dev/decorbook/internal/user"
)

type Catalog interface {
	Get(ctx context.Context, id string) (*catalog.Item, error)
}

type Directory interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type ServiceConfig struct {
	Repo       Repository
	UnitOfWork UnitOfWork
	Ledger     payment.Ledger
	Catalog    Catalog
	Directory  Directory
	Provider   payment.Provider
	Publisher  events.Publisher
	Metrics    *core.Metrics
	Logger     *slog.Logger
	Currency   string
	SuccessURL string
	CancelURL  string
}

type Service struct {
	repo       Repository
	uow        UnitOfWork
	ledger     payment.Ledger
	catalog    Catalog
	directory  Directory
	provider   payment.Provider
	publisher  events.Publisher
	metrics    *core.Metrics
	logger     *slog.Logger
	currency   string
	successURL string
	cancelURL  string
	now        func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.Nop{}
	}
	if cfg.Provider == nil {
		cfg.Provider = payment.DisabledProvider{}
	}

	return &Service{
		repo:       cfg.Repo,
		uow:        cfg.UnitOfWork,
		ledger:     cfg.Ledger,
		catalog:    cfg.Catalog,
		directory:  cfg.Directory,
		provider:   cfg.Provider,
		publisher:  cfg.Publisher,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		currency:   cfg.Currency,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		now:        time.Now,
	}
}

// CreateInput carries a new booking. A nil Cost takes the catalog price.
type CreateInput struct {
	ServiceID string
	Date      time.Time
	Location  string
	Cost      *decimal.Decimal
}

func (s *Service) Create(
	ctx context.Context,
	requesterEmail string,
	in CreateInput,
) (*Booking, error) {
	item, err := s.catalog.Get(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	cost := item.Cost
	if in.Cost != nil {
		cost = *in.Cost
	}
	cost = cost.Round(2)
	if !cost.IsPositive() {
		return nil, fmt.Errorf("create booking: cost must be positive: %w", core.ErrInvalidInput)
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, fmt.Errorf("create booking: location is required: %w", core.ErrInvalidInput)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("create booking: date is required: %w", core.ErrInvalidInput)
	}

	b := &Booking{
		ID:             uuid.New().String(),
		RequesterEmail: requesterEmail,
		ServiceID:      item.ID,
		ServiceName:    item.Title,
		Cost:           cost,
		Date:           in.Date,
		Location:       location,
		Status:         StatusPending,
		PaymentStatus:  PaymentUnpaid,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking created",
		"booking_id", b.ID,
		"service_id", b.ServiceID,
		"requester", requesterEmail,
	)
	s.publish(ctx, events.BookingCreated, b, requesterEmail)

	return b, nil
}

func (s *Service) Get(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Admin && !b.IsRequester(actor.Email) && !b.IsAssignedTo(actor.Email) {
		return nil, fmt.Errorf("get booking: %w", core.ErrForbidden)
	}

	return b, nil
}

// ConfirmPayment marks a pending booking paid and appends its ledger row in
// one transaction. Either both writes land or neither does.
func (s *Service) ConfirmPayment(
	ctx context.Context,
	id, transactionRef string,
	actor Actor,
) (*Booking, error) {
	ctx, span := core.StartSpan(ctx, "booking.ConfirmPayment",
		attribute.String("booking.id", id))
	defer span.End()

	transactionRef = strings.TrimSpace(transactionRef)
	if transactionRef == "" {
		return nil, fmt.Errorf(
			"confirm payment: transaction reference is required: %w",
			core.ErrInvalidInput,
		)
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("confirm payment: %w", core.ErrNotFound)
	}

	var before, after *Booking
	err := s.uow.Do(ctx, func(repo Repository, ledger payment.Ledger) error {
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		before = b

		if b.IsPaid() {
			return fmt.Errorf(
				"confirm payment: booking already paid: %w",
				core.ErrPreconditionFailed,
			)
		}

		next, err := Next(b.Status, EventPay)
		if err != nil {
			return err
		}

		after, err = repo.Transition(ctx, id, b.Status, Change{
			To:             next,
			Stamp:          StampPaid,
			TransactionRef: transactionRef,
		})
		if err != nil {
			return err
		}

		err = ledger.Append(ctx, &payment.Payment{
			ID:             uuid.New().String(),
			BookingID:      after.ID,
			PayerEmail:     after.RequesterEmail,
			Amount:         after.Cost,
			Currency:       s.currency,
			TransactionRef: transactionRef,
			Status:         payment.StatusSucceeded,
		})
		if errors.Is(err, core.ErrDuplicateKey) {
			return fmt.Errorf(
				"confirm payment: payment already recorded: %w",
				core.ErrPreconditionFailed,
			)
		}
		return err
	})
	if err != nil {
		s.recordFailure(ctx, EventPay, err)
		return nil, err
	}

	s.committed(ctx, EventPay, before.Status, after, actor.Email)
	return after, nil
}

func (s *Service) AssignDecorator(
	ctx context.Context,
	id, decoratorEmail string,
	actor Actor,
) (*Booking, error) {
	ctx, span := core.StartSpan(ctx, "booking.AssignDecorator",
		attribute.String("booking.id", id))
	defer span.End()

	if !actor.Admin {
		return nil, fmt.Errorf("assign decorator: %w", core.ErrForbidden)
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := Next(b.Status, EventAssign)
	if err != nil {
		return nil, err
	}

	decorator, err := s.directory.GetByEmail(ctx, decoratorEmail)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("decorator")
		}
		return nil, err
	}
	if !decorator.IsDecorator() {
		return nil, core.NotFoundError("decorator")
	}
	if !decorator.IsApprovedDecorator() {
		return nil, core.PreconditionError("decorator is not approved")
	}

	after, err := s.repo.Transition(ctx, id, b.Status, Change{
		To:    next,
		Stamp: StampAssigned,
		Decorator: &Decorator{
			Email: decorator.Email,
			Name:  decorator.Name,
		},
	})
	if err != nil {
		s.recordFailure(ctx, EventAssign, err)
		return nil, err
	}

	s.committed(ctx, EventAssign, b.Status, after, actor.Email)
	return after, nil
}

// UpdateStatus is the assigned decorator reporting progress. Leaving the
// assigned state for cancelled releases the decorator.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id string,
	callerEmail string,
	to Status,
) (*Booking, error) {
	ctx, span := core.StartSpan(ctx, "booking.UpdateStatus",
		attribute.String("booking.id", id),
		attribute.String("booking.to", string(to)))
	defer span.End()

	if !to.Valid() {
		return nil, fmt.Errorf("update status: unknown status %q: %w", to, core.ErrInvalidInput)
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	event, err := EventFor(b.Status, to)
	if err != nil {
		return nil, err
	}

	if !b.IsAssignedTo(callerEmail) {
		return nil, fmt.Errorf("update status: not the assigned decorator: %w", core.ErrForbidden)
	}

	change := Change{To: to, Stamp: stampFor(to)}
	if to == StatusCancelled {
		change.ClearDecorator = true
	}

	after, err := s.repo.Transition(ctx, id, b.Status, change)
	if err != nil {
		s.recordFailure(ctx, event, err)
		return nil, err
	}

	s.committed(ctx, event, b.Status, after, callerEmail)
	return after, nil
}

// Cancel is the requester or an admin withdrawing a booking. Only unpaid
// bookings can be withdrawn this way.
func (s *Service) Cancel(ctx context.Context, id string, actor Actor) (*Booking, error) {
	ctx, span := core.StartSpan(ctx, "booking.Cancel",
		attribute.String("booking.id", id))
	defer span.End()

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Admin && !b.IsRequester(actor.Email) {
		return nil, fmt.Errorf("cancel booking: %w", core.ErrForbidden)
	}

	if b.Status != StatusPending {
		return nil, fmt.Errorf(
			"cancel booking in status %s: %w",
			b.Status,
			core.ErrInvalidTransition,
		)
	}

	next, err := Next(b.Status, EventCancel)
	if err != nil {
		return nil, err
	}

	after, err := s.repo.Transition(ctx, id, b.Status, Change{
		To:             next,
		Stamp:          StampCancelled,
		ClearDecorator: true,
	})
	if err != nil {
		s.recordFailure(ctx, EventCancel, err)
		return nil, err
	}

	s.committed(ctx, EventCancel, b.Status, after, actor.Email)
	return after, nil
}

// DetailsInput holds the scheduling fields a requester may change. Nil
// fields are left as they are.
type DetailsInput struct {
	Date     *time.Time
	Location *string
}

func (s *Service) UpdateDetails(
	ctx context.Context,
	id, callerEmail string,
	in DetailsInput,
) (*Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !b.IsRequester(callerEmail) {
		return nil, fmt.Errorf("update booking: %w", core.ErrForbidden)
	}

	if b.Status.IsTerminal() {
		return nil, core.PreconditionError(fmt.Sprintf("booking is %s", b.Status))
	}

	date := b.Date
	if in.Date != nil {
		date = *in.Date
	}

	location := b.Location
	if in.Location != nil {
		location = strings.TrimSpace(*in.Location)
		if location == "" {
			return nil, fmt.Errorf("update booking: location is empty: %w", core.ErrInvalidInput)
		}
	}

	after, err := s.repo.UpdateDetails(ctx, id, b.Status, date, location)
	if err != nil {
		if errors.Is(err, ErrConcurrentUpdate) && s.metrics != nil {
			s.metrics.BookingCASConflicts.WithLabelValues("details").Inc()
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "booking details updated", "booking_id", id)
	return after, nil
}

func (s *Service) ListMine(
	ctx context.Context,
	requesterEmail string,
	page core.PageParams,
) ([]Booking, int, error) {
	return s.repo.List(ctx, ListBookingsParams{
		PageParams:     page,
		RequesterEmail: requesterEmail,
	})
}

func (s *Service) ListAssigned(
	ctx context.Context,
	decoratorEmail string,
	status Status,
	page core.PageParams,
) ([]Booking, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, fmt.Errorf(
			"list assigned: unknown status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	return s.repo.List(ctx, ListBookingsParams{
		PageParams:     page,
		DecoratorEmail: decoratorEmail,
		Status:         status,
	})
}

func (s *Service) ListAll(
	ctx context.Context,
	params ListBookingsParams,
) ([]Booking, int, error) {
	if params.Status != "" && !params.Status.Valid() {
		return nil, 0, fmt.Errorf(
			"list bookings: unknown status %q: %w",
			params.Status,
			core.ErrInvalidInput,
		)
	}
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, 0, fmt.Errorf("list bookings: from is after to: %w", core.ErrInvalidInput)
	}

	return s.repo.List(ctx, params)
}

// CreateCheckout opens a provider checkout for the requester's own pending
// booking. Nothing is written; payment lands through ConfirmPayment.
func (s *Service) CreateCheckout(
	ctx context.Context,
	id, callerEmail string,
) (*payment.CheckoutSession, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !b.IsRequester(callerEmail) {
		return nil, fmt.Errorf("checkout: %w", core.ErrForbidden)
	}

	if !CanTransition(b.Status, EventPay) {
		return nil, fmt.Errorf("checkout booking in status %s: %w", b.Status, core.ErrInvalidTransition)
	}

	if _, err := payment.MinorUnits(b.Cost); err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		BookingID:   b.ID,
		Amount:      b.Cost,
		Currency:    s.currency,
		Description: b.ServiceName,
		PayerEmail:  b.RequesterEmail,
		SuccessURL:  s.successURL,
		CancelURL:   s.cancelURL,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "checkout session failed",
			"booking_id", b.ID,
			"error", err,
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "checkout session created",
		"booking_id", b.ID,
		"session_id", session.SessionID,
	)
	return session, nil
}

func (s *Service) Receipt(
	ctx context.Context,
	id string,
	actor Actor,
) (*receipt.Document, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Admin && !b.IsRequester(actor.Email) {
		return nil, fmt.Errorf("receipt: %w", core.ErrForbidden)
	}

	if !b.IsPaid() || b.Status == StatusCancelled {
		return nil, core.PreconditionError("booking has not been paid")
	}

	p, err := s.ledger.GetByBooking(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	doc := &receipt.Document{
		BookingID:      b.ID,
		ServiceName:    b.ServiceName,
		RequesterEmail: b.RequesterEmail,
		Location:       b.Location,
		Date:           b.Date,
		Status:         string(b.Status),
		Amount:         p.Amount,
		Currency:       p.Currency,
		TransactionRef: p.TransactionRef,
		PaidAt:         p.CreatedAt,
		IssuedAt:       s.now(),
	}
	if b.DecoratorName != nil {
		doc.DecoratorName = *b.DecoratorName
	}

	return doc, nil
}

func (s *Service) load(ctx context.Context, id string) (*Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) committed(
	ctx context.Context,
	event string,
	from Status,
	b *Booking,
	actor string,
) {
	if s.metrics != nil {
		s.metrics.BookingTransitions.WithLabelValues(event).Inc()
	}

	core.AddSpanEvent(ctx, "booking."+event,
		attribute.String("booking.id", b.ID),
		attribute.String("booking.from", string(from)),
		attribute.String("booking.to", string(b.Status)),
	)

	s.logger.InfoContext(ctx, "booking transitioned",
		"booking_id", b.ID,
		"event", event,
		"from", from,
		"to", b.Status,
		"actor", actor,
	)

	s.publish(ctx, eventRoutingKeys[event], b, actor)
}

func (s *Service) recordFailure(ctx context.Context, event string, err error) {
	core.SetSpanError(ctx, err)
	if errors.Is(err, ErrConcurrentUpdate) && s.metrics != nil {
		s.metrics.BookingCASConflicts.WithLabelValues(event).Inc()
	}
}

// publish runs after commit. A broker failure never fails the request.
func (s *Service) publish(ctx context.Context, routingKey string, b *Booking, actor string) {
	err := s.publisher.Publish(ctx, events.BookingEvent{
		Type:      routingKey,
		BookingID: b.ID,
		Status:    string(b.Status),
		Actor:     actor,
		At:        s.now().UTC(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "publish booking event failed",
			"booking_id", b.ID,
			"routing_key", routingKey,
			"error", err,
		)
	}
}

func stampFor(to Status) Stamp {
	switch to {
	case StatusPaid:
		return StampPaid
	case StatusAssigned:
		return StampAssigned
	case StatusCompleted:
		return StampCompleted
	case StatusCancelled:
		return StampCancelled
	}
	return StampNone
}
