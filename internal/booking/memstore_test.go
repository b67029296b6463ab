// AngelaMos | 2026
// memstore_test.go

package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/payment"
)

// memStore keeps bookings and ledger rows in maps with the same
// conditional-write semantics as the SQL repository.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	bookings map[string]Booking
	payments map[string]payment.Payment
	// beforeTransition runs after a CAS read and before the write; tests use
	// it to force interleavings.
	beforeTransition func()
}

func newMemStore() *memStore {
	return &memStore{
		bookings: map[string]Booking{},
		payments: map[string]payment.Payment{},
	}
}

func (m *memStore) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	m.bookings[b.ID] = *b
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	return &b, nil
}

func (m *memStore) Transition(
	_ context.Context,
	id string,
	from Status,
	change Change,
) (*Booking, error) {
	if m.beforeTransition != nil {
		m.beforeTransition()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("transition booking: %w", core.ErrNotFound)
	}
	if b.Status != from {
		return nil, fmt.Errorf("transition booking: %w", ErrConcurrentUpdate)
	}

	now := time.Now()
	b.Status = change.To
	b.UpdatedAt = now
	switch change.Stamp {
	case StampPaid:
		b.PaidAt = &now
	case StampAssigned:
		b.AssignedAt = &now
	case StampCompleted:
		b.CompletedAt = &now
	case StampCancelled:
		b.CancelledAt = &now
	}
	switch {
	case change.Decorator != nil:
		email, name := change.Decorator.Email, change.Decorator.Name
		b.DecoratorEmail, b.DecoratorName = &email, &name
	case change.ClearDecorator:
		b.DecoratorEmail, b.DecoratorName = nil, nil
	}
	if change.TransactionRef != "" {
		ref := change.TransactionRef
		b.PaymentStatus = PaymentPaid
		b.TransactionRef = &ref
	}

	m.bookings[id] = b
	return &b, nil
}

func (m *memStore) UpdateDetails(
	_ context.Context,
	id string,
	from Status,
	date time.Time,
	location string,
) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("update booking details: %w", core.ErrNotFound)
	}
	if b.Status != from {
		return nil, fmt.Errorf("update booking details: %w", ErrConcurrentUpdate)
	}

	b.Date, b.Location, b.UpdatedAt = date, location, time.Now()
	m.bookings[id] = b
	return &b, nil
}

func (m *memStore) List(
	_ context.Context,
	params ListBookingsParams,
) ([]Booking, int, error) {
	params.Normalize()
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []Booking{}
	for _, b := range m.bookings {
		if params.Status != "" && b.Status != params.Status {
			continue
		}
		if params.RequesterEmail != "" && b.RequesterEmail != params.RequesterEmail {
			continue
		}
		if params.DecoratorEmail != "" && !b.IsAssignedTo(params.DecoratorEmail) {
			continue
		}
		matched = append(matched, b)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.PageSize, total)
	return matched[start:end], total, nil
}

func (m *memStore) Append(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.payments {
		if existing.BookingID == p.BookingID || existing.TransactionRef == p.TransactionRef {
			return fmt.Errorf("append payment: %w", core.ErrDuplicateKey)
		}
	}
	p.CreatedAt = time.Now()
	m.payments[p.ID] = *p
	return nil
}

func (m *memStore) ListByPayer(
	_ context.Context,
	email string,
	_ core.PageParams,
) ([]payment.Payment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []payment.Payment{}
	for _, p := range m.payments {
		if p.PayerEmail == email {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (m *memStore) GetByBooking(_ context.Context, bookingID string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("get payment: %w", core.ErrNotFound)
}

func (m *memStore) paymentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

// Do serializes units of work and restores both maps when fn fails.
func (m *memStore) Do(
	_ context.Context,
	fn func(repo Repository, ledger payment.Ledger) error,
) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	bookings := make(map[string]Booking, len(m.bookings))
	for k, v := range m.bookings {
		bookings[k] = v
	}
	payments := make(map[string]payment.Payment, len(m.payments))
	for k, v := range m.payments {
		payments[k] = v
	}
	m.mu.Unlock()

	if err := fn(m, m); err != nil {
		m.mu.Lock()
		m.bookings, m.payments = bookings, payments
		m.mu.Unlock()
		return err
	}
	return nil
}

var (
	_ Repository     = (*memStore)(nil)
	_ payment.Ledger = (*memStore)(nil)
	_ UnitOfWork     = (*memStore)(nil)
)
