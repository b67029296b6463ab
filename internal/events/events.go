// AngelaMos | 2026
// events.go

package events

import (
	"context"
	"sync"
	"time"
)

const (
	BookingCreated   = "booking.created"
	BookingPaid      = "booking.paid"
	BookingAssigned  = "booking.assigned"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a lifecycle change commits.
type BookingEvent struct {
	Type      string    `json:"type"`
	BookingID string    `json:"booking_id"`
	Status    string    `json:"status"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev BookingEvent) error
	Close() error
}

// Nop drops every event. It stands in when the broker is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, BookingEvent) error { return nil }

func (Nop) Close() error { return nil }

// Recorder keeps published events in memory for inspection.
type Recorder struct {
	mu     sync.Mutex
	events []BookingEvent
	Err    error
}

func (r *Recorder) Publish(_ context.Context, ev BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []BookingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BookingEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	evs := r.Events()
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}
