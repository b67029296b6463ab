// AngelaMos | 2026
// lifecycle.go

package booking

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/carterperez-dev/decorbook/internal/core"
	"github.com/carterperez-dev/decorbook/internal/events"
)

const (
	EventPay      = "pay"
	EventAssign   = "assign"
	EventComplete = "complete"
	EventCancel   = "cancel"
)

// lifecycleEvents is the only place booking transitions are defined.
func lifecycleEvents() fsm.Events {
	return fsm.Events{
		{
			Name: EventPay,
			Src:  []string{string(StatusPending)},
			Dst:  string(StatusPaid),
		},
		{
			Name: EventAssign,
			Src:  []string{string(StatusPaid)},
			Dst:  string(StatusAssigned),
		},
		{
			Name: EventComplete,
			Src:  []string{string(StatusAssigned)},
			Dst:  string(StatusCompleted),
		},
		{
			Name: EventCancel,
			Src:  []string{string(StatusPending), string(StatusAssigned)},
			Dst:  string(StatusCancelled),
		},
	}
}

func machineAt(from Status) *fsm.FSM {
	return fsm.NewFSM(string(from), lifecycleEvents(), fsm.Callbacks{})
}

// Next applies event to from and returns the resulting status.
func Next(from Status, event string) (Status, error) {
	m := machineAt(from)
	if err := m.Event(context.Background(), event); err != nil {
		return "", fmt.Errorf(
			"%s booking in status %s: %w",
			event,
			from,
			core.ErrInvalidTransition,
		)
	}
	return Status(m.Current()), nil
}

func CanTransition(from Status, event string) bool {
	return machineAt(from).Can(event)
}

// EventFor finds the event that moves a booking from one status to another.
func EventFor(from, to Status) (string, error) {
	for _, event := range machineAt(from).AvailableTransitions() {
		next, err := Next(from, event)
		if err == nil && next == to {
			return event, nil
		}
	}
	return "", fmt.Errorf(
		"booking cannot move from %s to %s: %w",
		from,
		to,
		core.ErrInvalidTransition,
	)
}

var eventRoutingKeys = map[string]string{
	EventPay:      events.BookingPaid,
	EventAssign:   events.BookingAssigned,
	EventComplete: events.BookingCompleted,
	EventCancel:   events.BookingCancelled,
}
