// AngelaMos | 2026
// lifecycle_test.go

package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/decorbook/internal/core"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		from  Status
		event string
		want  Status
		ok    bool
	}{
		{"Should pay a pending booking", StatusPending, EventPay, StatusPaid, true},
		{"Should assign a paid booking", StatusPaid, EventAssign, StatusAssigned, true},
		{"Should complete an assigned booking", StatusAssigned, EventComplete, StatusCompleted, true},
		{"Should cancel a pending booking", StatusPending, EventCancel, StatusCancelled, true},
		{"Should cancel an assigned booking", StatusAssigned, EventCancel, StatusCancelled, true},
		{"Should not cancel a paid booking", StatusPaid, EventCancel, "", false},
		{"Should not pay twice", StatusPaid, EventPay, "", false},
		{"Should not complete a pending booking", StatusPending, EventComplete, "", false},
		{"Should not leave completed", StatusCompleted, EventCancel, "", false},
		{"Should not leave cancelled", StatusCancelled, EventPay, "", false},
		{"Should reject unknown events", StatusPending, "refund", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.event)
			if !tt.ok {
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrInvalidTransition)
				assert.ErrorIs(t, err, core.ErrPreconditionFailed)
				assert.False(t, CanTransition(tt.from, tt.event))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, CanTransition(tt.from, tt.event))
		})
	}
}

func TestEventFor(t *testing.T) {
	t.Run("Should find the event linking two statuses", func(t *testing.T) {
		event, err := EventFor(StatusAssigned, StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, EventComplete, event)

		event, err = EventFor(StatusAssigned, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, EventCancel, event)
	})

	t.Run("Should reject statuses that are not successors", func(t *testing.T) {
		_, err := EventFor(StatusPending, StatusCompleted)
		assert.ErrorIs(t, err, core.ErrInvalidTransition)

		_, err = EventFor(StatusAssigned, StatusAssigned)
		assert.ErrorIs(t, err, core.ErrInvalidTransition)
	})

	t.Run("Should publish every event under a routing key", func(t *testing.T) {
		for _, event := range []string{EventPay, EventAssign, EventComplete, EventCancel} {
			assert.NotEmpty(t, eventRoutingKeys[event], event)
		}
	})
}

func TestStatus(t *testing.T) {
	t.Run("Should mark only completed and cancelled as terminal", func(t *testing.T) {
		assert.True(t, StatusCompleted.IsTerminal())
		assert.True(t, StatusCancelled.IsTerminal())
		assert.False(t, StatusPending.IsTerminal())
		assert.False(t, StatusPaid.IsTerminal())
		assert.False(t, StatusAssigned.IsTerminal())
	})
}
