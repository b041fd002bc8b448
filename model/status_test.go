package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	statuses := []Status{StatusPending, StatusAccepted, StatusPaid, StatusCompleted, StatusRefunded}
	allowed := map[[2]Status]Trigger{
		{StatusPending, StatusAccepted}:   TriggerStatusUpdate,
		{StatusPending, StatusRefunded}:   TriggerStatusUpdate,
		{StatusPending, StatusPaid}:       TriggerPayment,
		{StatusAccepted, StatusCompleted}: TriggerStatusUpdate,
		{StatusPaid, StatusRefunded}:      TriggerRefund,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			for _, via := range []Trigger{TriggerStatusUpdate, TriggerPayment, TriggerRefund} {
				want, ok := allowed[[2]Status{from, to}]
				expected := ok && want == via
				assert.Equal(t, expected, CanTransition(from, to, via), "%s -> %s via %s", from, to, via)
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusRefunded.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPaid.Terminal())
}

func TestOrderTransition(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	o := &Order{Status: StatusPending}

	assert.False(t, o.Transition(StatusPaid, TriggerStatusUpdate, at))
	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.UpdatedAt.IsZero())

	assert.True(t, o.Transition(StatusPaid, TriggerPayment, at))
	assert.Equal(t, StatusPaid, o.Status)
	assert.Equal(t, at, o.UpdatedAt)
	assert.False(t, o.CanTransitionTo(StatusRefunded))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusAccepted.Valid())
	assert.False(t, Status("pending").Valid())
	assert.False(t, Status("").Valid())
}
