package model

import "time"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusAccepted  Status = "Accepted"
	StatusPaid      Status = "Paid"
	StatusCompleted Status = "Completed"
	StatusRefunded  Status = "Refunded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPaid, StatusCompleted, StatusRefunded:
		return true
	}
	return false
}

// Trigger identifies which mutator is moving an order along an edge.
type Trigger int

const (
	TriggerStatusUpdate Trigger = iota
	TriggerPayment
	TriggerRefund
)

func (t Trigger) String() string {
	switch t {
	case TriggerPayment:
		return "payment"
	case TriggerRefund:
		return "refund"
	default:
		return "status_update"
	}
}

type edge struct {
	to  Status
	via Trigger
}

var transitions = map[Status][]edge{
	StatusPending: {
		{to: StatusAccepted, via: TriggerStatusUpdate},
		{to: StatusRefunded, via: TriggerStatusUpdate},
		{to: StatusPaid, via: TriggerPayment},
	},
	StatusAccepted: {
		{to: StatusCompleted, via: TriggerStatusUpdate},
	},
	StatusPaid: {
		{to: StatusRefunded, via: TriggerRefund},
	},
	StatusCompleted: nil,
	StatusRefunded:  nil,
}

// CanTransition is the only authority on order status edges.
func CanTransition(from, to Status, via Trigger) bool {
	for _, e := range transitions[from] {
		if e.to == to && e.via == via {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Operation returns the capability an actor needs to request a status update to s.
func (s Status) Operation() Operation {
	switch s {
	case StatusAccepted:
		return OpAcceptOrder
	case StatusCompleted:
		return OpCompleteOrder
	case StatusRefunded:
		return OpCancelOrder
	default:
		return OpUpdateStatus
	}
}

func (o *Order) CanTransitionTo(to Status) bool {
	return CanTransition(o.Status, to, TriggerStatusUpdate)
}

// Transition moves the order to `to` when the edge exists for the trigger.
func (o *Order) Transition(to Status, via Trigger, at time.Time) bool {
	if !CanTransition(o.Status, to, via) {
		return false
	}
	o.Status = to
	o.UpdatedAt = at
	return true
}
