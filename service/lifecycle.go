package service

import (
	"context"

	"go.uber.org/zap"

	"venue_pos/model"
)

// EntryStatus is the status every new order starts in.
const EntryStatus = model.StatusPending

// UpdateStatus applies a status update request. The role check runs before the
// transition check; staff are bound only when a staff actor accepts an order.
func (s *Service) UpdateStatus(ctx context.Context, actor model.Actor, orderID uint, target model.Status) (*model.Order, error) {
	if !target.Valid() {
		return nil, invalid("unknown status %q", target)
	}
	if !actor.Can(target.Operation()) {
		return nil, unauthorized("role %s may not set status %s", actor.Role, target)
	}

	var updated *model.Order
	var from model.Status
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		order, err := tx.LockOrder(orderID)
		if err != nil {
			return internal("lock order", err)
		}
		if actor.Role == model.RoleTable && !actor.Owns(order) {
			return unauthorized("order %d belongs to another table", orderID)
		}
		if !order.CanTransitionTo(target) {
			return newError(KindInvalidTransition,
				map[string]any{"from": order.Status, "to": target},
				"Cannot change order status from %s to %s", order.Status, target)
		}

		from = order.Status
		order.Transition(target, model.TriggerStatusUpdate, s.now())
		if target == model.StatusAccepted && actor.Role == model.RoleStaff {
			staffID := actor.AccountID
			order.StaffID = &staffID
		}
		if err := tx.UpdateOrder(order); err != nil {
			return internal("update order", err)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if fresh, err := s.store.OrderByID(ctx, orderID); err == nil {
		updated = fresh
	}

	s.log.Info("order status changed",
		zap.Uint("order_id", orderID),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.Uint("actor_id", actor.AccountID))
	return updated, nil
}
