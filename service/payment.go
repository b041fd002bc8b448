package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"venue_pos/model"
)

// Pay records a successful payment and moves the order to Paid. It is the only
// writer of the Paid status. A nil actor is an anonymous payer; a table actor
// may only pay its own orders.
func (s *Service) Pay(ctx context.Context, actor *model.Actor, orderID uint, amount decimal.Decimal) (*model.PaymentRecord, error) {
	if actor != nil && !actor.Can(model.OpPay) {
		return nil, unauthorized("role %s may not take payments", actor.Role)
	}
	if !amount.IsPositive() {
		return nil, invalid("amount must be positive")
	}

	var record *model.PaymentRecord
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		order, err := tx.LockOrder(orderID)
		if err != nil {
			return internal("lock order", err)
		}
		if actor != nil && actor.Role == model.RoleTable && !actor.Owns(order) {
			return unauthorized("order %d belongs to another table", orderID)
		}

		prior, err := tx.SuccessfulPayment(orderID)
		if err != nil {
			return internal("find payment", err)
		}
		if order.Status != model.StatusPending && !(order.Status == model.StatusPaid && prior != nil) {
			return newError(KindNotPending, map[string]any{"status": order.Status},
				"Order is %s. Only pending orders can be paid.", order.Status)
		}
		if prior != nil {
			return newError(KindAlreadyPaid,
				map[string]any{"payment_id": prior.ID, "paid_at": prior.CreatedAt.Format(time.RFC3339)},
				"Order has already been paid")
		}
		if amount.LessThan(order.TotalPrice) {
			return newError(KindInsufficientAmount,
				map[string]any{"total_price": order.TotalPrice, "amount": amount},
				"Insufficient payment")
		}

		now := s.now()
		if !order.Transition(model.StatusPaid, model.TriggerPayment, now) {
			return newError(KindInvalidTransition, map[string]any{"from": order.Status, "to": model.StatusPaid},
				"Cannot change order status from %s to %s", order.Status, model.StatusPaid)
		}
		payment := &model.Payment{
			OrderID:   orderID,
			Amount:    amount,
			Status:    model.PaymentSuccess,
			Reference: s.ref(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.CreatePayment(payment); err != nil {
			return internal("create payment", err)
		}
		if err := tx.UpdateOrder(order); err != nil {
			return internal("update order", err)
		}

		record = &model.PaymentRecord{
			PaymentID:   payment.ID,
			OrderID:     orderID,
			Amount:      payment.Amount,
			Status:      payment.Status,
			Reference:   payment.Reference,
			OrderStatus: order.Status,
			TableNumber: order.TableNumber,
			CreatedAt:   payment.CreatedAt,
			UpdatedAt:   payment.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.Uint("order_id", orderID),
		zap.Uint("payment_id", record.PaymentID),
		zap.String("amount", record.Amount.StringFixed(2)))
	return record, nil
}

// Refund reverses the order's successful payment in full with a new negated
// ledger row and moves the order to Refunded. Stock is not restored.
func (s *Service) Refund(ctx context.Context, actor model.Actor, orderID uint) (*model.RefundRecord, error) {
	if !actor.Can(model.OpRefund) {
		return nil, unauthorized("role %s may not refund", actor.Role)
	}

	var record *model.RefundRecord
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		order, err := tx.LockOrder(orderID)
		if err != nil {
			return internal("lock order", err)
		}
		if order.Status != model.StatusPaid {
			return newError(KindNotRefundable, map[string]any{"status": order.Status},
				"Order is not in a refundable state")
		}
		original, err := tx.SuccessfulPayment(orderID)
		if err != nil {
			return internal("find payment", err)
		}
		if original == nil {
			return newError(KindNoPayment, nil, "No successful payment found for this order")
		}

		now := s.now()
		if !order.Transition(model.StatusRefunded, model.TriggerRefund, now) {
			return newError(KindInvalidTransition, map[string]any{"from": order.Status, "to": model.StatusRefunded},
				"Cannot change order status from %s to %s", order.Status, model.StatusRefunded)
		}
		refund := &model.Payment{
			OrderID:   orderID,
			Amount:    original.Amount.Neg(),
			Status:    model.PaymentRefunded,
			Reference: s.ref(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.CreatePayment(refund); err != nil {
			return internal("create refund", err)
		}
		if err := tx.UpdateOrder(order); err != nil {
			return internal("update order", err)
		}

		record = &model.RefundRecord{
			PaymentID:    refund.ID,
			OrderID:      orderID,
			RefundAmount: original.Amount,
			Status:       refund.Status,
			Reference:    refund.Reference,
			TableNumber:  order.TableNumber,
			CreatedAt:    refund.CreatedAt,
			UpdatedAt:    refund.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment refunded",
		zap.Uint("order_id", orderID),
		zap.Uint("refund_id", record.PaymentID),
		zap.String("amount", record.RefundAmount.StringFixed(2)),
		zap.Uint("actor_id", actor.AccountID))
	return record, nil
}
