package service

import (
	"context"

	"go.uber.org/zap"

	"venue_pos/model"
)

// PlaceOrder builds an order for the table the actor is signed in as.
func (s *Service) PlaceOrder(ctx context.Context, actor model.Actor, items []ItemRequest) (*model.Order, error) {
	if !actor.Can(model.OpPlaceOrder) {
		return nil, unauthorized("role %s may not place orders", actor.Role)
	}
	if actor.TableNumber == nil {
		return nil, invalid("account %d is not bound to a table", actor.AccountID)
	}
	return s.BuildOrder(ctx, actor.AccountID, *actor.TableNumber, items)
}

// BuildOrder reserves stock, snapshots prices into line items and persists the
// order, all in one transaction.
func (s *Service) BuildOrder(ctx context.Context, accountID uint, tableNumber int, items []ItemRequest) (*model.Order, error) {
	if len(items) == 0 {
		return nil, invalid("order must contain at least one item")
	}
	if tableNumber <= 0 {
		return nil, invalid("table number must be positive")
	}

	var placed *model.Order
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		entries, err := reserve(tx, items)
		if err != nil {
			return err
		}

		now := s.now()
		order := &model.Order{
			AccountID:   accountID,
			TableNumber: tableNumber,
			Items:       make(model.LineItems, 0, len(items)),
			Status:      EntryStatus,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, it := range items {
			entry := entries[it.ItemID]
			order.Items = append(order.Items, model.LineItem{
				ID:       entry.ID,
				Name:     entry.Name,
				Price:    entry.Price,
				Quantity: it.Quantity,
			})
			if entry.IsService() {
				order.IsService = true
			}
		}
		order.TotalPrice = order.Items.Total()

		if err := tx.CreateOrder(order); err != nil {
			return internal("create order", err)
		}
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.Uint("order_id", placed.ID),
		zap.Int("table_number", placed.TableNumber),
		zap.String("total_price", placed.TotalPrice.StringFixed(2)),
		zap.Bool("is_service", placed.IsService))
	return placed, nil
}
