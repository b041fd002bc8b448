package service

import (
	"context"
	"math"
	"slices"

	"venue_pos/model"
)

type ItemRequest struct {
	ItemID   uint
	Quantity int
}

// Reserve checks and decrements stock for a single menu entry.
func (s *Service) Reserve(ctx context.Context, itemID uint, quantity int) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		_, err := reserve(tx, []ItemRequest{{ItemID: itemID, Quantity: quantity}})
		return err
	})
}

// reserve is all-or-nothing: every requested entry is resolved and checked
// before any stock is decremented. Quantities of repeated ids are summed.
func reserve(tx Tx, requests []ItemRequest) (map[uint]*model.MenuEntry, error) {
	wanted := make(map[uint]int, len(requests))
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		if r.Quantity <= 0 {
			return nil, invalid("quantity for item %d must be positive", r.ItemID)
		}
		if r.Quantity > math.MaxInt-wanted[r.ItemID] {
			return nil, invalid("quantity for item %d is too large", r.ItemID)
		}
		if _, seen := wanted[r.ItemID]; !seen {
			ids = append(ids, r.ItemID)
		}
		wanted[r.ItemID] += r.Quantity
	}
	slices.Sort(ids)

	entries, err := tx.LockMenuEntries(ids)
	if err != nil {
		return nil, internal("lock menu entries", err)
	}

	for _, r := range requests {
		if entries[r.ItemID] == nil {
			return nil, newError(KindNotFound, map[string]any{"item_id": r.ItemID},
				"Item not found: %d", r.ItemID)
		}
	}

	for _, id := range ids {
		entry := entries[id]
		if entry.Tracked() && *entry.Stock < wanted[id] {
			return nil, newError(KindInsufficientStock,
				map[string]any{"item_id": id, "available": *entry.Stock, "requested": wanted[id]},
				"Not enough stock for %s. Available: %d", entry.Name, *entry.Stock)
		}
	}

	for _, id := range ids {
		entry := entries[id]
		if !entry.Tracked() {
			continue
		}
		if err := tx.DecrementStock(id, wanted[id]); err != nil {
			return nil, internal("decrement stock", err)
		}
		left := *entry.Stock - wanted[id]
		entry.Stock = &left
	}
	return entries, nil
}
