package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"venue_pos/model"
)

func (s *Service) CreateMenuEntry(ctx context.Context, actor model.Actor, input model.CreateMenuEntryInput) (*model.MenuEntry, error) {
	if !actor.Can(model.OpManageMenu) {
		return nil, unauthorized("role %s may not manage the menu", actor.Role)
	}
	if input.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}
	if input.TrackStock && input.Stock == nil {
		return nil, invalid("stock is required for tracked entries")
	}

	entry := &model.MenuEntry{}
	text := menuText{Name: input.Name, Category: input.Category, Description: input.Description}
	if err := copier.Copy(entry, &text); err != nil {
		return nil, fmt.Errorf("copy menu input: %w", err)
	}
	entry.Price = input.Price
	entry.Stock = input.Stock
	entry.TrackStock = input.TrackStock
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		unique, err := uniqueSlug(tx, entry.Name, 0)
		if err != nil {
			return err
		}
		entry.Slug = unique
		if err := tx.CreateMenuEntry(entry); err != nil {
			return internal("create menu entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("menu entry created", zap.Uint("item_id", entry.ID), zap.String("slug", entry.Slug))
	return entry, nil
}

// UpdateMenuEntry edits catalog data. Orders keep the prices they were placed with.
func (s *Service) UpdateMenuEntry(ctx context.Context, actor model.Actor, id uint, input model.UpdateMenuEntryInput) (*model.MenuEntry, error) {
	if !actor.Can(model.OpManageMenu) {
		return nil, unauthorized("role %s may not manage the menu", actor.Role)
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}

	var entry *model.MenuEntry
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		locked, err := tx.LockMenuEntries([]uint{id})
		if err != nil {
			return internal("lock menu entry", err)
		}
		entry = locked[id]
		if entry == nil {
			return newError(KindNotFound, map[string]any{"item_id": id}, "Item not found: %d", id)
		}

		renamed := input.Name != "" && input.Name != entry.Name
		text := menuText{Name: input.Name, Category: input.Category, Description: input.Description}
		if err := copier.CopyWithOption(entry, &text, copier.Option{IgnoreEmpty: true}); err != nil {
			return fmt.Errorf("copy menu input: %w", err)
		}
		if input.Price != nil {
			entry.Price = *input.Price
		}
		if input.Stock != nil {
			stock := *input.Stock
			entry.Stock = &stock
		}
		if input.TrackStock != nil {
			entry.TrackStock = *input.TrackStock
		}
		if entry.TrackStock && entry.Stock == nil {
			return invalid("stock is required for tracked entries")
		}
		if renamed {
			if entry.Slug, err = uniqueSlug(tx, entry.Name, entry.ID); err != nil {
				return err
			}
		}
		entry.UpdatedAt = s.now()
		if err := tx.SaveMenuEntry(entry); err != nil {
			return internal("save menu entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("menu entry updated", zap.Uint("item_id", entry.ID))
	return entry, nil
}

// SetMenuImage stores an already uploaded image url on the entry.
func (s *Service) SetMenuImage(ctx context.Context, actor model.Actor, id uint, url string) (*model.MenuEntry, error) {
	if !actor.Can(model.OpManageMenu) {
		return nil, unauthorized("role %s may not manage the menu", actor.Role)
	}
	var entry *model.MenuEntry
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		locked, err := tx.LockMenuEntries([]uint{id})
		if err != nil {
			return internal("lock menu entry", err)
		}
		if entry = locked[id]; entry == nil {
			return newError(KindNotFound, map[string]any{"item_id": id}, "Item not found: %d", id)
		}
		entry.ImageURL = url
		entry.UpdatedAt = s.now()
		if err := tx.SaveMenuEntry(entry); err != nil {
			return internal("save menu entry", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// menuText holds the free-text fields an update may overwrite; empty means keep.
type menuText struct {
	Name        string
	Category    string
	Description string
}

func uniqueSlug(tx Tx, name string, exceptID uint) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", invalid("name %q has no usable characters", name)
	}
	candidate := base
	for i := 2; ; i++ {
		taken, err := tx.SlugTaken(candidate, exceptID)
		if err != nil {
			return "", internal("check slug", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
