package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"venue_pos/model"
)

const DateLayout = "2006-01-02"

// DailySummary totals the orders and ledger rows created on day (UTC).
func (s *Store) DailySummary(ctx context.Context, day time.Time) (*model.DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	db := s.db.WithContext(ctx)

	summary := &model.DailySummary{
		Date:          start.Format(DateLayout),
		PaymentsTotal: decimal.Zero,
		RefundsTotal:  decimal.Zero,
	}
	if err := db.Model(&model.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&summary.OrdersPlaced).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	var payments []model.Payment
	if err := db.Where("created_at >= ? AND created_at < ?", start, end).
		Order("id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	for _, p := range payments {
		switch p.Status {
		case model.PaymentSuccess:
			summary.PaymentsCount++
			summary.PaymentsTotal = summary.PaymentsTotal.Add(p.Amount)
		case model.PaymentRefunded:
			summary.RefundsCount++
			summary.RefundsTotal = summary.RefundsTotal.Add(p.Amount)
		}
	}
	return summary, nil
}

// LowStock lists tracked entries at or below threshold, lowest first.
func (s *Store) LowStock(ctx context.Context, threshold int) ([]model.LowStockItem, error) {
	var items []model.LowStockItem
	err := s.db.WithContext(ctx).Model(&model.MenuEntry{}).
		Select("id", "name", "stock").
		Where("track_stock = ? AND stock IS NOT NULL AND stock <= ?", true, threshold).
		Order("stock, id").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return items, nil
}
