package model

import "github.com/shopspring/decimal"

// DailySummary is the sales activity of one calendar day (UTC).
type DailySummary struct {
	Date          string          `json:"date"`
	OrdersPlaced  int64           `json:"orders_placed"`
	PaymentsCount int             `json:"payments_count"`
	PaymentsTotal decimal.Decimal `json:"payments_total"`
	RefundsCount  int             `json:"refunds_count"`
	RefundsTotal  decimal.Decimal `json:"refunds_total"`
}

// Net is what the day took after refunds; refund rows are already negative.
func (d DailySummary) Net() decimal.Decimal {
	return d.PaymentsTotal.Add(d.RefundsTotal)
}

type LowStockItem struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}
