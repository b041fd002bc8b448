package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const CategoryService = "service"

type MenuEntry struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Slug        string          `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"size:20;not null" json:"category"`
	Description string          `gorm:"size:200" json:"description"`
	Stock       *int            `json:"stock"`
	TrackStock  bool            `gorm:"not null;default:false" json:"track_stock"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// Tracked reports whether the entry takes part in stock reservation.
func (m MenuEntry) Tracked() bool {
	return m.TrackStock && m.Stock != nil
}

func (m MenuEntry) IsService() bool {
	return m.Category == CategoryService
}

// MarshalJSON hides the stock figure of untracked entries.
func (m MenuEntry) MarshalJSON() ([]byte, error) {
	type entry MenuEntry
	out := entry(m)
	if !m.TrackStock {
		out.Stock = nil
	}
	return json.Marshal(out)
}

type CreateMenuEntryInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required,max=20"`
	Description string          `json:"description" validate:"max=200"`
	Stock       *int            `json:"stock" validate:"omitempty,gte=0"`
	TrackStock  bool            `json:"track_stock"`
}

type UpdateMenuEntryInput struct {
	Name        string           `json:"name" validate:"max=100"`
	Category    string           `json:"category" validate:"max=20"`
	Description string           `json:"description" validate:"max=200"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	TrackStock  *bool            `json:"track_stock"`
}
