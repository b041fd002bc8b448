package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	AccountID   uint            `gorm:"not null;index" json:"user_id"`
	TableNumber int             `gorm:"not null;index" json:"table_number"`
	Items       LineItems       `json:"items"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Status      Status          `gorm:"size:20;not null;index" json:"status"`
	IsService   bool            `gorm:"not null;default:false" json:"is_service"`
	StaffID     *uint           `json:"staff_id"`
	Staff       *Account        `gorm:"foreignKey:StaffID" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (o Order) StaffName() *string {
	if o.Staff == nil {
		return nil
	}
	name := o.Staff.Username
	return &name
}

func (o Order) MarshalJSON() ([]byte, error) {
	type order Order
	items := o.Items
	if items == nil {
		items = LineItems{}
	}
	return json.Marshal(struct {
		order
		Items     LineItems `json:"items"`
		StaffName *string   `json:"staff_name"`
	}{order: order(o), Items: items, StaffName: o.StaffName()})
}

// LineItem is the price snapshot of one menu entry taken when the order was placed.
type LineItem struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type LineItems []LineItem

func (items LineItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}

func (items LineItems) Value() (driver.Value, error) {
	if items == nil {
		items = LineItems{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (items *LineItems) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*items = LineItems{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("line items: unsupported column type %T", src)
	}
	if len(raw) == 0 {
		*items = LineItems{}
		return nil
	}
	var out LineItems
	if err := json.Unmarshal(raw, &out); err != nil {
		return errors.Join(errors.New("line items: malformed column"), err)
	}
	*items = out
	return nil
}

func (LineItems) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

type OrderItemInput struct {
	ID       uint `json:"id" validate:"required,gt=0"`
	Quantity int  `json:"quantity" validate:"required,gt=0,lte=1000"`
}

type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateStatusInput struct {
	Status Status `json:"status" validate:"required"`
}

// OrderFilter narrows order listings; nil TableNumber means every table.
type OrderFilter struct {
	TableNumber *int
}
