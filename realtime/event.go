package realtime

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"venue_pos/model"
)

const (
	EventOrderPlaced   = "order.placed"
	EventStatusChanged = "order.status_changed"
	EventPaid          = "payment.recorded"
	EventRefunded      = "payment.refunded"
	EventLowStock      = "stock.low"
)

// Event is one message of the live order feed.
type Event struct {
	Type        string               `json:"type"`
	OrderID     uint                 `json:"order_id,omitempty"`
	TableNumber int                  `json:"table_number,omitempty"`
	Status      model.Status         `json:"status,omitempty"`
	Amount      *decimal.Decimal     `json:"amount,omitempty"`
	Items       []model.LowStockItem `json:"items,omitempty"`
	At          time.Time            `json:"at"`
}

func OrderPlaced(o *model.Order) Event {
	total := o.TotalPrice
	return Event{Type: EventOrderPlaced, OrderID: o.ID, TableNumber: o.TableNumber, Status: o.Status, Amount: &total, At: o.CreatedAt}
}

func StatusChanged(o *model.Order) Event {
	return Event{Type: EventStatusChanged, OrderID: o.ID, TableNumber: o.TableNumber, Status: o.Status, At: o.UpdatedAt}
}

func Paid(rec *model.PaymentRecord) Event {
	amount := rec.Amount
	return Event{Type: EventPaid, OrderID: rec.OrderID, TableNumber: rec.TableNumber, Status: rec.OrderStatus, Amount: &amount, At: rec.CreatedAt}
}

func Refunded(rec *model.RefundRecord) Event {
	amount := rec.RefundAmount.Neg()
	return Event{Type: EventRefunded, OrderID: rec.OrderID, TableNumber: rec.TableNumber, Status: model.StatusRefunded, Amount: &amount, At: rec.CreatedAt}
}

func LowStock(items []model.LowStockItem, at time.Time) Event {
	return Event{Type: EventLowStock, Items: items, At: at}
}

func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func Decode(b []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(b, &e)
	return e, err
}
