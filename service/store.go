package service

import (
	"context"

	"venue_pos/model"
)

// Store is the persistence boundary the core runs against.
type Store interface {
	Reader
	AccountLookup

	// WithinTx runs fn as one unit: any error, or a panic, discards every write fn made.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of row operations available inside a transaction.
// Lock* methods hold the row until the transaction ends.
type Tx interface {
	// LockMenuEntries locks the given entries in ascending id order.
	// Ids with no row are absent from the result.
	LockMenuEntries(ids []uint) (map[uint]*model.MenuEntry, error)
	// DecrementStock fails with ErrInsufficientStock when the row would go negative
	// and with ErrValidation when quantity is not positive.
	DecrementStock(id uint, quantity int) error
	CreateMenuEntry(entry *model.MenuEntry) error
	SaveMenuEntry(entry *model.MenuEntry) error
	SlugTaken(slug string, exceptID uint) (bool, error)

	CreateOrder(order *model.Order) error
	// LockOrder fails with ErrNotFound when the order does not exist.
	LockOrder(id uint) (*model.Order, error)
	UpdateOrder(order *model.Order) error

	// SuccessfulPayment returns nil when the order has no Success row.
	SuccessfulPayment(orderID uint) (*model.Payment, error)
	CreatePayment(payment *model.Payment) error
}

type Reader interface {
	MenuEntries(ctx context.Context) ([]model.MenuEntry, error)
	MenuEntryBySlug(ctx context.Context, slug string) (*model.MenuEntry, error)
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	OrderByID(ctx context.Context, id uint) (*model.Order, error)
	Payments(ctx context.Context) ([]model.Payment, error)
}

type AccountLookup interface {
	AccountByID(ctx context.Context, id uint) (*model.Account, error)
}
