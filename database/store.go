package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venue_pos/model"
	"venue_pos/service"
)

// Store runs the core against GORM. On postgres, Lock* methods take row locks
// with SELECT ... FOR UPDATE; sqlite serializes through its single connection.
type Store struct {
	db *gorm.DB
}

var _ service.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx service.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func (s *Store) MenuEntries(ctx context.Context) ([]model.MenuEntry, error) {
	var entries []model.MenuEntry
	if err := s.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return entries, nil
}

func (s *Store) MenuEntryBySlug(ctx context.Context, slug string) (*model.MenuEntry, error) {
	var entry model.MenuEntry
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &service.Error{Kind: service.KindNotFound, Message: "Menu entry not found: " + slug}
		}
		return nil, fmt.Errorf("find menu entry: %w", err)
	}
	return &entry, nil
}

func (s *Store) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	q := s.db.WithContext(ctx).Preload("Staff").Order("id")
	if filter.TableNumber != nil {
		q = q.Where("table_number = ?", *filter.TableNumber)
	}
	var orders []model.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Store) OrderByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).Preload("Staff").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderNotFound(id)
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (s *Store) Payments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := s.db.WithContext(ctx).Order("id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

func (s *Store) AccountByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &service.Error{Kind: service.KindNotFound, Message: "User not found"}
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

func orderNotFound(id uint) error {
	return &service.Error{
		Kind:    service.KindNotFound,
		Message: "Order not found",
		Details: map[string]any{"order_id": id},
	}
}

type gormTx struct {
	db *gorm.DB
}

// forUpdate adds a row lock where the dialect has one.
func (t *gormTx) forUpdate() *gorm.DB {
	if t.db.Dialector.Name() == "postgres" {
		return t.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return t.db
}

func (t *gormTx) LockMenuEntries(ids []uint) (map[uint]*model.MenuEntry, error) {
	out := make(map[uint]*model.MenuEntry, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var entries []model.MenuEntry
	if err := t.forUpdate().Where("id IN ?", ids).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	for i := range entries {
		out[entries[i].ID] = &entries[i]
	}
	return out, nil
}

func (t *gormTx) DecrementStock(id uint, quantity int) error {
	if quantity <= 0 {
		return &service.Error{Kind: service.KindValidation, Message: fmt.Sprintf("stock decrement must be positive, got %d", quantity)}
	}
	res := t.db.Model(&model.MenuEntry{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return service.ErrInsufficientStock
	}
	return nil
}

func (t *gormTx) CreateMenuEntry(entry *model.MenuEntry) error {
	return t.db.Create(entry).Error
}

func (t *gormTx) SaveMenuEntry(entry *model.MenuEntry) error {
	return t.db.Save(entry).Error
}

func (t *gormTx) SlugTaken(slug string, exceptID uint) (bool, error) {
	var count int64
	err := t.db.Model(&model.MenuEntry{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (t *gormTx) CreateOrder(order *model.Order) error {
	return t.db.Omit(clause.Associations).Create(order).Error
}

func (t *gormTx) LockOrder(id uint) (*model.Order, error) {
	var order model.Order
	if err := t.forUpdate().First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderNotFound(id)
		}
		return nil, err
	}
	return &order, nil
}

func (t *gormTx) UpdateOrder(order *model.Order) error {
	return t.db.Model(&model.Order{ID: order.ID}).Updates(map[string]any{
		"status":     order.Status,
		"staff_id":   order.StaffID,
		"updated_at": order.UpdatedAt,
	}).Error
}

func (t *gormTx) SuccessfulPayment(orderID uint) (*model.Payment, error) {
	var payment model.Payment
	err := t.db.Where("order_id = ? AND status = ?", orderID, model.PaymentSuccess).
		Order("id").First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (t *gormTx) CreatePayment(payment *model.Payment) error {
	return t.db.Create(payment).Error
}
