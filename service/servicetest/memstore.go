// Package servicetest provides an in-memory service.Store for tests.
package servicetest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"venue_pos/model"
	"venue_pos/service"
)

// MemoryStore is an in-process Store. Row locks are per-key mutexes held for
// the life of a transaction; writes are staged and applied only on commit.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[uint]model.Account
	entries  map[uint]model.MenuEntry
	orders   map[uint]model.Order
	payments []model.Payment
	nextID   map[string]uint

	keysMu sync.Mutex
	keys   map[string]*sync.Mutex
}

var _ service.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uint]model.Account),
		entries:  make(map[uint]model.MenuEntry),
		orders:   make(map[uint]model.Order),
		nextID:   make(map[string]uint),
		keys:     make(map[string]*sync.Mutex),
	}
}

// PutAccount inserts or replaces an account, assigning an id when it has none.
func (m *MemoryStore) PutAccount(a model.Account) model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.allocate("account")
	}
	m.accounts[a.ID] = a
	return a
}

// PutMenuEntry inserts or replaces a menu entry outside any transaction.
func (m *MemoryStore) PutMenuEntry(e model.MenuEntry) model.MenuEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = m.allocate("entry")
	}
	m.entries[e.ID] = cloneEntry(e)
	return e
}

// allocate must be called with mu held.
func (m *MemoryStore) allocate(kind string) uint {
	m.nextID[kind]++
	return m.nextID[kind]
}

func (m *MemoryStore) key(k string) *sync.Mutex {
	m.keysMu.Lock()
	defer m.keysMu.Unlock()
	l, ok := m.keys[k]
	if !ok {
		l = &sync.Mutex{}
		m.keys[k] = l
	}
	return l
}

func (m *MemoryStore) WithinTx(ctx context.Context, fn func(tx service.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{
		store:   m,
		held:    make(map[string]*sync.Mutex),
		entries: make(map[uint]model.MenuEntry),
		orders:  make(map[uint]model.Order),
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (m *MemoryStore) MenuEntries(_ context.Context) ([]model.MenuEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.MenuEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) MenuEntryBySlug(_ context.Context, slug string) (*model.MenuEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.Slug == slug {
			out := cloneEntry(e)
			return &out, nil
		}
	}
	return nil, notFound("Menu entry not found: %s", slug)
}

func (m *MemoryStore) Orders(_ context.Context, filter model.OrderFilter) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.TableNumber != nil && o.TableNumber != *filter.TableNumber {
			continue
		}
		out = append(out, m.withStaff(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) OrderByID(_ context.Context, id uint) (*model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, &service.Error{Kind: service.KindNotFound, Message: "Order not found", Details: map[string]any{"order_id": id}}
	}
	out := m.withStaff(o)
	return &out, nil
}

func (m *MemoryStore) Payments(_ context.Context) ([]model.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.payments), nil
}

func (m *MemoryStore) AccountByID(_ context.Context, id uint) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, notFound("User not found")
	}
	return &a, nil
}

// withStaff must be called with mu held.
func (m *MemoryStore) withStaff(o model.Order) model.Order {
	o = cloneOrder(o)
	if o.StaffID != nil {
		if a, ok := m.accounts[*o.StaffID]; ok {
			o.Staff = &a
		}
	}
	return o
}

type memTx struct {
	store *MemoryStore
	held  map[string]*sync.Mutex
	order []string

	entries  map[uint]model.MenuEntry
	orders   map[uint]model.Order
	payments []model.Payment
}

func (t *memTx) lock(k string) {
	if _, ok := t.held[k]; ok {
		return
	}
	l := t.store.key(k)
	l.Lock()
	t.held[k] = l
	t.order = append(t.order, k)
}

func (t *memTx) release() {
	for i := len(t.order) - 1; i >= 0; i-- {
		t.held[t.order[i]].Unlock()
	}
	t.held = nil
	t.order = nil
}

func (t *memTx) commit() {
	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range t.entries {
		m.entries[id] = e
	}
	for id, o := range t.orders {
		m.orders[id] = o
	}
	m.payments = append(m.payments, t.payments...)
}

func (t *memTx) entry(id uint) (model.MenuEntry, bool) {
	if e, ok := t.entries[id]; ok {
		return e, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	e, ok := t.store.entries[id]
	return e, ok
}

func (t *memTx) LockMenuEntries(ids []uint) (map[uint]*model.MenuEntry, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	out := make(map[uint]*model.MenuEntry, len(sorted))
	for _, id := range slices.Compact(sorted) {
		t.lock(fmt.Sprintf("entry:%d", id))
		if e, ok := t.entry(id); ok {
			c := cloneEntry(e)
			out[id] = &c
		}
	}
	return out, nil
}

func (t *memTx) DecrementStock(id uint, quantity int) error {
	if quantity <= 0 {
		return &service.Error{Kind: service.KindValidation, Message: fmt.Sprintf("stock decrement must be positive, got %d", quantity)}
	}
	t.lock(fmt.Sprintf("entry:%d", id))
	e, ok := t.entry(id)
	if !ok {
		return notFound("Item not found: %d", id)
	}
	if e.Stock == nil || *e.Stock < quantity {
		return service.ErrInsufficientStock
	}
	left := *e.Stock - quantity
	e = cloneEntry(e)
	e.Stock = &left
	t.entries[id] = e
	return nil
}

func (t *memTx) CreateMenuEntry(entry *model.MenuEntry) error {
	t.store.mu.Lock()
	entry.ID = t.store.allocate("entry")
	t.store.mu.Unlock()
	t.lock(fmt.Sprintf("entry:%d", entry.ID))
	t.entries[entry.ID] = cloneEntry(*entry)
	return nil
}

func (t *memTx) SaveMenuEntry(entry *model.MenuEntry) error {
	t.lock(fmt.Sprintf("entry:%d", entry.ID))
	t.entries[entry.ID] = cloneEntry(*entry)
	return nil
}

// SlugTaken holds the slug key so concurrent creators of the same name serialize.
func (t *memTx) SlugTaken(slug string, exceptID uint) (bool, error) {
	t.lock("slug:" + slug)
	for id, e := range t.entries {
		if e.Slug == slug && id != exceptID {
			return true, nil
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	for id, e := range t.store.entries {
		if _, staged := t.entries[id]; staged {
			continue
		}
		if e.Slug == slug && id != exceptID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CreateOrder(order *model.Order) error {
	t.store.mu.Lock()
	order.ID = t.store.allocate("order")
	t.store.mu.Unlock()
	t.lock(fmt.Sprintf("order:%d", order.ID))
	t.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (t *memTx) LockOrder(id uint) (*model.Order, error) {
	t.lock(fmt.Sprintf("order:%d", id))
	o, ok := t.orders[id]
	if !ok {
		t.store.mu.RLock()
		o, ok = t.store.orders[id]
		t.store.mu.RUnlock()
	}
	if !ok {
		return nil, &service.Error{Kind: service.KindNotFound, Message: "Order not found", Details: map[string]any{"order_id": id}}
	}
	o = cloneOrder(o)
	return &o, nil
}

func (t *memTx) UpdateOrder(order *model.Order) error {
	t.lock(fmt.Sprintf("order:%d", order.ID))
	o := cloneOrder(*order)
	o.Staff = nil
	t.orders[order.ID] = o
	return nil
}

func (t *memTx) SuccessfulPayment(orderID uint) (*model.Payment, error) {
	for _, p := range t.payments {
		if p.OrderID == orderID && p.Status == model.PaymentSuccess {
			return &p, nil
		}
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	for _, p := range t.store.payments {
		if p.OrderID == orderID && p.Status == model.PaymentSuccess {
			return &p, nil
		}
	}
	return nil, nil
}

func (t *memTx) CreatePayment(payment *model.Payment) error {
	t.store.mu.Lock()
	payment.ID = t.store.allocate("payment")
	t.store.mu.Unlock()
	t.payments = append(t.payments, *payment)
	return nil
}

func cloneEntry(e model.MenuEntry) model.MenuEntry {
	if e.Stock != nil {
		s := *e.Stock
		e.Stock = &s
	}
	return e
}

func cloneOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	if o.StaffID != nil {
		id := *o.StaffID
		o.StaffID = &id
	}
	return o
}

func notFound(format string, args ...any) *service.Error {
	return &service.Error{Kind: service.KindNotFound, Message: fmt.Sprintf(format, args...)}
}
