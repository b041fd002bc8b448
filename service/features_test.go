package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"venue_pos/model"
	"venue_pos/service"
	"venue_pos/service/servicetest"
)

type lifecycleWorld struct {
	store   *servicetest.MemoryStore
	svc     *service.Service
	actors  map[string]model.Actor
	entries map[string]model.MenuEntry

	order   *model.Order
	payment *model.PaymentRecord
	err     error
}

func (w *lifecycleWorld) reset() {
	w.store = servicetest.NewMemoryStore()
	w.svc = service.New(w.store, service.WithClock(func() time.Time { return fixedNow }))
	w.actors = map[string]model.Actor{
		"admin": w.store.PutAccount(model.Account{Username: "admin", Role: model.RoleAdmin, Active: true}).Actor(),
		"staff": w.store.PutAccount(model.Account{Username: "staff1", Role: model.RoleStaff, Active: true}).Actor(),
		"table": w.store.PutAccount(model.Account{Username: "table1", Role: model.RoleTable, TableNumber: intPtr(1), Active: true}).Actor(),
	}
	w.entries = map[string]model.MenuEntry{}
	w.order = nil
	w.payment = nil
	w.err = nil
}

func (w *lifecycleWorld) theMenuHas(name, price string, stock int) error {
	p, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	w.entries[name] = w.store.PutMenuEntry(model.MenuEntry{
		Name: name, Slug: name, Price: p, Category: "drinks", Stock: &stock, TrackStock: true,
	})
	return nil
}

func (w *lifecycleWorld) tableOrders(table, qty int, name string) error {
	entry, ok := w.entries[name]
	if !ok {
		return fmt.Errorf("no menu entry %q", name)
	}
	actor := w.actors["table"]
	if actor.TableNumber == nil || *actor.TableNumber != table {
		return fmt.Errorf("no account for table %d", table)
	}
	w.order, w.err = w.svc.PlaceOrder(context.Background(), actor, []service.ItemRequest{{ItemID: entry.ID, Quantity: qty}})
	return nil
}

func (w *lifecycleWorld) tableHasOrdered(table, qty int, name string) error {
	if err := w.tableOrders(table, qty, name); err != nil {
		return err
	}
	return w.err
}

func (w *lifecycleWorld) theOrderIsPaid(amount string) error {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	w.payment, w.err = w.svc.Pay(context.Background(), nil, w.order.ID, a)
	return nil
}

func (w *lifecycleWorld) anAdminRefundsTheOrder() error {
	_, w.err = w.svc.Refund(context.Background(), w.actors["admin"], w.order.ID)
	return nil
}

func (w *lifecycleWorld) roleSetsStatus(role, status string) error {
	actor, ok := w.actors[role]
	if !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	_, w.err = w.svc.UpdateStatus(context.Background(), actor, w.order.ID, model.Status(status))
	return nil
}

func (w *lifecycleWorld) theOrderTotalIs(total string) error {
	if w.err != nil {
		return w.err
	}
	if !decimal.RequireFromString(total).Equal(w.order.TotalPrice) {
		return fmt.Errorf("expected total %s, got %s", total, w.order.TotalPrice)
	}
	return nil
}

func (w *lifecycleWorld) theOrderStatusIs(status string) error {
	stored, err := w.svc.Order(context.Background(), w.order.ID)
	if err != nil {
		return err
	}
	if string(stored.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, stored.Status)
	}
	return nil
}

func (w *lifecycleWorld) hasInStock(name string, want int) error {
	menu, err := w.svc.Menu(context.Background())
	if err != nil {
		return err
	}
	for _, e := range menu {
		if e.Name == name {
			if e.Stock == nil || *e.Stock != want {
				return fmt.Errorf("expected %d %s in stock, got %v", want, name, e.Stock)
			}
			return nil
		}
	}
	return fmt.Errorf("no menu entry %q", name)
}

func (w *lifecycleWorld) thePaymentSucceedsWithAmount(amount string) error {
	if w.err != nil {
		return w.err
	}
	if w.payment.Status != model.PaymentSuccess || !decimal.RequireFromString(amount).Equal(w.payment.Amount) {
		return fmt.Errorf("unexpected payment %+v", w.payment)
	}
	return nil
}

func (w *lifecycleWorld) theRequestFailsWith(kind string) error {
	if got := service.KindOf(w.err); string(got) != kind {
		return fmt.Errorf("expected %s, got %v", kind, w.err)
	}
	return nil
}

func (w *lifecycleWorld) theLedgerHolds(status, amount string) error {
	if w.err != nil {
		return w.err
	}
	payments, err := w.svc.Payments(context.Background(), w.actors["admin"])
	if err != nil {
		return err
	}
	for _, p := range payments {
		if string(p.Status) == status && decimal.RequireFromString(amount).Equal(p.Amount) {
			return nil
		}
	}
	return fmt.Errorf("no %s payment of %s in %v", status, amount, payments)
}

func (w *lifecycleWorld) theOutcomeIs(outcome string) error {
	if outcome == "ok" {
		return w.err
	}
	return w.theRequestFailsWith(outcome)
}

func (w *lifecycleWorld) theOrderIsHandledByStaff() error {
	stored, err := w.svc.Order(context.Background(), w.order.ID)
	if err != nil {
		return err
	}
	staff := w.actors["staff"]
	if stored.StaffID == nil || *stored.StaffID != staff.AccountID {
		return fmt.Errorf("expected staff %d, got %v", staff.AccountID, stored.StaffID)
	}
	return nil
}

func InitializeLifecycleScenario(ctx *godog.ScenarioContext) {
	w := &lifecycleWorld{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		w.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the menu has "([^"]*)" priced (\d+\.\d+) with stock (\d+)$`, w.theMenuHas)
	ctx.Step(`^table (\d+) has ordered (\d+) "([^"]*)"$`, w.tableHasOrdered)

	// When steps
	ctx.Step(`^table (\d+) orders (\d+) "([^"]*)"$`, w.tableOrders)
	ctx.Step(`^the order is paid (\d+\.\d+)$`, w.theOrderIsPaid)
	ctx.Step(`^an admin refunds the order$`, w.anAdminRefundsTheOrder)
	ctx.Step(`^a (\w+) sets the order status to "([^"]*)"$`, w.roleSetsStatus)

	// Then steps
	ctx.Step(`^the order total is (\d+\.\d+)$`, w.theOrderTotalIs)
	ctx.Step(`^the order status is "([^"]*)"$`, w.theOrderStatusIs)
	ctx.Step(`^"([^"]*)" has (\d+) in stock$`, w.hasInStock)
	ctx.Step(`^the payment succeeds with amount (\d+\.\d+)$`, w.thePaymentSucceedsWithAmount)
	ctx.Step(`^the request fails with "([^"]*)"$`, w.theRequestFailsWith)
	ctx.Step(`^the ledger holds a "([^"]*)" payment of (-?\d+\.\d+)$`, w.theLedgerHolds)
	ctx.Step(`^the outcome is "([^"]*)"$`, w.theOutcomeIs)
	ctx.Step(`^the order is handled by the staff member$`, w.theOrderIsHandledByStaff)
}

func TestLifecycleFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeLifecycleScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/order_lifecycle.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
