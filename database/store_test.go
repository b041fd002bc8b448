package database

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"venue_pos/model"
	"venue_pos/service"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, SeedData(db, "table123", zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func entryBySlug(t *testing.T, s *Store, slug string) *model.MenuEntry {
	t.Helper()
	e, err := s.MenuEntryBySlug(context.Background(), slug)
	require.NoError(t, err)
	return e
}

func tableActor(t *testing.T, s *Store, table int) model.Actor {
	t.Helper()
	a, err := s.AccountByTable(context.Background(), table)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a.Actor()
}

func TestSeedData_IsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, SeedData(s.DB(), "table123", zap.NewNop()))

	accounts, err := s.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 8)

	menu, err := s.MenuEntries(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 6)
	assert.Equal(t, "mojito", menu[0].Slug)
	assert.True(t, menu[0].Tracked())
	assert.Equal(t, 100, *menu[0].Stock)
	assert.True(t, menu[5].IsService())
	assert.False(t, menu[5].Tracked())
}

func TestStore_OrderPaymentRefundRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	svc := service.New(s)
	mojito := entryBySlug(t, s, "mojito")
	table := tableActor(t, s, 1)

	order, err := svc.PlaceOrder(ctx, table, []service.ItemRequest{{ItemID: mojito.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 98, *entryBySlug(t, s, "mojito").Stock)

	stored, err := s.OrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("17").Equal(stored.TotalPrice))
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Mojito", stored.Items[0].Name)
	assert.Equal(t, model.StatusPending, stored.Status)

	_, err = svc.Pay(ctx, nil, order.ID, decimal.RequireFromString("10.00"))
	assert.ErrorIs(t, err, service.ErrInsufficientAmount)

	_, err = svc.Pay(ctx, nil, order.ID, decimal.RequireFromString("17.00"))
	require.NoError(t, err)
	_, err = svc.Pay(ctx, nil, order.ID, decimal.RequireFromString("17.00"))
	assert.ErrorIs(t, err, service.ErrAlreadyPaid)

	admin, err := s.AccountByUsername(ctx, "admin")
	require.NoError(t, err)
	refund, err := svc.Refund(ctx, admin.Actor(), order.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("17").Equal(refund.RefundAmount))

	payments, err := s.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.True(t, decimal.RequireFromString("-17").Equal(payments[1].Amount))

	stored, err = s.OrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRefunded, stored.Status)
}

func TestStore_StaffAcceptLoadsStaffName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	svc := service.New(s)
	staff, err := s.AccountByUsername(ctx, "staff2")
	require.NoError(t, err)

	order, err := svc.PlaceOrder(ctx, tableActor(t, s, 2), []service.ItemRequest{{ItemID: entryBySlug(t, s, "gin").ID, Quantity: 1}})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, staff.Actor(), order.ID, model.StatusAccepted)
	require.NoError(t, err)
	require.NotNil(t, updated.StaffName())
	assert.Equal(t, "staff2", *updated.StaffName())

	two := 2
	orders, err := s.Orders(ctx, model.OrderFilter{TableNumber: &two})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "staff2", *orders[0].StaffName())
}

func TestStore_InsufficientStockRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	svc := service.New(s)

	_, err := svc.PlaceOrder(ctx, tableActor(t, s, 1), []service.ItemRequest{
		{ItemID: entryBySlug(t, s, "vodka").ID, Quantity: 5},
		{ItemID: entryBySlug(t, s, "gin").ID, Quantity: 101},
	})

	require.ErrorIs(t, err, service.ErrInsufficientStock)
	assert.Equal(t, 100, *entryBySlug(t, s, "vodka").Stock)
	assert.Equal(t, 100, *entryBySlug(t, s, "gin").Stock)
}

func TestStore_DecrementStockIsConditional(t *testing.T) {
	s := newTestStore(t)
	gin := entryBySlug(t, s, "gin")

	err := s.WithinTx(context.Background(), func(tx service.Tx) error {
		return tx.DecrementStock(gin.ID, 101)
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	err = s.WithinTx(context.Background(), func(tx service.Tx) error {
		if err := tx.DecrementStock(gin.ID, 60); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Equal(t, 100, *entryBySlug(t, s, "gin").Stock)
}

func TestStore_DecrementStockRejectsNonPositive(t *testing.T) {
	s := newTestStore(t)
	gin := entryBySlug(t, s, "gin")

	for _, quantity := range []int{0, -5} {
		err := s.WithinTx(context.Background(), func(tx service.Tx) error {
			return tx.DecrementStock(gin.ID, quantity)
		})
		assert.ErrorIs(t, err, service.ErrValidation, "quantity %d", quantity)
	}
	assert.Equal(t, 100, *entryBySlug(t, s, "gin").Stock)
}

func TestStore_OverflowingQuantitiesRejected(t *testing.T) {
	s := newTestStore(t)
	mojito := entryBySlug(t, s, "mojito")

	_, err := service.New(s).PlaceOrder(context.Background(), tableActor(t, s, 1), []service.ItemRequest{
		{ItemID: mojito.ID, Quantity: math.MaxInt},
		{ItemID: mojito.ID, Quantity: 1},
	})

	require.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, 100, *entryBySlug(t, s, "mojito").Stock)
	orders, err := s.Orders(context.Background(), model.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestStore_ConcurrentPaymentsOnSQLite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	svc := service.New(s)
	order, err := svc.PlaceOrder(ctx, tableActor(t, s, 3), []service.ItemRequest{{ItemID: entryBySlug(t, s, "mojito").ID, Quantity: 1}})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Pay(ctx, nil, order.ID, decimal.RequireFromString("8.50")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	payments, err := s.Payments(ctx)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestStore_MenuAdministration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	svc := service.New(s)
	admin, err := s.AccountByUsername(ctx, "admin")
	require.NoError(t, err)

	entry, err := svc.CreateMenuEntry(ctx, admin.Actor(), model.CreateMenuEntryInput{
		Name: "Gin", Price: decimal.RequireFromString("9.00"), Category: "drink",
	})
	require.NoError(t, err)
	assert.Equal(t, "gin-2", entry.Slug)

	price := decimal.RequireFromString("9.50")
	updated, err := svc.UpdateMenuEntry(ctx, admin.Actor(), entry.ID, model.UpdateMenuEntryInput{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "gin-2", updated.Slug)
	assert.True(t, price.Equal(entryBySlug(t, s, "gin-2").Price))

	_, err = s.MenuEntryBySlug(ctx, "absinthe")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestStore_DailySummaryAndLowStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := service.New(s, service.WithClock(func() time.Time { return day }))
	admin, err := s.AccountByUsername(ctx, "admin")
	require.NoError(t, err)
	gin := entryBySlug(t, s, "gin")

	first, err := svc.PlaceOrder(ctx, tableActor(t, s, 1), []service.ItemRequest{{ItemID: gin.ID, Quantity: 95}})
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, tableActor(t, s, 2), []service.ItemRequest{{ItemID: gin.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.Pay(ctx, nil, first.ID, decimal.RequireFromString("665.00"))
	require.NoError(t, err)
	_, err = svc.Pay(ctx, nil, second.ID, decimal.RequireFromString("7.00"))
	require.NoError(t, err)
	_, err = svc.Refund(ctx, admin.Actor(), second.ID)
	require.NoError(t, err)

	summary, err := s.DailySummary(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", summary.Date)
	assert.Equal(t, int64(2), summary.OrdersPlaced)
	assert.Equal(t, 2, summary.PaymentsCount)
	assert.True(t, decimal.RequireFromString("672").Equal(summary.PaymentsTotal), summary.PaymentsTotal.String())
	assert.Equal(t, 1, summary.RefundsCount)
	assert.True(t, decimal.RequireFromString("665").Equal(summary.Net()))

	empty, err := s.DailySummary(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, empty.OrdersPlaced)

	low, err := s.LowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Gin", low[0].Name)
	assert.Equal(t, 4, low[0].Stock)
}

func TestStore_Accounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.CreateAccount(ctx, &model.Account{Username: "admin", Password: "x", Role: model.RoleStaff, Active: true})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	three := 3
	err = s.CreateAccount(ctx, &model.Account{Username: "bar3", Password: "x", Role: model.RoleTable, TableNumber: &three, Active: true})
	assert.ErrorIs(t, err, ErrTableTaken)

	missing, err := s.AccountByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := s.DeleteTable(ctx, 5)
	require.NoError(t, err)
	assert.True(t, deleted)
	gone, err := s.AccountByTable(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, gone)

	deleted, err = s.DeleteTable(ctx, 5)
	require.NoError(t, err)
	assert.False(t, deleted)
}
