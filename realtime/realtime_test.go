package realtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"venue_pos/model"
	"venue_pos/realtime"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	fail     bool
	closed   bool
}

func (c *fakeClient) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeClient) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

type brokenBus struct{ realtime.Bus }

func (brokenBus) Publish(context.Context, realtime.Event) error { return errors.New("down") }

var at = time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)

func TestLocalBus_FansOut(t *testing.T) {
	bus := realtime.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	b, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, realtime.Event{Type: realtime.EventOrderPlaced, OrderID: 7, At: at}))

	for _, ch := range []<-chan realtime.Event{a, b} {
		select {
		case e := <-ch:
			assert.Equal(t, uint(7), e.OrderID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestLocalBus_ClosesOnCancel(t *testing.T) {
	bus := realtime.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}

	require.NoError(t, bus.Close())
	late, err := bus.Subscribe(context.Background())
	require.NoError(t, err)
	_, ok := <-late
	assert.False(t, ok)
}

func TestEvent_Constructors(t *testing.T) {
	order := &model.Order{ID: 3, TableNumber: 2, Status: model.StatusPending, TotalPrice: decimal.RequireFromString("17.00"), CreatedAt: at}
	placed := realtime.OrderPlaced(order)
	assert.Equal(t, realtime.EventOrderPlaced, placed.Type)
	assert.Equal(t, "17", placed.Amount.String())

	refund := realtime.Refunded(&model.RefundRecord{OrderID: 3, TableNumber: 2, RefundAmount: decimal.RequireFromString("17.00"), CreatedAt: at})
	assert.Equal(t, model.StatusRefunded, refund.Status)
	assert.Equal(t, "-17", refund.Amount.String())

	raw, err := realtime.LowStock([]model.LowStockItem{{ID: 2, Name: "Gin", Stock: 4}}, at).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"stock.low","items":[{"id":2,"name":"Gin","stock":4}],"at":"2026-03-14T20:30:00Z"}`, string(raw))

	decoded, err := realtime.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Gin", decoded.Items[0].Name)
}

func TestHub_BroadcastsAndDropsBrokenClients(t *testing.T) {
	hub := realtime.NewHub(zap.NewNop())
	good := &fakeClient{}
	bad := &fakeClient{fail: true}
	hub.Register(good)
	hub.Register(bad)

	hub.Broadcast(realtime.Event{Type: realtime.EventStatusChanged, OrderID: 1, Status: model.StatusAccepted, At: at})

	assert.Equal(t, 1, good.count())
	assert.True(t, bad.closed)
	assert.Equal(t, 1, hub.Len())

	hub.Unregister(good)
	assert.Equal(t, 0, hub.Len())
}

func TestHub_RunRelaysBusEvents(t *testing.T) {
	bus := realtime.NewLocalBus()
	hub := realtime.NewHub(zap.NewNop())
	client := &fakeClient{}
	hub.Register(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx, bus) }()

	require.Eventually(t, func() bool {
		_ = bus.Publish(ctx, realtime.Event{Type: realtime.EventPaid, OrderID: 9, At: at})
		return client.count() > 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestNotifier_SwallowsPublishErrors(t *testing.T) {
	n := realtime.NewNotifier(brokenBus{}, zap.NewNop())
	assert.NotPanics(t, func() { n.Notify(context.Background(), realtime.Event{Type: realtime.EventPaid}) })

	var nilNotifier *realtime.Notifier
	assert.NotPanics(t, func() { nilNotifier.Notify(context.Background(), realtime.Event{}) })
}
