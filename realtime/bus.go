package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Bus carries feed events between processes. Subscribe channels close when
// ctx ends or the bus is closed.
type Bus interface {
	Publish(ctx context.Context, e Event) error
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}

// LocalBus fans events out inside one process.
type LocalBus struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[chan Event]struct{})}
}

// Publish drops the event for subscribers whose buffer is full.
func (b *LocalBus) Publish(_ context.Context, e Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}()
	return ch, nil
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}

// Notifier publishes events on behalf of request handlers. Failures are
// logged and never reach the caller.
type Notifier struct {
	bus Bus
	log *zap.Logger
}

func NewNotifier(bus Bus, log *zap.Logger) *Notifier {
	return &Notifier{bus: bus, log: log}
}

func (n *Notifier) Notify(ctx context.Context, e Event) {
	if n == nil || n.bus == nil {
		return
	}
	if err := n.bus.Publish(ctx, e); err != nil {
		n.log.Warn("event not published", zap.String("type", e.Type), zap.Uint("order_id", e.OrderID), zap.Error(err))
	}
}
