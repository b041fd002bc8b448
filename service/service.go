package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"venue_pos/model"
)

// Service exposes the point-of-sale decisions: stock reservation, order
// aggregation, the order lifecycle and the payment ledger.
type Service struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
	ref   func() string
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
		now:   func() time.Time { return time.Now().UTC() },
		ref:   paymentReference,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Actor resolves an account id into the caller of core operations.
func (s *Service) Actor(ctx context.Context, accountID uint) (model.Actor, error) {
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return model.Actor{}, err
	}
	if !account.Active {
		return model.Actor{}, unauthorized("account %d is disabled", accountID)
	}
	return account.Actor(), nil
}

func (s *Service) Menu(ctx context.Context) ([]model.MenuEntry, error) {
	return s.store.MenuEntries(ctx)
}

func (s *Service) MenuEntry(ctx context.Context, slug string) (*model.MenuEntry, error) {
	return s.store.MenuEntryBySlug(ctx, slug)
}

// Orders lists the orders visible to the actor: a table sees its own table only.
func (s *Service) Orders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if actor.Can(model.OpViewAllOrders) {
		return s.store.Orders(ctx, model.OrderFilter{})
	}
	if actor.Role != model.RoleTable || actor.TableNumber == nil {
		return []model.Order{}, nil
	}
	return s.store.Orders(ctx, model.OrderFilter{TableNumber: actor.TableNumber})
}

func (s *Service) Order(ctx context.Context, id uint) (*model.Order, error) {
	return s.store.OrderByID(ctx, id)
}

func (s *Service) Payments(ctx context.Context, actor model.Actor) ([]model.Payment, error) {
	if !actor.Can(model.OpViewPayments) {
		return nil, unauthorized("role %s may not view payments", actor.Role)
	}
	return s.store.Payments(ctx)
}

func paymentReference() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// internal wraps a storage failure so it never masquerades as a business rejection.
func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
