package servicetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue_pos/model"
	"venue_pos/service"
)

func TestDecrementStock_RejectsNonPositive(t *testing.T) {
	m := NewMemoryStore()
	stock := 10
	e := m.PutMenuEntry(model.MenuEntry{Name: "Gin", Slug: "gin", Stock: &stock, TrackStock: true})

	for _, quantity := range []int{0, -5} {
		err := m.WithinTx(context.Background(), func(tx service.Tx) error {
			return tx.DecrementStock(e.ID, quantity)
		})
		assert.ErrorIs(t, err, service.ErrValidation, "quantity %d", quantity)
	}

	got, err := m.MenuEntryBySlug(context.Background(), "gin")
	require.NoError(t, err)
	assert.Equal(t, 10, *got.Stock)
}

func TestWithinTx_DiscardsWritesOnError(t *testing.T) {
	m := NewMemoryStore()
	stock := 10
	e := m.PutMenuEntry(model.MenuEntry{Name: "Gin", Slug: "gin", Stock: &stock, TrackStock: true})

	err := m.WithinTx(context.Background(), func(tx service.Tx) error {
		require.NoError(t, tx.DecrementStock(e.ID, 4))
		return service.ErrInsufficientAmount
	})
	require.ErrorIs(t, err, service.ErrInsufficientAmount)

	err = m.WithinTx(context.Background(), func(tx service.Tx) error {
		return tx.DecrementStock(e.ID, 11)
	})
	require.ErrorIs(t, err, service.ErrInsufficientStock)

	got, err := m.MenuEntryBySlug(context.Background(), "gin")
	require.NoError(t, err)
	assert.Equal(t, 10, *got.Stock)
}
