package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue_pos/model"
	"venue_pos/service"
)

func TestUpdateStatus_StaffAcceptBindsStaff(t *testing.T) {
	f := newFixture(t)
	order := f.placeMojitos(t, 1)

	updated, err := f.svc.UpdateStatus(context.Background(), f.staff, order.ID, model.StatusAccepted)

	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, updated.Status)
	require.NotNil(t, updated.StaffID)
	assert.Equal(t, f.staff.AccountID, *updated.StaffID)
	require.NotNil(t, updated.StaffName())
	assert.Equal(t, "staff1", *updated.StaffName())
}

func TestUpdateStatus_NonStaffCannotAccept(t *testing.T) {
	for _, actor := range []string{"admin", "table"} {
		t.Run(actor, func(t *testing.T) {
			f := newFixture(t)
			order := f.placeMojitos(t, 1)
			who := map[string]model.Actor{"admin": f.admin, "table": f.table1}[actor]

			_, err := f.svc.UpdateStatus(context.Background(), who, order.ID, model.StatusAccepted)

			assert.ErrorIs(t, err, service.ErrUnauthorized)
			stored, err := f.svc.Order(context.Background(), order.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusPending, stored.Status)
			assert.Nil(t, stored.StaffID)
		})
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		from   model.Status
		target model.Status
		want   error
	}{
		{"pending to accepted", model.StatusPending, model.StatusAccepted, nil},
		{"pending to refunded", model.StatusPending, model.StatusRefunded, nil},
		{"accepted to completed", model.StatusAccepted, model.StatusCompleted, nil},
		{"pending to paid needs a payment", model.StatusPending, model.StatusPaid, service.ErrInvalidTransition},
		{"pending to completed skips accept", model.StatusPending, model.StatusCompleted, service.ErrInvalidTransition},
		{"pending to pending", model.StatusPending, model.StatusPending, service.ErrInvalidTransition},
		{"accepted to refunded", model.StatusAccepted, model.StatusRefunded, service.ErrInvalidTransition},
		{"paid to refunded needs a refund", model.StatusPaid, model.StatusRefunded, service.ErrInvalidTransition},
		{"paid to completed", model.StatusPaid, model.StatusCompleted, service.ErrInvalidTransition},
		{"completed is terminal", model.StatusCompleted, model.StatusAccepted, service.ErrInvalidTransition},
		{"refunded is terminal", model.StatusRefunded, model.StatusPending, service.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			order := f.placeMojitos(t, 1)
			f.forceStatus(t, order.ID, tt.from)

			updated, err := f.svc.UpdateStatus(context.Background(), f.staff, order.ID, tt.target)

			stored, serr := f.svc.Order(context.Background(), order.ID)
			require.NoError(t, serr)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Equal(t, tt.from, stored.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, updated.Status)
			assert.Equal(t, tt.target, stored.Status)
		})
	}
}

func TestUpdateStatus_InvalidTransitionDetails(t *testing.T) {
	f := newFixture(t)
	order := f.placeMojitos(t, 1)

	_, err := f.svc.UpdateStatus(context.Background(), f.staff, order.ID, model.StatusCompleted)

	var e *service.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, service.KindInvalidTransition, e.Kind)
	assert.Equal(t, model.StatusPending, e.Details["from"])
	assert.Equal(t, model.StatusCompleted, e.Details["to"])
}

func TestUpdateStatus_TableCancelsOnlyOwnOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.placeMojitos(t, 1)

	_, err := f.svc.UpdateStatus(ctx, f.table2, order.ID, model.StatusRefunded)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	updated, err := f.svc.UpdateStatus(ctx, f.table1, order.ID, model.StatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRefunded, updated.Status)
	assert.Equal(t, 99, f.stock(t, f.mojito.ID), "cancel does not restock")
}

func TestUpdateStatus_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, f.staff, 404, model.StatusAccepted)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.svc.UpdateStatus(ctx, f.staff, 1, model.Status("Shipped"))
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestUpdateStatus_RoleCheckedBeforeTransition(t *testing.T) {
	f := newFixture(t)
	order := f.placeMojitos(t, 1)
	f.forceStatus(t, order.ID, model.StatusCompleted)

	_, err := f.svc.UpdateStatus(context.Background(), f.admin, order.ID, model.StatusAccepted)

	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
