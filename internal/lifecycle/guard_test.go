package lifecycle

import (
	"testing"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAuthorize_Customer(t *testing.T) {
	customer := Actor{ID: "cust-1", Role: models.RoleCustomer}

	tests := []struct {
		name    string
		status  models.OrderStatus
		owner   *string
		req     Request
		wantErr error
	}{
		{"cancel pending", models.OrderPending, strPtr("cust-1"), Request{Target: models.OrderCancelled, Confirmed: true}, nil},
		{"cancel confirmed", models.OrderConfirmed, strPtr("cust-1"), Request{Target: models.OrderCancelled, Confirmed: true}, nil},
		{"cancel without confirmation", models.OrderConfirmed, strPtr("cust-1"), Request{Target: models.OrderCancelled}, ErrConfirmationRequired},
		{"cancel while preparing", models.OrderPreparing, strPtr("cust-1"), Request{Target: models.OrderCancelled, Confirmed: true}, ErrForbiddenTransition},
		{"set delivered", models.OrderConfirmed, strPtr("cust-1"), Request{Target: models.OrderDelivered, Confirmed: true}, ErrForbiddenTransition},
		{"someone else's order", models.OrderPending, strPtr("cust-2"), Request{Target: models.OrderCancelled, Confirmed: true}, ErrNotOrderOwner},
		{"guest order", models.OrderPending, nil, Request{Target: models.OrderCancelled, Confirmed: true}, ErrNotOrderOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{ID: "o1", Status: tt.status, UserID: tt.owner}
			change, err := Authorize(customer, order, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.OrderCancelled, change.Status)
			assert.Nil(t, change.DriverID)
		})
	}
}

func TestAuthorize_DriverPickupClaimsOrder(t *testing.T) {
	driver := Actor{ID: "drv-1", Role: models.RoleDriver}

	for _, from := range []models.OrderStatus{models.OrderConfirmed, models.OrderPreparing, models.OrderReady} {
		order := &models.Order{ID: "o1", Status: from, DriverID: strPtr("someone-else")}
		change, err := Authorize(driver, order, Request{Target: models.OrderOutForDelivery})
		require.NoError(t, err, from)
		assert.Equal(t, models.OrderOutForDelivery, change.Status)
		require.NotNil(t, change.DriverID)
		assert.Equal(t, "drv-1", *change.DriverID)
	}

	_, err := Authorize(driver, &models.Order{Status: models.OrderPending}, Request{Target: models.OrderOutForDelivery})
	assert.ErrorIs(t, err, ErrForbiddenTransition)
}

func TestAuthorize_DriverDeliverRequiresAssignment(t *testing.T) {
	driver := Actor{ID: "drv-1", Role: models.RoleDriver}

	mine := &models.Order{Status: models.OrderOutForDelivery, DriverID: strPtr("drv-1")}
	change, err := Authorize(driver, mine, Request{Target: models.OrderDelivered})
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, change.Status)
	assert.Nil(t, change.DriverID)

	theirs := &models.Order{Status: models.OrderOutForDelivery, DriverID: strPtr("drv-2")}
	_, err = Authorize(driver, theirs, Request{Target: models.OrderDelivered})
	assert.ErrorIs(t, err, ErrForbiddenTransition)

	notOut := &models.Order{Status: models.OrderReady, DriverID: strPtr("drv-1")}
	_, err = Authorize(driver, notOut, Request{Target: models.OrderDelivered})
	assert.ErrorIs(t, err, ErrForbiddenTransition)
}

func TestAuthorize_AdminUnrestricted(t *testing.T) {
	admin := Actor{ID: "adm", Role: models.RoleAdmin}
	order := &models.Order{Status: models.OrderDelivered}

	change, err := Authorize(admin, order, Request{Target: models.OrderPending})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, change.Status)

	_, err = Authorize(admin, order, Request{Target: "lost"})
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestDriverViews(t *testing.T) {
	orders := []models.Order{
		{ID: "a", Status: models.OrderConfirmed},
		{ID: "b", Status: models.OrderReady, DriverID: strPtr("drv-2")},
		{ID: "c", Status: models.OrderOutForDelivery, DriverID: strPtr("drv-1")},
		{ID: "d", Status: models.OrderDelivered, DriverID: strPtr("drv-1")},
		{ID: "e", Status: models.OrderOutForDelivery, DriverID: strPtr("drv-2")},
		{ID: "f", Status: models.OrderPending},
	}

	ids := func(os []models.Order) []string {
		var out []string
		for _, o := range os {
			out = append(out, o.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b"}, ids(AvailableForPickup(orders)))
	assert.Equal(t, []string{"c"}, ids(ActiveDeliveries(orders, "drv-1")))
	assert.Equal(t, []string{"d"}, ids(DeliveryHistory(orders, "drv-1")))
}

func TestProgress(t *testing.T) {
	steps := Progress(models.OrderPreparing)
	require.Len(t, steps, len(models.OrderProgression))
	assert.True(t, steps[0].Done)
	assert.True(t, steps[2].Done)
	assert.True(t, steps[2].Active)
	assert.False(t, steps[3].Done)

	cancelled := Progress(models.OrderCancelled)
	require.Len(t, cancelled, 1)
	assert.Equal(t, models.OrderCancelled, cancelled[0].Status)
}
