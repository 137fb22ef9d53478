package profiles

import (
	"context"
	"testing"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDriver(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)

	d, err := svc.RegisterDriver(ctx, DriverInput{Email: "d@x.io", Name: "Dee", VehicleType: "Car", PlateNumber: "B1234"})
	require.NoError(t, err)
	assert.Equal(t, marketplace.DriverActive, d.Status)

	_, err = svc.RegisterDriver(ctx, DriverInput{Email: "d@x.io", Name: "Dup", VehicleType: "Car", PlateNumber: "B1234"})
	assert.ErrorIs(t, err, marketplace.ErrConflict)

	_, err = svc.RegisterDriver(ctx, DriverInput{Email: "e@x.io", VehicleType: "Ca", PlateNumber: "B1234"})
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	_, err = svc.RegisterDriver(ctx, DriverInput{Email: "e@x.io", VehicleType: "Car", PlateNumber: "B12"})
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
}

func TestChangeDriverStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)
	d, err := svc.RegisterDriver(ctx, DriverInput{Email: "d@x.io", VehicleType: "Bike", PlateNumber: "B9999"})
	require.NoError(t, err)

	got, err := svc.ChangeDriverStatus(ctx, d.ID, marketplace.DriverBusy)
	require.NoError(t, err)
	assert.Equal(t, marketplace.DriverBusy, got.Status)

	_, err = svc.ChangeDriverStatus(ctx, d.ID, "ASLEEP")
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	_, err = svc.ChangeDriverStatus(ctx, 99, marketplace.DriverActive)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}

func TestLookupByEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)
	_, err := svc.RegisterCustomer(ctx, CustomerInput{Email: "c@x.io", Name: "Cee"})
	require.NoError(t, err)

	c, err := svc.CustomerByEmail(ctx, "c@x.io")
	require.NoError(t, err)
	assert.Equal(t, "Cee", c.Name)

	_, err = svc.DriverByEmail(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	_, err = svc.CustomerByEmail(ctx, "")
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
}
