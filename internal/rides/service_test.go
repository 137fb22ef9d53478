package rides

import (
	"context"
	"testing"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pickup = marketplace.Coordinate{Lat: -6.2, Lng: 106.8}
	dest   = marketplace.Coordinate{Lat: -6.3, Lng: 106.9}
)

func newService(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	require.NoError(t, s.Repo().InsertCustomer(context.Background(), &marketplace.Customer{Email: "rider@x.io", Name: "Rider"}))
	return NewService(s, effects.Effects{}), s
}

func TestAcceptThenReject(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	rr, err := svc.CreateRideRequest(ctx, "rider@x.io", pickup, dest)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RidePending, rr.Status)

	rr, err = svc.Accept(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideAccepted, rr.Status)

	// a driver may still back out after accepting
	rr, err = svc.Reject(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideRejected, rr.Status)

	got, err := svc.Get(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideRejected, got.Status)
}

func TestTerminalStatesAreGuarded(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	rr, err := svc.CreateRideRequest(ctx, "rider@x.io", pickup, dest)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, rr.ID)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, rr.ID)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	again, err := svc.Reject(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideRejected, again.Status)
}

func TestAcceptIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	rr, err := svc.CreateRideRequest(ctx, "rider@x.io", pickup, dest)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, rr.ID)
	require.NoError(t, err)
	rr, err = svc.Accept(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideAccepted, rr.Status)
}

func TestCompleteRequiresAccepted(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	rr, err := svc.CreateRideRequest(ctx, "rider@x.io", pickup, dest)
	require.NoError(t, err)

	err = store.InTx(ctx, func(r marketplace.Repository) error { return Complete(ctx, r, rr.ID) })
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	_, err = svc.Accept(ctx, rr.ID)
	require.NoError(t, err)
	require.NoError(t, store.InTx(ctx, func(r marketplace.Repository) error { return Complete(ctx, r, rr.ID) }))

	got, err := svc.Get(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideCompleted, got.Status)
}

func TestCompleteLeavesWithdrawnRequestRejected(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	rr, err := svc.CreateRideRequest(ctx, "rider@x.io", pickup, dest)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, rr.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, rr.ID)
	require.NoError(t, err)

	require.NoError(t, store.InTx(ctx, func(r marketplace.Repository) error { return Complete(ctx, r, rr.ID) }))

	got, err := svc.Get(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideRejected, got.Status)
}

func TestIDValidationAndLookup(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Accept(ctx, 0)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
	_, err = svc.Accept(ctx, 77)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	_, err = svc.CreateRideRequest(ctx, "ghost@x.io", pickup, dest)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 77), marketplace.ErrNotFound)
}

func TestSearchAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	rr, err := svc.CreateRideRequest(ctx, "rider@x.io", pickup, dest)
	require.NoError(t, err)

	found, err := svc.Search(ctx, "rider@x.io", marketplace.RidePending)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = svc.Search(ctx, "ghost@x.io", "")
	require.NoError(t, err)
	assert.Empty(t, found)

	moved, err := svc.Update(ctx, rr.ID, UpdateInput{Pickup: dest, Destination: pickup})
	require.NoError(t, err)
	assert.Equal(t, dest, moved.Pickup)
	assert.Equal(t, marketplace.RidePending, moved.Status)

	pending, err := svc.ListByStatus(ctx, marketplace.RidePending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	require.NoError(t, svc.Delete(ctx, rr.ID))
	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
