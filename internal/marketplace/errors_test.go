package marketplace

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	nf := NotFoundf("Trip with Id %d not found", 7)
	assert.True(t, errors.Is(nf, ErrNotFound))
	assert.False(t, errors.Is(nf, ErrBadRequest))
	assert.Equal(t, "Trip with Id 7 not found", nf.Error())

	conflict := fmt.Errorf("insert: %w", Conflictf("already reviewed"))
	assert.True(t, errors.Is(conflict, ErrConflict))
	assert.True(t, errors.Is(conflict, ErrBadRequest))
	assert.False(t, errors.Is(conflict, ErrNotFound))

	assert.Error(t, CheckID(0))
	assert.Error(t, CheckID(-3))
	assert.NoError(t, CheckID(1))
}

func TestTripTransitions(t *testing.T) {
	cases := []struct {
		from, to TripStatus
		ok       bool
	}{
		{TripRequested, TripOngoing, true},
		{TripOngoing, TripCompleted, true},
		{TripRequested, TripCanceled, true},
		{TripOngoing, TripCanceled, true},
		{TripRequested, TripCompleted, false},
		{TripCompleted, TripOngoing, false},
		{TripCanceled, TripRequested, false},
		{TripCompleted, TripCanceled, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransitionTrip(c.from, c.to), "%s -> %s", c.from, c.to)
	}
	assert.False(t, TripStatus("PAUSED").Valid())
}

func TestRideTransitions(t *testing.T) {
	assert.True(t, CanTransitionRide(RidePending, RideAccepted))
	assert.True(t, CanTransitionRide(RideAccepted, RideRejected))
	assert.True(t, CanTransitionRide(RideAccepted, RideCompleted))
	assert.False(t, CanTransitionRide(RideRejected, RideAccepted))
	assert.False(t, CanTransitionRide(RidePending, RideCompleted))
}

func TestDeliveryTransitions(t *testing.T) {
	assert.True(t, CanTransitionDelivery(DeliveryPending, DeliveryPickedUp))
	assert.True(t, CanTransitionDelivery(DeliveryInTransit, DeliveryDelivered))
	assert.True(t, CanTransitionDelivery(DeliveryPickedUp, DeliveryCanceled))
	assert.False(t, CanTransitionDelivery(DeliveryPending, DeliveryDelivered))
	assert.False(t, CanTransitionDelivery(DeliveryDelivered, DeliveryCanceled))
}

func TestRatingValid(t *testing.T) {
	assert.False(t, Rating(0).Valid())
	assert.True(t, ThreeStars.Valid())
	assert.False(t, Rating(6).Valid())
}
