package trips

import (
	"context"
	"testing"
	"time"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/effects/effectstest"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/ridemarket/marketplace/internal/rides"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func details() Details {
	return Details{
		StartTime:   start,
		EndTime:     start.Add(25 * time.Minute),
		DistanceKm:  7.5,
		DurationMin: 25,
		TotalCost:   decimal.RequireFromString("42000"),
	}
}

type fixture struct {
	store *memstore.Store
	svc   *Service
	rec   *effectstest.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	r := s.Repo()
	require.NoError(t, r.InsertDriver(ctx, &marketplace.DriverProfile{Email: "driver@x.io", VehicleType: "Car", PlateNumber: "B1234", Status: marketplace.DriverActive}))
	require.NoError(t, r.InsertCustomer(ctx, &marketplace.Customer{Email: "rider@x.io"}))
	rec := &effectstest.Recorder{}
	return fixture{store: s, svc: NewService(s, rec.Effects()), rec: rec}
}

func (f fixture) rideRequest(t *testing.T, status marketplace.RideRequestStatus) int64 {
	t.Helper()
	rr := marketplace.RideRequest{RiderID: 1, Status: status}
	require.NoError(t, f.store.Repo().InsertRideRequest(context.Background(), &rr))
	return rr.ID
}

func input() CreateTripInput {
	return CreateTripInput{DriverEmail: "driver@x.io", RiderEmail: "rider@x.io", Details: details()}
}

func TestCreateTripNotifiesDriver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rrID := f.rideRequest(t, marketplace.RideAccepted)

	in := input()
	in.RideRequestID = &rrID
	trip, err := f.svc.CreateTrip(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TripRequested, trip.Status)
	require.NotNil(t, trip.RideRequestID)
	assert.Equal(t, rrID, *trip.RideRequestID)

	require.Len(t, f.rec.Calls, 1)
	call := f.rec.Calls[0]
	assert.False(t, call.Group)
	assert.Equal(t, "driver@x.io", call.Target)
	assert.Equal(t, marketplace.EventNewTrip, call.Event)
	assert.Equal(t, newTripPayload{TripID: trip.ID, ReferenceID: rrID}, call.Payload)
	assert.Contains(t, f.rec.Evicted, "AllTrips")
}

func TestCreateTripResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := input()
	in.DriverEmail = "ghost@x.io"
	_, err := f.svc.CreateTrip(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	in = input()
	in.RiderEmail = "ghost@x.io"
	_, err = f.svc.CreateTrip(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	missing := int64(404)
	in = input()
	in.OrderID = &missing
	_, err = f.svc.CreateTrip(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	in = input()
	in.RideRequestID = &missing
	_, err = f.svc.CreateTrip(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	rr := f.rideRequest(t, marketplace.RideAccepted)
	one := int64(1)
	in = input()
	in.RideRequestID, in.OrderID = &rr, &one
	_, err = f.svc.CreateTrip(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	pending := f.rideRequest(t, marketplace.RidePending)
	in = input()
	in.RideRequestID = &pending
	_, err = f.svc.CreateTrip(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	trips, err := f.svc.ListTrips(ctx)
	require.NoError(t, err)
	assert.Empty(t, trips)
	assert.Empty(t, f.rec.Calls)
}

func TestCreateTripValidatesDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for name, mutate := range map[string]func(*Details){
		"zero distance":  func(d *Details) { d.DistanceKm = 0 },
		"long duration":  func(d *Details) { d.DurationMin = 1441 },
		"zero duration":  func(d *Details) { d.DurationMin = 0 },
		"free trip":      func(d *Details) { d.TotalCost = decimal.Zero },
		"ends too early": func(d *Details) { d.EndTime = d.StartTime },
	} {
		in := input()
		mutate(&in.Details)
		_, err := f.svc.CreateTrip(ctx, in)
		assert.ErrorIs(t, err, marketplace.ErrBadRequest, name)
	}
}

func TestOrderTripReferencesOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := marketplace.Order{CustomerID: 1, TotalAmount: 1}
	require.NoError(t, f.store.Repo().InsertOrder(ctx, &o))

	in := input()
	in.OrderID = &o.ID
	trip, err := f.svc.CreateTrip(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, o.ID, f.rec.Calls[0].Payload.(newTripPayload).ReferenceID)
	assert.Nil(t, trip.RideRequestID)
}

func TestTripStatusMachine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rrID := f.rideRequest(t, marketplace.RideAccepted)
	in := input()
	in.RideRequestID = &rrID
	trip, err := f.svc.CreateTrip(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.UpdateTripStatus(ctx, trip.ID, marketplace.TripCompleted)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	trip, err = f.svc.UpdateTripStatus(ctx, trip.ID, marketplace.TripOngoing)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TripOngoing, trip.Status)

	trip, err = f.svc.UpdateTripStatus(ctx, trip.ID, marketplace.TripCompleted)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TripCompleted, trip.Status)

	rr, _, err := f.store.Repo().RideRequestByID(ctx, rrID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideCompleted, rr.Status)

	_, err = f.svc.UpdateTripStatus(ctx, trip.ID, marketplace.TripCanceled)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	_, err = f.svc.UpdateTripStatus(ctx, trip.ID, "TELEPORTED")
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
	_, err = f.svc.UpdateTripStatus(ctx, 999, marketplace.TripOngoing)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}

func TestTripCompletesAfterRiderWithdrawsRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	matcher := rides.NewService(f.store, effects.Effects{})

	rr, err := matcher.CreateRideRequest(ctx, "rider@x.io", marketplace.Coordinate{Lat: -6.2, Lng: 106.8}, marketplace.Coordinate{Lat: -6.3, Lng: 106.9})
	require.NoError(t, err)
	_, err = matcher.Accept(ctx, rr.ID)
	require.NoError(t, err)

	in := input()
	in.RideRequestID = &rr.ID
	trip, err := f.svc.CreateTrip(ctx, in)
	require.NoError(t, err)

	_, err = matcher.Cancel(ctx, rr.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateTripStatus(ctx, trip.ID, marketplace.TripOngoing)
	require.NoError(t, err)
	trip, err = f.svc.UpdateTripStatus(ctx, trip.ID, marketplace.TripCompleted)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TripCompleted, trip.Status)

	got, err := f.svc.GetTrip(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TripCompleted, got.Status)

	withdrawn, err := matcher.Get(ctx, rr.ID)
	require.NoError(t, err)
	assert.Equal(t, marketplace.RideRejected, withdrawn.Status)
}

func TestCancelFromRequested(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	trip, err := f.svc.CreateTrip(ctx, input())
	require.NoError(t, err)

	trip, err = f.svc.UpdateTripStatus(ctx, trip.ID, marketplace.TripCanceled)
	require.NoError(t, err)
	assert.Equal(t, marketplace.TripCanceled, trip.Status)
}

func TestUpdateTripAndQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	trip, err := f.svc.CreateTrip(ctx, input())
	require.NoError(t, err)

	d := details()
	d.DistanceKm = 9
	got, err := f.svc.UpdateTrip(ctx, trip.ID, UpdateTripInput{Status: marketplace.TripOngoing, Details: d})
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.DistanceKm)
	assert.Equal(t, marketplace.TripOngoing, got.Status)

	byDriver, err := f.svc.TripsByDriver(ctx, "driver@x.io")
	require.NoError(t, err)
	assert.Len(t, byDriver, 1)
	_, err = f.svc.TripsByDriver(ctx, "ghost@x.io")
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	found, err := f.svc.SearchTrips(ctx, "", "rider@x.io", marketplace.TripOngoing)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, f.svc.DeleteTrip(ctx, trip.ID))
	_, err = f.svc.GetTrip(ctx, trip.ID)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}
