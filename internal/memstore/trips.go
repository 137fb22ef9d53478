package memstore

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func rideRequests(st *state) *table[marketplace.RideRequest] { return st.rideRequests }
func trips(st *state) *table[marketplace.Trip]               { return st.trips }
func deliveries(st *state) *table[marketplace.Delivery]      { return st.deliveries }

func (r *repo) RideRequestByID(ctx context.Context, id int64) (marketplace.RideRequest, bool, error) {
	return lookup(ctx, r, rideRequests, id)
}

func (r *repo) InsertRideRequest(ctx context.Context, rr *marketplace.RideRequest) error {
	return r.with(ctx, func(st *state) error {
		rr.ID = st.rideRequests.nextID()
		st.rideRequests.put(rr.ID, *rr)
		return nil
	})
}

func (r *repo) UpdateRideRequest(ctx context.Context, rr marketplace.RideRequest) error {
	return replace(ctx, r, rideRequests, "RideRequest", rr.ID, rr)
}

func (r *repo) DeleteRideRequest(ctx context.Context, id int64) error {
	return remove(ctx, r, rideRequests, "RideRequest", id)
}

func (r *repo) ListRideRequests(ctx context.Context, f marketplace.RideRequestFilter) ([]marketplace.RideRequest, error) {
	return list(ctx, r, rideRequests, func(rr marketplace.RideRequest) bool {
		return eqOrAny(f.RiderID, rr.RiderID) && eqOrAny(f.Status, rr.Status)
	})
}

func (r *repo) TripByID(ctx context.Context, id int64) (marketplace.Trip, bool, error) {
	return lookup(ctx, r, trips, id)
}

func (r *repo) InsertTrip(ctx context.Context, t *marketplace.Trip) error {
	return r.with(ctx, func(st *state) error {
		t.ID = st.trips.nextID()
		st.trips.put(t.ID, *t)
		return nil
	})
}

func (r *repo) UpdateTrip(ctx context.Context, t marketplace.Trip) error {
	return replace(ctx, r, trips, "Trip", t.ID, t)
}

func (r *repo) DeleteTrip(ctx context.Context, id int64) error {
	return remove(ctx, r, trips, "Trip", id)
}

func (r *repo) ListTrips(ctx context.Context, f marketplace.TripFilter) ([]marketplace.Trip, error) {
	return list(ctx, r, trips, func(t marketplace.Trip) bool {
		return eqOrAny(f.DriverID, t.DriverID) && eqOrAny(f.RiderID, t.RiderID) && eqOrAny(f.Status, t.Status)
	})
}

func (r *repo) DeliveryByID(ctx context.Context, id int64) (marketplace.Delivery, bool, error) {
	return lookup(ctx, r, deliveries, id)
}

func (r *repo) InsertDelivery(ctx context.Context, d *marketplace.Delivery) error {
	return r.with(ctx, func(st *state) error {
		d.ID = st.deliveries.nextID()
		st.deliveries.put(d.ID, *d)
		return nil
	})
}

func (r *repo) UpdateDelivery(ctx context.Context, d marketplace.Delivery) error {
	return replace(ctx, r, deliveries, "Delivery", d.ID, d)
}

func (r *repo) DeleteDelivery(ctx context.Context, id int64) error {
	return remove(ctx, r, deliveries, "Delivery", id)
}

func (r *repo) ListDeliveries(ctx context.Context, f marketplace.DeliveryFilter) ([]marketplace.Delivery, error) {
	return list(ctx, r, deliveries, func(d marketplace.Delivery) bool {
		return eqOrAny(f.DriverID, d.DriverID) && eqOrAny(f.TripID, d.TripID) && eqOrAny(f.Status, d.Status)
	})
}
