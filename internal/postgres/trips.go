package postgres

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

const rideRequestCols = `id, rider_id, pickup_lat, pickup_lng, dest_lat, dest_lng, status, created_at`

func scanRideRequest(s scanner) (marketplace.RideRequest, error) {
	var rr marketplace.RideRequest
	err := s.Scan(&rr.ID, &rr.RiderID,
		&rr.Pickup.Lat, &rr.Pickup.Lng, &rr.Destination.Lat, &rr.Destination.Lng,
		&rr.Status, &rr.CreatedAt)
	return rr, err
}

func (r *repo) RideRequestByID(ctx context.Context, id int64) (marketplace.RideRequest, bool, error) {
	return one(ctx, r.q, scanRideRequest, `SELECT `+rideRequestCols+` FROM ride_requests WHERE id = $1`, id)
}

func (r *repo) InsertRideRequest(ctx context.Context, rr *marketplace.RideRequest) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO ride_requests (rider_id, pickup_lat, pickup_lng, dest_lat, dest_lng, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rr.RiderID, rr.Pickup.Lat, rr.Pickup.Lng, rr.Destination.Lat, rr.Destination.Lng, rr.Status, rr.CreatedAt,
	).Scan(&rr.ID)
	return mapErr(err)
}

func (r *repo) UpdateRideRequest(ctx context.Context, rr marketplace.RideRequest) error {
	return exec(ctx, r.q, "RideRequest", rr.ID, `
		UPDATE ride_requests
		SET rider_id = $2, pickup_lat = $3, pickup_lng = $4, dest_lat = $5, dest_lng = $6, status = $7
		WHERE id = $1`,
		rr.ID, rr.RiderID, rr.Pickup.Lat, rr.Pickup.Lng, rr.Destination.Lat, rr.Destination.Lng, rr.Status)
}

func (r *repo) DeleteRideRequest(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "RideRequest", id, `DELETE FROM ride_requests WHERE id = $1`, id)
}

func (r *repo) ListRideRequests(ctx context.Context, f marketplace.RideRequestFilter) ([]marketplace.RideRequest, error) {
	var w where
	w.eq("rider_id", f.RiderID, f.RiderID > 0)
	w.eq("status", f.Status, f.Status != "")
	return many(ctx, r.q, scanRideRequest, `SELECT `+rideRequestCols+` FROM ride_requests`+w.String()+` ORDER BY id`, w.args...)
}

const tripCols = `id, driver_id, rider_id, start_time, end_time, distance_km, duration_min,
	total_cost, status, car_image_path, ride_request_id, order_id`

func scanTrip(s scanner) (marketplace.Trip, error) {
	var t marketplace.Trip
	err := s.Scan(&t.ID, &t.DriverID, &t.RiderID, &t.StartTime, &t.EndTime, &t.DistanceKm, &t.DurationMin,
		&t.TotalCost, &t.Status, &t.CarImagePath, &t.RideRequestID, &t.OrderID)
	return t, err
}

func (r *repo) TripByID(ctx context.Context, id int64) (marketplace.Trip, bool, error) {
	return one(ctx, r.q, scanTrip, `SELECT `+tripCols+` FROM trips WHERE id = $1`, id)
}

func (r *repo) InsertTrip(ctx context.Context, t *marketplace.Trip) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO trips (driver_id, rider_id, start_time, end_time, distance_km, duration_min,
			total_cost, status, car_image_path, ride_request_id, order_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		t.DriverID, t.RiderID, t.StartTime, t.EndTime, t.DistanceKm, t.DurationMin,
		t.TotalCost, t.Status, t.CarImagePath, t.RideRequestID, t.OrderID,
	).Scan(&t.ID)
	return mapErr(err)
}

func (r *repo) UpdateTrip(ctx context.Context, t marketplace.Trip) error {
	return exec(ctx, r.q, "Trip", t.ID, `
		UPDATE trips
		SET driver_id = $2, rider_id = $3, start_time = $4, end_time = $5, distance_km = $6,
			duration_min = $7, total_cost = $8, status = $9, car_image_path = $10,
			ride_request_id = $11, order_id = $12
		WHERE id = $1`,
		t.ID, t.DriverID, t.RiderID, t.StartTime, t.EndTime, t.DistanceKm,
		t.DurationMin, t.TotalCost, t.Status, t.CarImagePath, t.RideRequestID, t.OrderID)
}

func (r *repo) DeleteTrip(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "Trip", id, `DELETE FROM trips WHERE id = $1`, id)
}

func (r *repo) ListTrips(ctx context.Context, f marketplace.TripFilter) ([]marketplace.Trip, error) {
	var w where
	w.eq("driver_id", f.DriverID, f.DriverID > 0)
	w.eq("rider_id", f.RiderID, f.RiderID > 0)
	w.eq("status", f.Status, f.Status != "")
	return many(ctx, r.q, scanTrip, `SELECT `+tripCols+` FROM trips`+w.String()+` ORDER BY id`, w.args...)
}

const deliveryCols = `id, driver_id, trip_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, status`

func scanDelivery(s scanner) (marketplace.Delivery, error) {
	var d marketplace.Delivery
	err := s.Scan(&d.ID, &d.DriverID, &d.TripID,
		&d.Pickup.Lat, &d.Pickup.Lng, &d.Dropoff.Lat, &d.Dropoff.Lng, &d.Status)
	return d, err
}

func (r *repo) DeliveryByID(ctx context.Context, id int64) (marketplace.Delivery, bool, error) {
	return one(ctx, r.q, scanDelivery, `SELECT `+deliveryCols+` FROM deliveries WHERE id = $1`, id)
}

func (r *repo) InsertDelivery(ctx context.Context, d *marketplace.Delivery) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO deliveries (driver_id, trip_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		d.DriverID, d.TripID, d.Pickup.Lat, d.Pickup.Lng, d.Dropoff.Lat, d.Dropoff.Lng, d.Status,
	).Scan(&d.ID)
	return mapErr(err)
}

func (r *repo) UpdateDelivery(ctx context.Context, d marketplace.Delivery) error {
	return exec(ctx, r.q, "Delivery", d.ID, `
		UPDATE deliveries
		SET driver_id = $2, trip_id = $3, pickup_lat = $4, pickup_lng = $5,
			dropoff_lat = $6, dropoff_lng = $7, status = $8
		WHERE id = $1`,
		d.ID, d.DriverID, d.TripID, d.Pickup.Lat, d.Pickup.Lng, d.Dropoff.Lat, d.Dropoff.Lng, d.Status)
}

func (r *repo) DeleteDelivery(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "Delivery", id, `DELETE FROM deliveries WHERE id = $1`, id)
}

func (r *repo) ListDeliveries(ctx context.Context, f marketplace.DeliveryFilter) ([]marketplace.Delivery, error) {
	var w where
	w.eq("driver_id", f.DriverID, f.DriverID > 0)
	w.eq("trip_id", f.TripID, f.TripID > 0)
	w.eq("status", f.Status, f.Status != "")
	return many(ctx, r.q, scanDelivery, `SELECT `+deliveryCols+` FROM deliveries`+w.String()+` ORDER BY id`, w.args...)
}
