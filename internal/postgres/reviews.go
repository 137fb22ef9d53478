package postgres

import (
	"context"
	"fmt"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

const reviewCols = `id, trip_id, customer_id, driver_id, rating, message, created_at`

func scanReview(s scanner) (marketplace.Review, error) {
	var rv marketplace.Review
	err := s.Scan(&rv.ID, &rv.TripID, &rv.CustomerID, &rv.DriverID, &rv.Rating, &rv.Message, &rv.CreatedAt)
	return rv, err
}

func (r *repo) ReviewByID(ctx context.Context, id int64) (marketplace.Review, bool, error) {
	return one(ctx, r.q, scanReview, `SELECT `+reviewCols+` FROM reviews WHERE id = $1`, id)
}

func (r *repo) InsertReview(ctx context.Context, rv *marketplace.Review) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO reviews (trip_id, customer_id, driver_id, rating, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		rv.TripID, rv.CustomerID, rv.DriverID, rv.Rating, rv.Message, rv.CreatedAt,
	).Scan(&rv.ID)
	return mapErr(err)
}

func (r *repo) UpdateReview(ctx context.Context, rv marketplace.Review) error {
	return exec(ctx, r.q, "Review", rv.ID, `
		UPDATE reviews SET trip_id = $2, customer_id = $3, driver_id = $4, rating = $5, message = $6
		WHERE id = $1`,
		rv.ID, rv.TripID, rv.CustomerID, rv.DriverID, rv.Rating, rv.Message)
}

func (r *repo) DeleteReview(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "Review", id, `DELETE FROM reviews WHERE id = $1`, id)
}

func (r *repo) ListReviews(ctx context.Context, f marketplace.ReviewFilter) ([]marketplace.Review, error) {
	var w where
	w.eq("driver_id", f.DriverID, f.DriverID > 0)
	w.eq("customer_id", f.CustomerID, f.CustomerID > 0)
	w.eq("trip_id", f.TripID, f.TripID > 0)
	q := `SELECT ` + reviewCols + ` FROM reviews` + w.String()
	if f.Limit > 0 {
		q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, f.Limit)
	} else {
		q += ` ORDER BY id`
	}
	return many(ctx, r.q, scanReview, q, w.args...)
}

func (r *repo) DriverRating(ctx context.Context, driverID int64) (float64, int, error) {
	var (
		avg   float64
		count int
	)
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews WHERE driver_id = $1`, driverID,
	).Scan(&avg, &count)
	return avg, count, err
}

const complaintCols = `id, trip_id, from_user_id, against_user_id, message, is_resolved`

func scanComplaint(s scanner) (marketplace.Complaint, error) {
	var c marketplace.Complaint
	err := s.Scan(&c.ID, &c.TripID, &c.FromUserID, &c.AgainstUserID, &c.Message, &c.IsResolved)
	return c, err
}

func (r *repo) ComplaintByID(ctx context.Context, id int64) (marketplace.Complaint, bool, error) {
	return one(ctx, r.q, scanComplaint, `SELECT `+complaintCols+` FROM complaints WHERE id = $1`, id)
}

func (r *repo) InsertComplaint(ctx context.Context, c *marketplace.Complaint) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO complaints (trip_id, from_user_id, against_user_id, message, is_resolved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.TripID, c.FromUserID, c.AgainstUserID, c.Message, c.IsResolved,
	).Scan(&c.ID)
	return mapErr(err)
}

func (r *repo) UpdateComplaint(ctx context.Context, c marketplace.Complaint) error {
	return exec(ctx, r.q, "Complaint", c.ID, `
		UPDATE complaints
		SET trip_id = $2, from_user_id = $3, against_user_id = $4, message = $5, is_resolved = $6
		WHERE id = $1`,
		c.ID, c.TripID, c.FromUserID, c.AgainstUserID, c.Message, c.IsResolved)
}

func (r *repo) DeleteComplaint(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "Complaint", id, `DELETE FROM complaints WHERE id = $1`, id)
}

func (r *repo) ListComplaints(ctx context.Context, f marketplace.ComplaintFilter) ([]marketplace.Complaint, error) {
	var w where
	w.eq("from_user_id", f.FromUserID, f.FromUserID > 0)
	w.eq("against_user_id", f.AgainstUserID, f.AgainstUserID > 0)
	w.eq("trip_id", f.TripID, f.TripID > 0)
	if f.IsResolved != nil {
		w.eq("is_resolved", *f.IsResolved, true)
	}
	return many(ctx, r.q, scanComplaint, `SELECT `+complaintCols+` FROM complaints`+w.String()+` ORDER BY id`, w.args...)
}
