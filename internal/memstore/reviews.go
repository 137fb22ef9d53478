package memstore

import (
	"context"
	"slices"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func reviews(st *state) *table[marketplace.Review]       { return st.reviews }
func complaints(st *state) *table[marketplace.Complaint] { return st.complaints }

func (r *repo) ReviewByID(ctx context.Context, id int64) (marketplace.Review, bool, error) {
	return lookup(ctx, r, reviews, id)
}

func (r *repo) InsertReview(ctx context.Context, rv *marketplace.Review) error {
	return r.with(ctx, func(st *state) error {
		_, dup := st.reviews.first(func(x marketplace.Review) bool {
			return x.TripID == rv.TripID && x.CustomerID == rv.CustomerID
		})
		if dup {
			return marketplace.Conflictf("You have already reviewed this trip.")
		}
		rv.ID = st.reviews.nextID()
		st.reviews.put(rv.ID, *rv)
		return nil
	})
}

func (r *repo) UpdateReview(ctx context.Context, rv marketplace.Review) error {
	return replace(ctx, r, reviews, "Review", rv.ID, rv)
}

func (r *repo) DeleteReview(ctx context.Context, id int64) error {
	return remove(ctx, r, reviews, "Review", id)
}

func (r *repo) ListReviews(ctx context.Context, f marketplace.ReviewFilter) ([]marketplace.Review, error) {
	out, err := list(ctx, r, reviews, func(rv marketplace.Review) bool {
		return eqOrAny(f.DriverID, rv.DriverID) && eqOrAny(f.CustomerID, rv.CustomerID) && eqOrAny(f.TripID, rv.TripID)
	})
	if err != nil || f.Limit <= 0 {
		return out, err
	}
	slices.SortStableFunc(out, func(a, b marketplace.Review) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *repo) DriverRating(ctx context.Context, driverID int64) (avg float64, count int, err error) {
	err = r.with(ctx, func(st *state) error {
		sum := 0
		for _, rv := range st.reviews.filter(func(rv marketplace.Review) bool { return rv.DriverID == driverID }) {
			sum += int(rv.Rating)
			count++
		}
		if count > 0 {
			avg = float64(sum) / float64(count)
		}
		return nil
	})
	return avg, count, err
}

func (r *repo) ComplaintByID(ctx context.Context, id int64) (marketplace.Complaint, bool, error) {
	return lookup(ctx, r, complaints, id)
}

func (r *repo) InsertComplaint(ctx context.Context, c *marketplace.Complaint) error {
	return r.with(ctx, func(st *state) error {
		c.ID = st.complaints.nextID()
		st.complaints.put(c.ID, *c)
		return nil
	})
}

func (r *repo) UpdateComplaint(ctx context.Context, c marketplace.Complaint) error {
	return replace(ctx, r, complaints, "Complaint", c.ID, c)
}

func (r *repo) DeleteComplaint(ctx context.Context, id int64) error {
	return remove(ctx, r, complaints, "Complaint", id)
}

func (r *repo) ListComplaints(ctx context.Context, f marketplace.ComplaintFilter) ([]marketplace.Complaint, error) {
	return list(ctx, r, complaints, func(c marketplace.Complaint) bool {
		return eqOrAny(f.FromUserID, c.FromUserID) &&
			eqOrAny(f.AgainstUserID, c.AgainstUserID) &&
			eqOrAny(f.TripID, c.TripID) &&
			(f.IsResolved == nil || *f.IsResolved == c.IsResolved)
	})
}
