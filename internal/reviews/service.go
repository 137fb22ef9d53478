package reviews

import (
	"context"
	"fmt"
	"time"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"go.uber.org/zap"
)

type Service struct {
	store marketplace.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store marketplace.Store, fx effects.Effects) *Service {
	return &Service{store: store, log: fx.Logger(), now: time.Now}
}

type CreateReviewInput struct {
	CustomerEmail string
	DriverEmail   string
	TripID        int64
	Rating        marketplace.Rating
	Message       string
}

// CreateReview allows one review per trip and customer. The trip is only
// read, never written.
func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (marketplace.Review, error) {
	if !in.Rating.Valid() {
		return marketplace.Review{}, marketplace.BadRequestf("rating must be between 1 and 5")
	}
	var rv marketplace.Review
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		customer, err := marketplace.ResolveCustomer(ctx, r, in.CustomerEmail)
		if err != nil {
			return err
		}
		driver, err := marketplace.ResolveDriver(ctx, r, in.DriverEmail)
		if err != nil {
			return err
		}
		trip, err := marketplace.ResolveTrip(ctx, r, in.TripID)
		if err != nil {
			return err
		}
		existing, err := r.ListReviews(ctx, marketplace.ReviewFilter{TripID: trip.ID, CustomerID: customer.ID})
		if err != nil {
			return fmt.Errorf("reviews by trip: %w", err)
		}
		if len(existing) > 0 {
			return marketplace.Conflictf("You have already reviewed this trip.")
		}
		rv = marketplace.Review{
			TripID:     trip.ID,
			CustomerID: customer.ID,
			DriverID:   driver.ID,
			Rating:     in.Rating,
			Message:    in.Message,
			CreatedAt:  s.now().UTC(),
		}
		return r.InsertReview(ctx, &rv)
	})
	if err != nil {
		return marketplace.Review{}, err
	}
	s.log.Info("review created", zap.Int64("review_id", rv.ID), zap.Int64("driver_id", rv.DriverID), zap.Int("rating", int(rv.Rating)))
	return rv, nil
}

// UpdateReview changes rating and message only.
func (s *Service) UpdateReview(ctx context.Context, id int64, rating marketplace.Rating, message string) (marketplace.Review, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Review{}, err
	}
	if !rating.Valid() {
		return marketplace.Review{}, marketplace.BadRequestf("rating must be between 1 and 5")
	}
	var rv marketplace.Review
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if rv, err = load(ctx, r, id); err != nil {
			return err
		}
		rv.Rating = rating
		rv.Message = message
		return r.UpdateReview(ctx, rv)
	})
	return rv, err
}

func (s *Service) DeleteReview(ctx context.Context, id int64) error {
	if err := marketplace.CheckID(id); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, err := load(ctx, r, id); err != nil {
			return err
		}
		return r.DeleteReview(ctx, id)
	})
}

func load(ctx context.Context, r marketplace.ReviewRepository, id int64) (marketplace.Review, error) {
	rv, ok, err := r.ReviewByID(ctx, id)
	if err != nil {
		return rv, fmt.Errorf("review by id: %w", err)
	}
	if !ok {
		return rv, marketplace.NotFoundf("Review with Id %d not found", id)
	}
	return rv, nil
}

func (s *Service) GetReview(ctx context.Context, id int64) (marketplace.Review, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Review{}, err
	}
	return load(ctx, s.store.Repo(), id)
}

func (s *Service) ListReviews(ctx context.Context) ([]marketplace.Review, error) {
	return s.store.Repo().ListReviews(ctx, marketplace.ReviewFilter{})
}

// DriverAverageRating is the mean rating of a driver, 0 when nobody has
// reviewed them yet. An email without a driver profile is NotFound.
func (s *Service) DriverAverageRating(ctx context.Context, driverEmail string) (float64, error) {
	if driverEmail == "" {
		return 0, marketplace.BadRequestf("Driver email is required")
	}
	repo := s.store.Repo()
	d, err := marketplace.ResolveDriver(ctx, repo, driverEmail)
	if err != nil {
		return 0, err
	}
	avg, n, err := repo.DriverRating(ctx, d.ID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return avg, nil
}

func (s *Service) DriverReviews(ctx context.Context, driverEmail string) ([]marketplace.Review, error) {
	repo := s.store.Repo()
	d, err := marketplace.ResolveDriver(ctx, repo, driverEmail)
	if err != nil {
		return nil, err
	}
	return repo.ListReviews(ctx, marketplace.ReviewFilter{DriverID: d.ID})
}

func (s *Service) CustomerReviews(ctx context.Context, customerEmail string) ([]marketplace.Review, error) {
	repo := s.store.Repo()
	c, err := marketplace.ResolveCustomer(ctx, repo, customerEmail)
	if err != nil {
		return nil, err
	}
	return repo.ListReviews(ctx, marketplace.ReviewFilter{CustomerID: c.ID})
}

func (s *Service) DriverReviewCount(ctx context.Context, driverEmail string) (int, error) {
	out, err := s.DriverReviews(ctx, driverEmail)
	return len(out), err
}

func (s *Service) CustomerReviewCount(ctx context.Context, customerEmail string) (int, error) {
	out, err := s.CustomerReviews(ctx, customerEmail)
	return len(out), err
}

// RecentReviews returns the newest n reviews.
func (s *Service) RecentReviews(ctx context.Context, n int) ([]marketplace.Review, error) {
	if n <= 0 {
		return nil, marketplace.BadRequestf("Count must be greater than 0.")
	}
	return s.store.Repo().ListReviews(ctx, marketplace.ReviewFilter{Limit: n})
}
