package reviews

import (
	"context"
	"testing"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T, trips int) (*Service, *memstore.Store) {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	r := s.Repo()
	require.NoError(t, r.InsertDriver(ctx, &marketplace.DriverProfile{Email: "driver@x.io"}))
	require.NoError(t, r.InsertDriver(ctx, &marketplace.DriverProfile{Email: "fresh@x.io"}))
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		require.NoError(t, r.InsertCustomer(ctx, &marketplace.Customer{Email: e}))
	}
	for i := 0; i < trips; i++ {
		require.NoError(t, r.InsertTrip(ctx, &marketplace.Trip{DriverID: 1, RiderID: 1, Status: marketplace.TripCompleted}))
	}
	return NewService(s, effects.Effects{}), s
}

func review(customer string, trip int64, rating marketplace.Rating) CreateReviewInput {
	return CreateReviewInput{CustomerEmail: customer, DriverEmail: "driver@x.io", TripID: trip, Rating: rating, Message: "ok"}
}

func TestOneReviewPerTripAndCustomer(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 1)

	_, err := svc.CreateReview(ctx, review("a@x.io", 1, marketplace.FiveStars))
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, review("a@x.io", 1, marketplace.OneStar))
	require.Error(t, err)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
	assert.Equal(t, "You have already reviewed this trip.", err.Error())

	// another customer on the same trip is fine
	_, err = svc.CreateReview(ctx, review("b@x.io", 1, marketplace.FourStars))
	require.NoError(t, err)

	all, err := svc.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, marketplace.FiveStars, all[0].Rating)
}

func TestDriverAverageRating(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 3)

	avg, err := svc.DriverAverageRating(ctx, "fresh@x.io")
	require.NoError(t, err)
	assert.Zero(t, avg)

	for i, rating := range []marketplace.Rating{3, 5, 4} {
		_, err := svc.CreateReview(ctx, review("a@x.io", int64(i+1), rating))
		require.NoError(t, err)
	}
	avg, err = svc.DriverAverageRating(ctx, "driver@x.io")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)

	_, err = svc.DriverAverageRating(ctx, "ghost@x.io")
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	_, err = svc.DriverAverageRating(ctx, "")
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
}

func TestCreateReviewLeavesTripUntouched(t *testing.T) {
	ctx := context.Background()
	svc, s := newFixture(t, 1)
	before, _, err := s.Repo().TripByID(ctx, 1)
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, review("c@x.io", 1, marketplace.TwoStars))
	require.NoError(t, err)

	after, _, err := s.Repo().TripByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateReviewValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 1)

	_, err := svc.CreateReview(ctx, review("a@x.io", 1, 0))
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
	_, err = svc.CreateReview(ctx, review("ghost@x.io", 1, 3))
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	_, err = svc.CreateReview(ctx, review("a@x.io", 9, 3))
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}

func TestUpdateCountsAndRecent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newFixture(t, 2)
	first, err := svc.CreateReview(ctx, review("a@x.io", 1, 2))
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, review("a@x.io", 2, 4))
	require.NoError(t, err)

	updated, err := svc.UpdateReview(ctx, first.ID, marketplace.FiveStars, "better")
	require.NoError(t, err)
	assert.Equal(t, "better", updated.Message)
	assert.Equal(t, first.TripID, updated.TripID)

	n, err := svc.DriverReviewCount(ctx, "driver@x.io")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = svc.CustomerReviewCount(ctx, "b@x.io")
	require.NoError(t, err)
	assert.Zero(t, n)

	recent, err := svc.RecentReviews(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	for _, bad := range []int{0, -3} {
		_, err = svc.RecentReviews(ctx, bad)
		require.ErrorIs(t, err, marketplace.ErrBadRequest)
		assert.Equal(t, "Count must be greater than 0.", err.Error())
	}

	require.NoError(t, svc.DeleteReview(ctx, first.ID))
	_, err = svc.GetReview(ctx, first.ID)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}
