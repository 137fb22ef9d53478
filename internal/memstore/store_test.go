package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ marketplace.Store = (*Store)(nil)

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := marketplace.Item{Name: "Soap", Price: decimal.NewFromInt(3), Quantity: 5}
	require.NoError(t, s.Repo().InsertItem(ctx, &it))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(r marketplace.Repository) error {
		_, ok, err := r.AdjustItemQuantity(ctx, it.ID, -2)
		require.NoError(t, err)
		require.True(t, ok)
		o := marketplace.Order{ItemID: it.ID, TotalAmount: 2}
		require.NoError(t, r.InsertOrder(ctx, &o))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, ok, err := s.Repo().ItemByID(ctx, it.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, got.Quantity)

	all, err := s.Repo().ListOrders(ctx, marketplace.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdjustItemQuantityFloor(t *testing.T) {
	ctx := context.Background()
	s := New()
	it := marketplace.Item{Name: "Rice", Price: decimal.NewFromInt(1), Quantity: 3}
	require.NoError(t, s.Repo().InsertItem(ctx, &it))

	qty, ok, err := s.Repo().AdjustItemQuantity(ctx, it.ID, -4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, qty)

	qty, ok, err = s.Repo().AdjustItemQuantity(ctx, it.ID, -3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, qty)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	r := New().Repo()

	require.NoError(t, r.InsertCustomer(ctx, &marketplace.Customer{Email: "a@x.io", Name: "A"}))
	err := r.InsertCustomer(ctx, &marketplace.Customer{Email: "A@x.io", Name: "A2"})
	assert.ErrorIs(t, err, marketplace.ErrConflict)

	require.NoError(t, r.InsertPayment(ctx, &marketplace.Payment{TripID: 1}))
	assert.ErrorIs(t, r.InsertPayment(ctx, &marketplace.Payment{TripID: 1}), marketplace.ErrConflict)

	require.NoError(t, r.InsertReview(ctx, &marketplace.Review{TripID: 1, CustomerID: 2, Rating: marketplace.FourStars}))
	assert.ErrorIs(t, r.InsertReview(ctx, &marketplace.Review{TripID: 1, CustomerID: 2, Rating: marketplace.OneStar}), marketplace.ErrConflict)
}

func TestListReviewsNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := New().Repo()
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, r.InsertReview(ctx, &marketplace.Review{TripID: i, CustomerID: 1, DriverID: 9, Rating: marketplace.FiveStars}))
	}
	got, err := r.ListReviews(ctx, marketplace.ReviewFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)

	avg, n, err := r.DriverRating(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 5.0, avg)
}
