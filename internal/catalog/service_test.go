package catalog

import (
	"context"
	"testing"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	require.NoError(t, s.Repo().InsertMerchant(context.Background(), &marketplace.Merchant{Email: "shop@x.io", Name: "Shop"}))
	return NewService(s, nil), s
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.CreateCategory(ctx, "Drinks")
	require.NoError(t, err)

	it, err := svc.CreateItem(ctx, ItemInput{
		Name: "Cola", Price: decimal.RequireFromString("1.50"), Quantity: 10,
		CategoryName: "Drinks", MerchantEmail: "shop@x.io",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, it.Quantity)
	assert.True(t, it.Price.Equal(decimal.RequireFromString("1.5")))

	byMerchant, err := svc.ItemsByMerchant(ctx, "shop@x.io")
	require.NoError(t, err)
	assert.Len(t, byMerchant, 1)

	withItems, err := svc.CategoryWithItems(ctx, it.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", withItems.Name)
	assert.Len(t, withItems.Items, 1)
}

func TestCreateItemValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.CreateCategory(ctx, "Drinks")
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Free", Price: decimal.Zero, CategoryName: "Drinks", MerchantEmail: "shop@x.io"})
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Neg", Price: decimal.NewFromInt(1), Quantity: -1, CategoryName: "Drinks", MerchantEmail: "shop@x.io"})
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Tea", Price: decimal.NewFromInt(1), CategoryName: "Food", MerchantEmail: "shop@x.io"})
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	_, err = svc.CreateItem(ctx, ItemInput{Name: "Tea", Price: decimal.NewFromInt(1), CategoryName: "Drinks", MerchantEmail: "ghost@x.io"})
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}

func TestCategoryUnique(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.CreateCategory(ctx, "Food")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, "Food")
	assert.ErrorIs(t, err, marketplace.ErrConflict)
}

func TestUpdateAndDeleteItem(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)
	_, err := svc.CreateCategory(ctx, "Food")
	require.NoError(t, err)
	in := ItemInput{Name: "Bread", Price: decimal.NewFromInt(2), Quantity: 1, CategoryName: "Food", MerchantEmail: "shop@x.io"}
	it, err := svc.CreateItem(ctx, in)
	require.NoError(t, err)

	in.Quantity = 20
	got, err := svc.UpdateItem(ctx, it.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Quantity)

	require.NoError(t, svc.DeleteItem(ctx, it.ID))
	_, err = svc.GetItem(ctx, it.ID)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteItem(ctx, it.ID), marketplace.ErrNotFound)
}
