package orders

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/ridemarket/marketplace/internal/effects/effectstest"
	"github.com/ridemarket/marketplace/internal/inventory"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memstore.Store
	svc   *Service
	rec   *effectstest.Recorder
	item  marketplace.Item
}

func newFixture(t *testing.T, qty int) fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	r := s.Repo()

	require.NoError(t, r.InsertCustomer(ctx, &marketplace.Customer{Email: "cust@x.io", Name: "Cust"}))
	require.NoError(t, r.InsertCustomer(ctx, &marketplace.Customer{Email: "other@x.io", Name: "Other"}))
	m := marketplace.Merchant{Email: "shop@x.io", Name: "Shop"}
	require.NoError(t, r.InsertMerchant(ctx, &m))
	cat := marketplace.Category{Name: "Food"}
	require.NoError(t, r.InsertCategory(ctx, &cat))
	it := marketplace.Item{Name: "Pizza", CategoryID: cat.ID, MerchantID: m.ID, Price: decimal.NewFromInt(9), Quantity: qty}
	require.NoError(t, r.InsertItem(ctx, &it))

	rec := &effectstest.Recorder{}
	return fixture{store: s, svc: NewService(s, rec.Effects()), rec: rec, item: it}
}

func (f fixture) quantity(t *testing.T, id int64) int {
	t.Helper()
	it, ok, err := f.store.Repo().ItemByID(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return it.Quantity
}

func order(amount int) CreateOrderInput {
	return CreateOrderInput{CustomerEmail: "cust@x.io", ItemName: "Pizza", Amount: amount, PaymentMethod: marketplace.PaymentCash}
}

func TestCreateOrderDrainsStockThenRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	o, err := f.svc.CreateOrder(ctx, order(10))
	require.NoError(t, err)
	assert.Equal(t, marketplace.OrderPending, o.Status)
	assert.Equal(t, f.item.MerchantID, o.MerchantID)
	assert.Equal(t, 0, f.quantity(t, f.item.ID))

	_, err = f.svc.CreateOrder(ctx, order(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)
	assert.Equal(t, 0, f.quantity(t, f.item.ID))

	all, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateOrderResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	in := order(1)
	in.CustomerEmail = "ghost@x.io"
	_, err := f.svc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	in = order(1)
	in.ItemName = "Sushi"
	_, err = f.svc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	in = order(0)
	_, err = f.svc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	in = order(1)
	in.PaymentMethod = "BARTER"
	_, err = f.svc.CreateOrder(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	assert.Equal(t, 5, f.quantity(t, f.item.ID))
}

func TestConcurrentOrdersNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	const initial = 25
	f := newFixture(t, initial)

	amounts := []int{3, 4, 5, 2, 7, 1, 6, 3, 4, 5, 2, 8, 1, 1, 9, 2}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for _, a := range amounts {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			_, err := f.svc.CreateOrder(ctx, order(a))
			if err == nil {
				mu.Lock()
				accepted += a
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, inventory.ErrInsufficientStock), "unexpected error: %v", err)
		}(a)
	}
	wg.Wait()

	assert.LessOrEqual(t, accepted, initial)
	assert.Equal(t, initial-accepted, f.quantity(t, f.item.ID))

	all, err := f.svc.ListOrders(ctx)
	require.NoError(t, err)
	sum := 0
	for _, o := range all {
		sum += o.TotalAmount
	}
	assert.Equal(t, accepted, sum)
}

func TestCreateOrderEvictsCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)

	o, err := f.svc.CreateOrder(ctx, order(1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"all_orders",
		"order_" + itoa(o.ID),
		"orders_customer_cust@x.io",
		"orders_merchant_shop@x.io",
	}, f.rec.Evicted)
}

func TestUpdateOrderRebalancesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	o, err := f.svc.CreateOrder(ctx, order(4))
	require.NoError(t, err)
	require.Equal(t, 6, f.quantity(t, f.item.ID))

	in := order(7)
	in.Status = marketplace.OrderConfirmed
	got, err := f.svc.UpdateOrder(ctx, o.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalAmount)
	assert.Equal(t, marketplace.OrderConfirmed, got.Status)
	assert.Equal(t, 3, f.quantity(t, f.item.ID))

	_, err = f.svc.UpdateOrder(ctx, o.ID, order(11))
	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
	assert.Equal(t, 3, f.quantity(t, f.item.ID))

	in = order(7)
	in.CustomerEmail = "other@x.io"
	_, err = f.svc.UpdateOrder(ctx, o.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 3, f.quantity(t, f.item.ID))
	assert.Contains(t, f.rec.Evicted, "orders_customer_cust@x.io")
	assert.Contains(t, f.rec.Evicted, "orders_customer_other@x.io")
}

func TestDeleteOrderKeepsStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	o, err := f.svc.CreateOrder(ctx, order(4))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteOrder(ctx, o.ID))
	assert.Equal(t, 6, f.quantity(t, f.item.ID))
	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, o.ID), marketplace.ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, 0), marketplace.ErrBadRequest)
}

type brokenCustomers struct {
	marketplace.Repository
}

func (brokenCustomers) CustomerByID(context.Context, int64) (marketplace.Customer, bool, error) {
	return marketplace.Customer{}, false, errors.New("connection reset")
}

type brokenStore struct {
	*memstore.Store
}

func (s brokenStore) InTx(ctx context.Context, fn func(marketplace.Repository) error) error {
	return s.Store.InTx(ctx, func(r marketplace.Repository) error { return fn(brokenCustomers{r}) })
}

func TestDeleteOrderFailsWhenOwnerLookupFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)
	o, err := f.svc.CreateOrder(ctx, order(4))
	require.NoError(t, err)

	rec := &effectstest.Recorder{}
	svc := NewService(brokenStore{f.store}, rec.Effects())
	err = svc.DeleteOrder(ctx, o.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, rec.Evicted)

	_, err = f.svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)

	_, err = svc.UpdateOrder(ctx, o.ID, order(5))
	require.Error(t, err)
	assert.Equal(t, 6, f.quantity(t, f.item.ID))
}

func TestOrderQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	_, err := f.svc.OrdersByCustomer(ctx, "cust@x.io")
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	_, err = f.svc.CreateOrder(ctx, order(2))
	require.NoError(t, err)

	byCustomer, err := f.svc.OrdersByCustomer(ctx, "cust@x.io")
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	byMerchant, err := f.svc.OrdersByMerchant(ctx, "shop@x.io")
	require.NoError(t, err)
	assert.Len(t, byMerchant, 1)

	n, err := f.svc.CustomerOrderCount(ctx, "other@x.io")
	require.NoError(t, err)
	assert.Zero(t, n)

	found, err := f.svc.SearchOrders(ctx, SearchFilter{CustomerEmail: "ghost@x.io"})
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.svc.SearchOrders(ctx, SearchFilter{Status: marketplace.OrderPending})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
