package payments

import (
	"context"
	"testing"

	"github.com/ridemarket/marketplace/internal/effects/effectstest"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc  *Service
	rec  *effectstest.Recorder
	trip marketplace.Trip
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()
	r := s.Repo()
	require.NoError(t, r.InsertCustomer(ctx, &marketplace.Customer{Email: "cust@x.io"}))
	require.NoError(t, r.InsertMerchant(ctx, &marketplace.Merchant{Email: "shop@x.io"}))
	trip := marketplace.Trip{DriverID: 1, RiderID: 1, TotalCost: decimal.RequireFromString("18.75"), Status: marketplace.TripCompleted}
	require.NoError(t, r.InsertTrip(ctx, &trip))
	rec := &effectstest.Recorder{}
	return fixture{svc: NewService(s, rec.Effects()), rec: rec, trip: trip}
}

func TestPriceComesFromTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	forged := decimal.NewFromInt(1)

	p, err := f.svc.CreatePayment(ctx, CreatePaymentInput{
		CustomerEmail: "cust@x.io",
		TripID:        f.trip.ID,
		Method:        marketplace.PaymentWallet,
		ClientPrice:   &forged,
	})
	require.NoError(t, err)
	assert.True(t, p.TotalPrice.Equal(f.trip.TotalCost), "got %s", p.TotalPrice)
	assert.Equal(t, marketplace.PaymentPending, p.Status)
	assert.Nil(t, p.MerchantID)

	stored, err := f.svc.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPrice.Equal(f.trip.TotalCost))

	require.Len(t, f.rec.Calls, 1)
	assert.Equal(t, "cust@x.io", f.rec.Calls[0].Target)
	assert.Contains(t, f.rec.Evicted, "payments_customer_cust@x.io")
}

func TestOnePaymentPerTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	in := CreatePaymentInput{CustomerEmail: "cust@x.io", TripID: f.trip.ID, Method: marketplace.PaymentCash}
	_, err := f.svc.CreatePayment(ctx, in)
	require.NoError(t, err)

	_, err = f.svc.CreatePayment(ctx, in)
	assert.ErrorIs(t, err, marketplace.ErrConflict)

	all, err := f.svc.ListPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreatePaymentResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreatePayment(ctx, CreatePaymentInput{CustomerEmail: "ghost@x.io", TripID: f.trip.ID, Method: marketplace.PaymentCash})
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	_, err = f.svc.CreatePayment(ctx, CreatePaymentInput{CustomerEmail: "cust@x.io", TripID: 50, Method: marketplace.PaymentCash})
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	_, err = f.svc.CreatePayment(ctx, CreatePaymentInput{CustomerEmail: "cust@x.io", TripID: f.trip.ID, Method: marketplace.PaymentCash, MerchantEmail: "ghost@x.io"})
	assert.ErrorIs(t, err, marketplace.ErrNotFound)

	_, err = f.svc.CreatePayment(ctx, CreatePaymentInput{CustomerEmail: "cust@x.io", TripID: f.trip.ID, Method: "IOU"})
	assert.ErrorIs(t, err, marketplace.ErrBadRequest)

	all, err := f.svc.ListPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdatePaymentNotifies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p, err := f.svc.CreatePayment(ctx, CreatePaymentInput{
		CustomerEmail: "cust@x.io", TripID: f.trip.ID, Method: marketplace.PaymentCash, MerchantEmail: "shop@x.io",
	})
	require.NoError(t, err)
	require.NotNil(t, p.MerchantID)

	got, err := f.svc.UpdatePayment(ctx, p.ID, marketplace.PaymentCreditCard, marketplace.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, marketplace.PaymentCompleted, got.Status)
	assert.True(t, got.TotalPrice.Equal(f.trip.TotalCost))

	assert.Equal(t, []string{
		marketplace.EventPaymentCreated,
		marketplace.EventPaymentUpdate,
		marketplace.EventPaymentStatusUpdated,
	}, f.rec.Events())
	assert.True(t, f.rec.Calls[1].Group)
	assert.Equal(t, marketplace.GroupAdmins, f.rec.Calls[1].Target)
	assert.Equal(t, "cust@x.io", f.rec.Calls[2].Target)
	assert.Contains(t, f.rec.Evicted, "payments_merchant_shop@x.io")

	byMerchant, err := f.svc.PaymentsByMerchant(ctx, "shop@x.io")
	require.NoError(t, err)
	assert.Len(t, byMerchant, 1)

	found, err := f.svc.SearchPayments(ctx, "cust@x.io", marketplace.PaymentCompleted, "")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, f.svc.DeletePayment(ctx, p.ID))
	_, err = f.svc.UpdatePayment(ctx, p.ID, marketplace.PaymentCash, marketplace.PaymentFailed)
	assert.ErrorIs(t, err, marketplace.ErrNotFound)
}

func TestNotifierFailureDoesNotFailPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.rec.Fail = true
	_, err := f.svc.CreatePayment(ctx, CreatePaymentInput{CustomerEmail: "cust@x.io", TripID: f.trip.ID, Method: marketplace.PaymentCash})
	require.NoError(t, err)
}
