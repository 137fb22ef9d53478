package memstore

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func payments(st *state) *table[marketplace.Payment] { return st.payments }

func (r *repo) PaymentByID(ctx context.Context, id int64) (marketplace.Payment, bool, error) {
	return lookup(ctx, r, payments, id)
}

func (r *repo) InsertPayment(ctx context.Context, p *marketplace.Payment) error {
	return r.with(ctx, func(st *state) error {
		if _, dup := st.payments.first(func(x marketplace.Payment) bool { return x.TripID == p.TripID }); dup {
			return marketplace.Conflictf("Trip with Id %d already has a payment", p.TripID)
		}
		p.ID = st.payments.nextID()
		st.payments.put(p.ID, *p)
		return nil
	})
}

func (r *repo) UpdatePayment(ctx context.Context, p marketplace.Payment) error {
	return replace(ctx, r, payments, "Payment", p.ID, p)
}

func (r *repo) DeletePayment(ctx context.Context, id int64) error {
	return remove(ctx, r, payments, "Payment", id)
}

func (r *repo) ListPayments(ctx context.Context, f marketplace.PaymentFilter) ([]marketplace.Payment, error) {
	return list(ctx, r, payments, func(p marketplace.Payment) bool {
		var merchantID int64
		if p.MerchantID != nil {
			merchantID = *p.MerchantID
		}
		return eqOrAny(f.CustomerID, p.CustomerID) &&
			eqOrAny(f.MerchantID, merchantID) &&
			eqOrAny(f.TripID, p.TripID) &&
			eqOrAny(f.Method, p.Method) &&
			eqOrAny(f.Status, p.Status)
	})
}
