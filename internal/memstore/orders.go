package memstore

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func orders(st *state) *table[marketplace.Order] { return st.orders }

func (r *repo) OrderByID(ctx context.Context, id int64) (marketplace.Order, bool, error) {
	return lookup(ctx, r, orders, id)
}

func (r *repo) InsertOrder(ctx context.Context, o *marketplace.Order) error {
	return r.with(ctx, func(st *state) error {
		o.ID = st.orders.nextID()
		st.orders.put(o.ID, *o)
		return nil
	})
}

func (r *repo) UpdateOrder(ctx context.Context, o marketplace.Order) error {
	return replace(ctx, r, orders, "Order", o.ID, o)
}

func (r *repo) DeleteOrder(ctx context.Context, id int64) error {
	return remove(ctx, r, orders, "Order", id)
}

func (r *repo) ListOrders(ctx context.Context, f marketplace.OrderFilter) ([]marketplace.Order, error) {
	return list(ctx, r, orders, func(o marketplace.Order) bool {
		return eqOrAny(f.CustomerID, o.CustomerID) &&
			eqOrAny(f.MerchantID, o.MerchantID) &&
			eqOrAny(f.ItemID, o.ItemID) &&
			eqOrAny(f.Status, o.Status)
	})
}
