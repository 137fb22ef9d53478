package postgres

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

const orderCols = `id, customer_id, merchant_id, item_id, total_amount, status, payment_method, order_date`

func scanOrder(s scanner) (marketplace.Order, error) {
	var o marketplace.Order
	err := s.Scan(&o.ID, &o.CustomerID, &o.MerchantID, &o.ItemID, &o.TotalAmount, &o.Status, &o.PaymentMethod, &o.OrderDate)
	return o, err
}

func (r *repo) OrderByID(ctx context.Context, id int64) (marketplace.Order, bool, error) {
	return one(ctx, r.q, scanOrder, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id)
}

func (r *repo) InsertOrder(ctx context.Context, o *marketplace.Order) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO orders (customer_id, merchant_id, item_id, total_amount, status, payment_method, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		o.CustomerID, o.MerchantID, o.ItemID, o.TotalAmount, o.Status, o.PaymentMethod, o.OrderDate,
	).Scan(&o.ID)
	return mapErr(err)
}

func (r *repo) UpdateOrder(ctx context.Context, o marketplace.Order) error {
	return exec(ctx, r.q, "Order", o.ID, `
		UPDATE orders
		SET customer_id = $2, merchant_id = $3, item_id = $4, total_amount = $5, status = $6, payment_method = $7
		WHERE id = $1`,
		o.ID, o.CustomerID, o.MerchantID, o.ItemID, o.TotalAmount, o.Status, o.PaymentMethod)
}

func (r *repo) DeleteOrder(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "Order", id, `DELETE FROM orders WHERE id = $1`, id)
}

func (r *repo) ListOrders(ctx context.Context, f marketplace.OrderFilter) ([]marketplace.Order, error) {
	var w where
	w.eq("customer_id", f.CustomerID, f.CustomerID > 0)
	w.eq("merchant_id", f.MerchantID, f.MerchantID > 0)
	w.eq("item_id", f.ItemID, f.ItemID > 0)
	w.eq("status", f.Status, f.Status != "")
	return many(ctx, r.q, scanOrder, `SELECT `+orderCols+` FROM orders`+w.String()+` ORDER BY id`, w.args...)
}
