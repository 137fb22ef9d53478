package postgres

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

const paymentCols = `id, trip_id, customer_id, merchant_id, method, status, total_price`

func scanPayment(s scanner) (marketplace.Payment, error) {
	var p marketplace.Payment
	err := s.Scan(&p.ID, &p.TripID, &p.CustomerID, &p.MerchantID, &p.Method, &p.Status, &p.TotalPrice)
	return p, err
}

func (r *repo) PaymentByID(ctx context.Context, id int64) (marketplace.Payment, bool, error) {
	return one(ctx, r.q, scanPayment, `SELECT `+paymentCols+` FROM payments WHERE id = $1`, id)
}

func (r *repo) InsertPayment(ctx context.Context, p *marketplace.Payment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO payments (trip_id, customer_id, merchant_id, method, status, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.TripID, p.CustomerID, p.MerchantID, p.Method, p.Status, p.TotalPrice,
	).Scan(&p.ID)
	return mapErr(err)
}

func (r *repo) UpdatePayment(ctx context.Context, p marketplace.Payment) error {
	return exec(ctx, r.q, "Payment", p.ID, `
		UPDATE payments
		SET trip_id = $2, customer_id = $3, merchant_id = $4, method = $5, status = $6, total_price = $7
		WHERE id = $1`,
		p.ID, p.TripID, p.CustomerID, p.MerchantID, p.Method, p.Status, p.TotalPrice)
}

func (r *repo) DeletePayment(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "Payment", id, `DELETE FROM payments WHERE id = $1`, id)
}

func (r *repo) ListPayments(ctx context.Context, f marketplace.PaymentFilter) ([]marketplace.Payment, error) {
	var w where
	w.eq("customer_id", f.CustomerID, f.CustomerID > 0)
	w.eq("merchant_id", f.MerchantID, f.MerchantID > 0)
	w.eq("trip_id", f.TripID, f.TripID > 0)
	w.eq("method", f.Method, f.Method != "")
	w.eq("status", f.Status, f.Status != "")
	return many(ctx, r.q, scanPayment, `SELECT `+paymentCols+` FROM payments`+w.String()+` ORDER BY id`, w.args...)
}
