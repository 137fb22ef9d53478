package httpx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/payments"
	"github.com/ridemarket/marketplace/internal/redisx"
)

type paymentReq struct {
	CustomerEmail string                    `json:"customer_email" validate:"required,email"`
	TripID        int64                     `json:"trip_id" validate:"gt=0"`
	Method        marketplace.PaymentMethod `json:"method" validate:"required,oneof=CASH CREDIT_CARD WALLET"`
	Status        marketplace.PaymentStatus `json:"status" validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	MerchantEmail string                    `json:"merchant_email" validate:"omitempty,email"`
	// TotalPrice is accepted for compatibility and ignored.
	TotalPrice *decimal.Decimal `json:"total_price"`
}

type paymentUpdateReq struct {
	Method marketplace.PaymentMethod `json:"method" validate:"required,oneof=CASH CREDIT_CARD WALLET"`
	Status marketplace.PaymentStatus `json:"status" validate:"required,oneof=PENDING COMPLETED FAILED REFUNDED"`
}

func (a *API) paymentRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[paymentReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Payment, error) {
			return a.Payments.CreatePayment(ctx, payments.CreatePaymentInput{
				CustomerEmail: req.CustomerEmail,
				TripID:        req.TripID,
				Method:        req.Method,
				Status:        req.Status,
				MerchantEmail: req.MerchantEmail,
				ClientPrice:   req.TotalPrice,
			})
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Payment, error) {
			return cached(ctx, a, redisx.KeyAllPayments, redisx.TTLList, a.Payments.ListPayments)
		})
	})
	r.Get("/by-customer", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Payment, error) {
			return cached(ctx, a, redisx.ByEmail(redisx.KeyPaymentsCustomer, email), redisx.TTLList,
				func(ctx context.Context) ([]marketplace.Payment, error) { return a.Payments.PaymentsByCustomer(ctx, email) })
		})
	})
	r.Get("/by-merchant", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Payment, error) {
			return cached(ctx, a, redisx.ByEmail(redisx.KeyPaymentsMerchant, email), redisx.TTLList,
				func(ctx context.Context) ([]marketplace.Payment, error) { return a.Payments.PaymentsByMerchant(ctx, email) })
		})
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Payment, error) {
			return a.Payments.SearchPayments(ctx, q.Get("customer"),
				marketplace.PaymentStatus(q.Get("status")), marketplace.PaymentMethod(q.Get("method")))
		})
	})
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Payment, error) {
			return cached(ctx, a, fmt.Sprintf(redisx.KeyPayment, id), redisx.TTLEntry,
				func(ctx context.Context) (marketplace.Payment, error) { return a.Payments.GetPayment(ctx, id) })
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[paymentUpdateReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Payment, error) {
			return a.Payments.UpdatePayment(ctx, id, req.Method, req.Status)
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Payments.DeletePayment(ctx, id) })
	}))
}
