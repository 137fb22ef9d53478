package httpx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/orders"
	"github.com/ridemarket/marketplace/internal/redisx"
)

type orderReq struct {
	CustomerEmail string                    `json:"customer_email" validate:"required,email"`
	ItemName      string                    `json:"item_name" validate:"required"`
	Amount        int                       `json:"amount" validate:"gt=0"`
	PaymentMethod marketplace.PaymentMethod `json:"payment_method" validate:"required,oneof=CASH CREDIT_CARD WALLET"`
	Status        marketplace.OrderStatus   `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELED"`
}

func (req orderReq) input() orders.CreateOrderInput {
	return orders.CreateOrderInput{
		CustomerEmail: req.CustomerEmail,
		ItemName:      req.ItemName,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
	}
}

type countResp struct {
	Email string `json:"email"`
	Count int    `json:"count"`
}

func (a *API) orderRoutes(r chi.Router) {
	r.Post("/", a.createOrder)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Order, error) {
			return cached(ctx, a, redisx.KeyAllOrders, redisx.TTLList, a.Orders.ListOrders)
		})
	})
	r.Get("/by-customer", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Order, error) {
			return cached(ctx, a, redisx.ByEmail(redisx.KeyOrdersCustomer, email), redisx.TTLList,
				func(ctx context.Context) ([]marketplace.Order, error) { return a.Orders.OrdersByCustomer(ctx, email) })
		})
	})
	r.Get("/by-merchant", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Order, error) {
			return cached(ctx, a, redisx.ByEmail(redisx.KeyOrdersMerchant, email), redisx.TTLList,
				func(ctx context.Context) ([]marketplace.Order, error) { return a.Orders.OrdersByMerchant(ctx, email) })
		})
	})
	r.Get("/count", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (countResp, error) {
			n, err := a.Orders.CustomerOrderCount(ctx, email)
			return countResp{Email: email, Count: n}, err
		})
	})
	r.Get("/search", a.searchOrders)
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Order, error) {
			return cached(ctx, a, fmt.Sprintf(redisx.KeyOrder, id), redisx.TTLEntry,
				func(ctx context.Context) (marketplace.Order, error) { return a.Orders.GetOrder(ctx, id) })
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[orderReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Order, error) {
			return a.Orders.UpdateOrder(ctx, id, req.input())
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Orders.DeleteOrder(ctx, id) })
	}))
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[orderReq](a, w, r)
	if !ok {
		return
	}
	respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Order, error) {
		return a.Orders.CreateOrder(ctx, req.input())
	})
}

func (a *API) searchOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	itemID, err := queryInt64(r, "item")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	f := orders.SearchFilter{
		CustomerEmail: q.Get("customer"),
		MerchantEmail: q.Get("merchant"),
		ItemID:        itemID,
		Status:        marketplace.OrderStatus(q.Get("status")),
	}
	respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Order, error) {
		return a.Orders.SearchOrders(ctx, f)
	})
}
