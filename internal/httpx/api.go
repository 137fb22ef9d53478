package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ridemarket/marketplace/internal/catalog"
	"github.com/ridemarket/marketplace/internal/complaints"
	"github.com/ridemarket/marketplace/internal/deliveries"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/orders"
	"github.com/ridemarket/marketplace/internal/payments"
	"github.com/ridemarket/marketplace/internal/profiles"
	"github.com/ridemarket/marketplace/internal/reviews"
	"github.com/ridemarket/marketplace/internal/rides"
	"github.com/ridemarket/marketplace/internal/trips"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second

	headerCallerEmail = "X-Caller-Email"
	headerCallerRole  = "X-Caller-Role"
)

// API exposes the marketplace services under /api/v1. Cache may be nil.
type API struct {
	Profiles   *profiles.Service
	Catalog    *catalog.Service
	Orders     *orders.Service
	Rides      *rides.Service
	Trips      *trips.Service
	Deliveries *deliveries.Service
	Payments   *payments.Service
	Reviews    *reviews.Service
	Complaints *complaints.Service

	Cache marketplace.Cache
	Log   *zap.Logger
}

func (a *API) Register(r chi.Router) {
	if a.Log == nil {
		a.Log = zap.NewNop()
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", a.customerRoutes)
		r.Route("/merchants", a.merchantRoutes)
		r.Route("/drivers", a.driverRoutes)
		r.Route("/categories", a.categoryRoutes)
		r.Route("/items", a.itemRoutes)
		r.Route("/orders", a.orderRoutes)
		r.Route("/ride-requests", a.rideRoutes)
		r.Route("/trips", a.tripRoutes)
		r.Route("/deliveries", a.deliveryRoutes)
		r.Route("/payments", a.paymentRoutes)
		r.Route("/reviews", a.reviewRoutes)
		r.Route("/complaints", a.complaintRoutes)
	})
}

// respond runs fn under a timeout and writes its result with code.
func respond[T any](a *API, w http.ResponseWriter, r *http.Request, timeout time.Duration, code int, fn func(context.Context) (T, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	v, err := fn(ctx)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, code, v)
}

// noContent runs fn under the write timeout and answers 204.
func (a *API) noContent(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withID parses {id} and hands it to next.
func (a *API) withID(next func(w http.ResponseWriter, r *http.Request, id int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		next(w, r, id)
	}
}

// decode reads and validates the body into a fresh T.
func decode[T any](a *API, w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := readAndValidate(w, r, &req); err != nil {
		a.fail(w, r, err)
		return req, false
	}
	return req, true
}
