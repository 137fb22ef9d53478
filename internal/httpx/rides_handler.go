package httpx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/rides"
)

type rideReq struct {
	RiderEmail  string     `json:"rider_email" validate:"required,email"`
	Pickup      coordinate `json:"pickup"`
	Destination coordinate `json:"destination"`
}

type rideUpdateReq struct {
	RiderEmail  string     `json:"rider_email" validate:"omitempty,email"`
	Pickup      coordinate `json:"pickup"`
	Destination coordinate `json:"destination"`
}

func (a *API) rideRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[rideReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.RideRequest, error) {
			return a.Rides.CreateRideRequest(ctx, req.RiderEmail, req.Pickup.point(), req.Destination.point())
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		status := marketplace.RideRequestStatus(r.URL.Query().Get("status"))
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.RideRequest, error) {
			if status != "" {
				return a.Rides.ListByStatus(ctx, status)
			}
			return a.Rides.List(ctx)
		})
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.RideRequest, error) {
			return a.Rides.Search(ctx, q.Get("rider"), marketplace.RideRequestStatus(q.Get("status")))
		})
	})
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.RideRequest, error) {
			return a.Rides.Get(ctx, id)
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[rideUpdateReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.RideRequest, error) {
			return a.Rides.Update(ctx, id, rides.UpdateInput{
				RiderEmail:  req.RiderEmail,
				Pickup:      req.Pickup.point(),
				Destination: req.Destination.point(),
			})
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Rides.Delete(ctx, id) })
	}))
	r.Post("/{id}/accept", a.rideTransition(a.Rides.Accept))
	r.Post("/{id}/reject", a.rideTransition(a.Rides.Reject))
	r.Post("/{id}/cancel", a.rideTransition(a.Rides.Cancel))
}

func (a *API) rideTransition(move func(context.Context, int64) (marketplace.RideRequest, error)) http.HandlerFunc {
	return a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.RideRequest, error) {
			return move(ctx, id)
		})
	})
}
