package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/redisx"
	"github.com/ridemarket/marketplace/internal/trips"
)

type tripDetails struct {
	StartTime    time.Time       `json:"start_time" validate:"required"`
	EndTime      time.Time       `json:"end_time" validate:"required"`
	DistanceKm   float64         `json:"distance_km" validate:"gt=0"`
	DurationMin  int             `json:"duration_min" validate:"gte=1,lte=1440"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	CarImagePath string          `json:"car_image_path"`
}

func (d tripDetails) details() trips.Details {
	return trips.Details{
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		DistanceKm:   d.DistanceKm,
		DurationMin:  d.DurationMin,
		TotalCost:    d.TotalCost,
		CarImagePath: d.CarImagePath,
	}
}

type tripReq struct {
	DriverEmail   string                 `json:"driver_email" validate:"required,email"`
	RiderEmail    string                 `json:"rider_email" validate:"required,email"`
	RideRequestID *int64                 `json:"ride_request_id"`
	OrderID       *int64                 `json:"order_id"`
	Status        marketplace.TripStatus `json:"status" validate:"omitempty,oneof=REQUESTED ONGOING COMPLETED CANCELED"`
	tripDetails
}

type tripUpdateReq struct {
	DriverEmail string                 `json:"driver_email" validate:"omitempty,email"`
	Status      marketplace.TripStatus `json:"status" validate:"omitempty,oneof=REQUESTED ONGOING COMPLETED CANCELED"`
	tripDetails
}

type tripStatusReq struct {
	Status marketplace.TripStatus `json:"status" validate:"required,oneof=REQUESTED ONGOING COMPLETED CANCELED"`
}

func (a *API) tripRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[tripReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Trip, error) {
			return a.Trips.CreateTrip(ctx, trips.CreateTripInput{
				DriverEmail:   req.DriverEmail,
				RiderEmail:    req.RiderEmail,
				RideRequestID: req.RideRequestID,
				OrderID:       req.OrderID,
				Status:        req.Status,
				Details:       req.details(),
			})
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Trip, error) {
			return cached(ctx, a, redisx.KeyAllTrips, redisx.TTLList, a.Trips.ListTrips)
		})
	})
	r.Get("/by-driver", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Trip, error) {
			return a.Trips.TripsByDriver(ctx, email)
		})
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Trip, error) {
			return a.Trips.SearchTrips(ctx, q.Get("driver"), q.Get("rider"), marketplace.TripStatus(q.Get("status")))
		})
	})
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Trip, error) {
			return cached(ctx, a, fmt.Sprintf(redisx.KeyTrip, id), redisx.TTLEntry,
				func(ctx context.Context) (marketplace.Trip, error) { return a.Trips.GetTrip(ctx, id) })
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[tripUpdateReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Trip, error) {
			return a.Trips.UpdateTrip(ctx, id, trips.UpdateTripInput{
				DriverEmail: req.DriverEmail,
				Status:      req.Status,
				Details:     req.details(),
			})
		})
	}))
	r.Patch("/{id}/status", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[tripStatusReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Trip, error) {
			return a.Trips.UpdateTripStatus(ctx, id, req.Status)
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Trips.DeleteTrip(ctx, id) })
	}))
}
