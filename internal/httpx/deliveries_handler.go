package httpx

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridemarket/marketplace/internal/deliveries"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/redisx"
)

const deliveryStatuses = "PENDING PICKED_UP IN_TRANSIT DELIVERED CANCELED"

type deliveryReq struct {
	DriverEmail string                     `json:"driver_email" validate:"required,email"`
	TripID      int64                      `json:"trip_id" validate:"gt=0"`
	Pickup      coordinate                 `json:"pickup"`
	Dropoff     coordinate                 `json:"dropoff"`
	Status      marketplace.DeliveryStatus `json:"status" validate:"omitempty,oneof=PENDING PICKED_UP IN_TRANSIT DELIVERED CANCELED"`
}

type deliveryUpdateReq struct {
	DriverEmail string                     `json:"driver_email" validate:"required,email"`
	Pickup      coordinate                 `json:"pickup"`
	Dropoff     coordinate                 `json:"dropoff"`
	Status      marketplace.DeliveryStatus `json:"status" validate:"omitempty,oneof=PENDING PICKED_UP IN_TRANSIT DELIVERED CANCELED"`
}

type deliveryStatusReq struct {
	Status marketplace.DeliveryStatus `json:"status" validate:"required,oneof=PENDING PICKED_UP IN_TRANSIT DELIVERED CANCELED"`
}

func (a *API) deliveryRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[deliveryReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Delivery, error) {
			return a.Deliveries.CreateDelivery(ctx, deliveries.CreateDeliveryInput{
				DriverEmail: req.DriverEmail,
				TripID:      req.TripID,
				Pickup:      req.Pickup.point(),
				Dropoff:     req.Dropoff.point(),
				Status:      req.Status,
			})
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		status := marketplace.DeliveryStatus(r.URL.Query().Get("status"))
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Delivery, error) {
			if status != "" {
				if !status.Valid() {
					return nil, marketplace.BadRequestf("status must be one of %s", deliveryStatuses)
				}
				return a.Deliveries.DeliveriesByStatus(ctx, status)
			}
			return cached(ctx, a, redisx.KeyAllDeliveries, redisx.TTLList, a.Deliveries.ListDeliveries)
		})
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		driver := r.URL.Query().Get("driver")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Delivery, error) {
			return a.Deliveries.SearchDeliveries(ctx, driver)
		})
	})
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Delivery, error) {
			return cached(ctx, a, fmt.Sprintf(redisx.KeyDelivery, id), redisx.TTLEntry,
				func(ctx context.Context) (marketplace.Delivery, error) { return a.Deliveries.GetDelivery(ctx, id) })
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[deliveryUpdateReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Delivery, error) {
			return a.Deliveries.UpdateDelivery(ctx, id, deliveries.UpdateDeliveryInput{
				DriverEmail: req.DriverEmail,
				Pickup:      req.Pickup.point(),
				Dropoff:     req.Dropoff.point(),
				Status:      req.Status,
			})
		})
	}))
	r.Patch("/{id}/status", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[deliveryStatusReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Delivery, error) {
			return a.Deliveries.UpdateDeliveryStatus(ctx, id, req.Status)
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Deliveries.DeleteDelivery(ctx, id) })
	}))
}
