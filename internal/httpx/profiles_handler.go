package httpx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/profiles"
)

type coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

func (c coordinate) point() marketplace.Coordinate {
	return marketplace.Coordinate{Lat: c.Lat, Lng: c.Lng}
}

type customerReq struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address"`
	City    string `json:"city"`
	Region  string `json:"region"`
}

type merchantReq struct {
	Email    string     `json:"email" validate:"required,email"`
	Name     string     `json:"name" validate:"required,max=100"`
	Address  string     `json:"address"`
	Location coordinate `json:"location"`
}

type driverReq struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,max=100"`
	VehicleType string `json:"vehicle_type" validate:"required,min=3"`
	PlateNumber string `json:"plate_number" validate:"required,min=5"`
}

type driverStatusReq struct {
	Status marketplace.DriverStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE BUSY"`
}

func (a *API) customerRoutes(r chi.Router) {
	r.Post("/", a.registerCustomer)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, a.Profiles.ListCustomers)
	})
	r.Get("/by-email", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Customer, error) {
			return a.Profiles.CustomerByEmail(ctx, email)
		})
	})
}

func (a *API) registerCustomer(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[customerReq](a, w, r)
	if !ok {
		return
	}
	respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Customer, error) {
		return a.Profiles.RegisterCustomer(ctx, profiles.CustomerInput{
			Email:   req.Email,
			Name:    req.Name,
			Address: req.Address,
			City:    req.City,
			Region:  req.Region,
		})
	})
}

func (a *API) merchantRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[merchantReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Merchant, error) {
			return a.Profiles.RegisterMerchant(ctx, profiles.MerchantInput{
				Email:    req.Email,
				Name:     req.Name,
				Address:  req.Address,
				Location: req.Location.point(),
			})
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, a.Profiles.ListMerchants)
	})
}

func (a *API) driverRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[driverReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.DriverProfile, error) {
			return a.Profiles.RegisterDriver(ctx, profiles.DriverInput{
				Email:       req.Email,
				Name:        req.Name,
				VehicleType: req.VehicleType,
				PlateNumber: req.PlateNumber,
			})
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, a.Profiles.ListDrivers)
	})
	r.Get("/by-email", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.DriverProfile, error) {
			return a.Profiles.DriverByEmail(ctx, email)
		})
	})
	r.Patch("/{id}/status", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[driverStatusReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.DriverProfile, error) {
			return a.Profiles.ChangeDriverStatus(ctx, id, req.Status)
		})
	}))
}
