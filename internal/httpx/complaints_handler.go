package httpx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridemarket/marketplace/internal/complaints"
	"github.com/ridemarket/marketplace/internal/marketplace"
)

type complaintReq struct {
	CustomerEmail string `json:"customer_email" validate:"required,email"`
	DriverEmail   string `json:"driver_email" validate:"required,email"`
	TripID        int64  `json:"trip_id" validate:"gt=0"`
	Message       string `json:"message" validate:"required,max=2000"`
}

func (req complaintReq) input() complaints.ComplaintInput {
	return complaints.ComplaintInput{
		CustomerEmail: req.CustomerEmail,
		DriverEmail:   req.DriverEmail,
		TripID:        req.TripID,
		Message:       req.Message,
	}
}

type resolveReq struct {
	Message string `json:"message" validate:"max=2000"`
}

func (a *API) complaintRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[complaintReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Complaint, error) {
			return a.Complaints.Create(ctx, req.input())
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, a.Complaints.List)
	})
	r.Get("/mine", func(w http.ResponseWriter, r *http.Request) {
		caller := marketplace.Caller{
			Email: r.Header.Get(headerCallerEmail),
			Role:  r.Header.Get(headerCallerRole),
		}
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Complaint, error) {
			return a.Complaints.ComplaintsByCaller(ctx, caller)
		})
	})
	r.Get("/search", a.searchComplaints)
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Complaint, error) {
			return a.Complaints.Get(ctx, id)
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[complaintReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Complaint, error) {
			return a.Complaints.Update(ctx, id, req.input())
		})
	}))
	r.Post("/{id}/resolve", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		var req resolveReq
		if r.ContentLength != 0 {
			var ok bool
			if req, ok = decode[resolveReq](a, w, r); !ok {
				return
			}
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Complaint, error) {
			return a.Complaints.Resolve(ctx, id, complaints.ResolveInput{Message: req.Message})
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Complaints.Delete(ctx, id) })
	}))
}

func (a *API) searchComplaints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tripID, err := queryInt64(r, "trip")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	resolved, err := queryBool(r, "resolved")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	f := complaints.SearchFilter{
		CustomerEmail: q.Get("customer"),
		DriverEmail:   q.Get("driver"),
		TripID:        tripID,
		IsResolved:    resolved,
	}
	respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Complaint, error) {
		return a.Complaints.Search(ctx, f)
	})
}
