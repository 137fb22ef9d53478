package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/reviews"
)

type reviewReq struct {
	CustomerEmail string             `json:"customer_email" validate:"required,email"`
	DriverEmail   string             `json:"driver_email" validate:"required,email"`
	TripID        int64              `json:"trip_id" validate:"gt=0"`
	Rating        marketplace.Rating `json:"rating" validate:"gte=1,lte=5"`
	Message       string             `json:"message" validate:"max=1000"`
}

type reviewUpdateReq struct {
	Rating  marketplace.Rating `json:"rating" validate:"gte=1,lte=5"`
	Message string             `json:"message" validate:"max=1000"`
}

type ratingResp struct {
	DriverEmail string  `json:"driver_email"`
	Average     float64 `json:"average"`
}

func (a *API) reviewRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[reviewReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Review, error) {
			return a.Reviews.CreateReview(ctx, reviews.CreateReviewInput{
				CustomerEmail: req.CustomerEmail,
				DriverEmail:   req.DriverEmail,
				TripID:        req.TripID,
				Rating:        req.Rating,
				Message:       req.Message,
			})
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, a.Reviews.ListReviews)
	})
	r.Get("/recent", a.recentReviews)
	r.Get("/rating", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("driver")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (ratingResp, error) {
			avg, err := a.Reviews.DriverAverageRating(ctx, email)
			return ratingResp{DriverEmail: email, Average: avg}, err
		})
	})
	r.Get("/by-driver", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Review, error) {
			return a.Reviews.DriverReviews(ctx, email)
		})
	})
	r.Get("/by-customer", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Review, error) {
			return a.Reviews.CustomerReviews(ctx, email)
		})
	})
	r.Get("/count", a.countReviews)
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Review, error) {
			return a.Reviews.GetReview(ctx, id)
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[reviewUpdateReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Review, error) {
			return a.Reviews.UpdateReview(ctx, id, req.Rating, req.Message)
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Reviews.DeleteReview(ctx, id) })
	}))
}

// recentReviews serves the newest ?n reviews, 10 when n is absent.
func (a *API) recentReviews(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			a.fail(w, r, marketplace.BadRequestf("invalid n %q", raw))
			return
		}
		n = v
	}
	respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Review, error) {
		return a.Reviews.RecentReviews(ctx, n)
	})
}

// countReviews answers ?driver=<email> or ?customer=<email>.
func (a *API) countReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (countResp, error) {
		if email := q.Get("driver"); email != "" {
			n, err := a.Reviews.DriverReviewCount(ctx, email)
			return countResp{Email: email, Count: n}, err
		}
		email := q.Get("customer")
		n, err := a.Reviews.CustomerReviewCount(ctx, email)
		return countResp{Email: email, Count: n}, err
	})
}
