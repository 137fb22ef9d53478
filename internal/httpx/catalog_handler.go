package httpx

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ridemarket/marketplace/internal/catalog"
	"github.com/ridemarket/marketplace/internal/marketplace"
)

type categoryReq struct {
	Name string `json:"name" validate:"required,max=100"`
}

type itemReq struct {
	Name          string          `json:"name" validate:"required,max=100"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	CategoryName  string          `json:"category_name" validate:"required"`
	MerchantEmail string          `json:"merchant_email" validate:"required,email"`
}

func (req itemReq) input() catalog.ItemInput {
	return catalog.ItemInput{
		Name:          req.Name,
		Price:         req.Price,
		Quantity:      req.Quantity,
		CategoryName:  req.CategoryName,
		MerchantEmail: req.MerchantEmail,
	}
}

func (a *API) categoryRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[categoryReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Category, error) {
			return a.Catalog.CreateCategory(ctx, req.Name)
		})
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond(a, w, r, readTimeout, http.StatusOK, a.Catalog.ListCategories)
	})
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (catalog.CategoryWithItems, error) {
			return a.Catalog.CategoryWithItems(ctx, id)
		})
	}))
}

func (a *API) itemRoutes(r chi.Router) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode[itemReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusCreated, func(ctx context.Context) (marketplace.Item, error) {
			return a.Catalog.CreateItem(ctx, req.input())
		})
	})
	r.Get("/", a.listItems)
	r.Get("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Item, error) {
			return a.Catalog.GetItem(ctx, id)
		})
	}))
	r.Put("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		req, ok := decode[itemReq](a, w, r)
		if !ok {
			return
		}
		respond(a, w, r, writeTimeout, http.StatusOK, func(ctx context.Context) (marketplace.Item, error) {
			return a.Catalog.UpdateItem(ctx, id, req.input())
		})
	}))
	r.Delete("/{id}", a.withID(func(w http.ResponseWriter, r *http.Request, id int64) {
		a.noContent(w, r, func(ctx context.Context) error { return a.Catalog.DeleteItem(ctx, id) })
	}))
}

// listItems filters by ?category=<name> or ?merchant=<email>.
func (a *API) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respond(a, w, r, readTimeout, http.StatusOK, func(ctx context.Context) ([]marketplace.Item, error) {
		switch {
		case q.Get("category") != "":
			return a.Catalog.ItemsByCategory(ctx, q.Get("category"))
		case q.Get("merchant") != "":
			return a.Catalog.ItemsByMerchant(ctx, q.Get("merchant"))
		default:
			return a.Catalog.ListItems(ctx)
		}
	})
}
