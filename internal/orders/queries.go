package orders

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func (s *Service) GetOrder(ctx context.Context, id int64) (marketplace.Order, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Order{}, err
	}
	o, ok, err := s.store.Repo().OrderByID(ctx, id)
	if err != nil {
		return marketplace.Order{}, err
	}
	if !ok {
		return marketplace.Order{}, marketplace.NotFoundf("Order with Id %d not found", id)
	}
	return o, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]marketplace.Order, error) {
	return s.store.Repo().ListOrders(ctx, marketplace.OrderFilter{})
}

// OrdersByCustomer fails with NotFound when the customer has no orders.
func (s *Service) OrdersByCustomer(ctx context.Context, email string) ([]marketplace.Order, error) {
	repo := s.store.Repo()
	c, err := marketplace.ResolveCustomer(ctx, repo, email)
	if err != nil {
		return nil, err
	}
	out, err := repo.ListOrders(ctx, marketplace.OrderFilter{CustomerID: c.ID})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, marketplace.NotFoundf("No orders found for customer %s", email)
	}
	return out, nil
}

// OrdersByMerchant fails with NotFound when the merchant has no orders.
func (s *Service) OrdersByMerchant(ctx context.Context, email string) ([]marketplace.Order, error) {
	repo := s.store.Repo()
	m, err := marketplace.ResolveMerchant(ctx, repo, email)
	if err != nil {
		return nil, err
	}
	out, err := repo.ListOrders(ctx, marketplace.OrderFilter{MerchantID: m.ID})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, marketplace.NotFoundf("No orders found for merchant %s", email)
	}
	return out, nil
}

func (s *Service) CustomerOrderCount(ctx context.Context, email string) (int, error) {
	repo := s.store.Repo()
	c, err := marketplace.ResolveCustomer(ctx, repo, email)
	if err != nil {
		return 0, err
	}
	out, err := repo.ListOrders(ctx, marketplace.OrderFilter{CustomerID: c.ID})
	return len(out), err
}

type SearchFilter struct {
	CustomerEmail string
	MerchantEmail string
	ItemID        int64
	Status        marketplace.OrderStatus
}

// SearchOrders returns an empty result when an email does not resolve.
func (s *Service) SearchOrders(ctx context.Context, f SearchFilter) ([]marketplace.Order, error) {
	repo := s.store.Repo()
	var of marketplace.OrderFilter
	if f.CustomerEmail != "" {
		c, ok, err := repo.CustomerByEmail(ctx, f.CustomerEmail)
		if err != nil || !ok {
			return nil, err
		}
		of.CustomerID = c.ID
	}
	if f.MerchantEmail != "" {
		m, ok, err := repo.MerchantByEmail(ctx, f.MerchantEmail)
		if err != nil || !ok {
			return nil, err
		}
		of.MerchantID = m.ID
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, marketplace.BadRequestf("invalid order status %q", f.Status)
	}
	of.ItemID = f.ItemID
	of.Status = f.Status
	return repo.ListOrders(ctx, of)
}
