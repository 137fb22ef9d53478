// Package memstore keeps the whole marketplace in process memory. Transactions
// are serialized by one mutex and roll back by restoring a snapshot.
package memstore

import (
	"context"
	"sync"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

type state struct {
	customers    *table[marketplace.Customer]
	merchants    *table[marketplace.Merchant]
	drivers      *table[marketplace.DriverProfile]
	categories   *table[marketplace.Category]
	items        *table[marketplace.Item]
	orders       *table[marketplace.Order]
	rideRequests *table[marketplace.RideRequest]
	trips        *table[marketplace.Trip]
	deliveries   *table[marketplace.Delivery]
	payments     *table[marketplace.Payment]
	reviews      *table[marketplace.Review]
	complaints   *table[marketplace.Complaint]
}

func newState() *state {
	return &state{
		customers:    newTable[marketplace.Customer](),
		merchants:    newTable[marketplace.Merchant](),
		drivers:      newTable[marketplace.DriverProfile](),
		categories:   newTable[marketplace.Category](),
		items:        newTable[marketplace.Item](),
		orders:       newTable[marketplace.Order](),
		rideRequests: newTable[marketplace.RideRequest](),
		trips:        newTable[marketplace.Trip](),
		deliveries:   newTable[marketplace.Delivery](),
		payments:     newTable[marketplace.Payment](),
		reviews:      newTable[marketplace.Review](),
		complaints:   newTable[marketplace.Complaint](),
	}
}

func (s *state) clone() *state {
	return &state{
		customers:    s.customers.clone(),
		merchants:    s.merchants.clone(),
		drivers:      s.drivers.clone(),
		categories:   s.categories.clone(),
		items:        s.items.clone(),
		orders:       s.orders.clone(),
		rideRequests: s.rideRequests.clone(),
		trips:        s.trips.clone(),
		deliveries:   s.deliveries.clone(),
		payments:     s.payments.clone(),
		reviews:      s.reviews.clone(),
		complaints:   s.complaints.clone(),
	}
}

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// Repo returns a repository where every call is its own transaction.
func (s *Store) Repo() marketplace.Repository {
	return &repo{s: s}
}

func (s *Store) InTx(ctx context.Context, fn func(marketplace.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.st.clone()
	if err := fn(&repo{s: s, inTx: true}); err != nil {
		s.st = snap
		return err
	}
	return nil
}

type repo struct {
	s    *Store
	inTx bool
}

// with runs fn against the live state, taking the store lock unless the
// repository already belongs to a transaction that holds it.
func (r *repo) with(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.inTx {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()
	}
	return fn(r.s.st)
}

func missing(entity string, id int64) error {
	return marketplace.NotFoundf("%s with Id %d not found", entity, id)
}
