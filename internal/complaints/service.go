package complaints

import (
	"context"
	"fmt"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"go.uber.org/zap"
)

type Service struct {
	store marketplace.Store
	log   *zap.Logger
}

func NewService(store marketplace.Store, fx effects.Effects) *Service {
	return &Service{store: store, log: fx.Logger()}
}

type ComplaintInput struct {
	CustomerEmail string
	DriverEmail   string
	TripID        int64
	Message       string
}

// bind resolves the complaining customer, the driver complained about and the trip.
func bind(ctx context.Context, r marketplace.Repository, in ComplaintInput) (marketplace.Complaint, error) {
	customer, err := marketplace.ResolveCustomer(ctx, r, in.CustomerEmail)
	if err != nil {
		return marketplace.Complaint{}, err
	}
	driver, err := marketplace.ResolveDriver(ctx, r, in.DriverEmail)
	if err != nil {
		return marketplace.Complaint{}, err
	}
	trip, err := marketplace.ResolveTrip(ctx, r, in.TripID)
	if err != nil {
		return marketplace.Complaint{}, err
	}
	return marketplace.Complaint{
		TripID:        trip.ID,
		FromUserID:    customer.ID,
		AgainstUserID: driver.ID,
		Message:       in.Message,
	}, nil
}

// Create always opens the complaint unresolved.
func (s *Service) Create(ctx context.Context, in ComplaintInput) (marketplace.Complaint, error) {
	var c marketplace.Complaint
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if c, err = bind(ctx, r, in); err != nil {
			return err
		}
		c.IsResolved = false
		return r.InsertComplaint(ctx, &c)
	})
	if err != nil {
		return marketplace.Complaint{}, err
	}
	s.log.Info("complaint created", zap.Int64("complaint_id", c.ID), zap.Int64("trip_id", c.TripID))
	return c, nil
}

type ResolveInput struct {
	// Message, when set, replaces the complaint text with the resolution note.
	Message string
}

// Resolve marks the complaint resolved. Calling it again keeps it resolved.
func (s *Service) Resolve(ctx context.Context, id int64, in ResolveInput) (marketplace.Complaint, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Complaint{}, err
	}
	var c marketplace.Complaint
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if c, err = load(ctx, r, id); err != nil {
			return err
		}
		if in.Message != "" {
			c.Message = in.Message
		}
		c.IsResolved = true
		return r.UpdateComplaint(ctx, c)
	})
	if err != nil {
		return marketplace.Complaint{}, err
	}
	s.log.Info("complaint resolved", zap.Int64("complaint_id", id))
	return c, nil
}

// Update rebinds and rewrites the complaint and reopens it.
func (s *Service) Update(ctx context.Context, id int64, in ComplaintInput) (marketplace.Complaint, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Complaint{}, err
	}
	var c marketplace.Complaint
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, err := load(ctx, r, id); err != nil {
			return err
		}
		var err error
		if c, err = bind(ctx, r, in); err != nil {
			return err
		}
		c.ID = id
		c.IsResolved = false
		return r.UpdateComplaint(ctx, c)
	})
	return c, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := marketplace.CheckID(id); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, err := load(ctx, r, id); err != nil {
			return err
		}
		return r.DeleteComplaint(ctx, id)
	})
}

func load(ctx context.Context, r marketplace.ComplaintRepository, id int64) (marketplace.Complaint, error) {
	c, ok, err := r.ComplaintByID(ctx, id)
	if err != nil {
		return c, fmt.Errorf("complaint by id: %w", err)
	}
	if !ok {
		return c, marketplace.NotFoundf("Complaint with Id %d not found", id)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (marketplace.Complaint, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Complaint{}, err
	}
	return load(ctx, s.store.Repo(), id)
}

func (s *Service) List(ctx context.Context) ([]marketplace.Complaint, error) {
	return s.store.Repo().ListComplaints(ctx, marketplace.ComplaintFilter{})
}

// ComplaintsByCaller lists the complaints the caller filed as a customer,
// or the ones filed against them as a driver.
func (s *Service) ComplaintsByCaller(ctx context.Context, caller marketplace.Caller) ([]marketplace.Complaint, error) {
	if caller.Email == "" {
		return nil, marketplace.BadRequestf("caller identity is required")
	}
	repo := s.store.Repo()
	if c, ok, err := repo.CustomerByEmail(ctx, caller.Email); err != nil {
		return nil, err
	} else if ok {
		return repo.ListComplaints(ctx, marketplace.ComplaintFilter{FromUserID: c.ID})
	}
	if d, ok, err := repo.DriverByEmail(ctx, caller.Email); err != nil {
		return nil, err
	} else if ok {
		return repo.ListComplaints(ctx, marketplace.ComplaintFilter{AgainstUserID: d.ID})
	}
	return nil, marketplace.NotFoundf("No profile found for %s", caller.Email)
}

type SearchFilter struct {
	CustomerEmail string
	DriverEmail   string
	TripID        int64
	IsResolved    *bool
}

// Search yields an empty result when an email does not resolve.
func (s *Service) Search(ctx context.Context, f SearchFilter) ([]marketplace.Complaint, error) {
	repo := s.store.Repo()
	cf := marketplace.ComplaintFilter{TripID: f.TripID, IsResolved: f.IsResolved}
	if f.CustomerEmail != "" {
		c, ok, err := repo.CustomerByEmail(ctx, f.CustomerEmail)
		if err != nil || !ok {
			return nil, err
		}
		cf.FromUserID = c.ID
	}
	if f.DriverEmail != "" {
		d, ok, err := repo.DriverByEmail(ctx, f.DriverEmail)
		if err != nil || !ok {
			return nil, err
		}
		cf.AgainstUserID = d.ID
	}
	return repo.ListComplaints(ctx, cf)
}
