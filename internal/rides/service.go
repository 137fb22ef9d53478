package rides

import (
	"context"
	"fmt"
	"time"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"go.uber.org/zap"
)

// Service owns the ride request state machine. Completed is reached only
// through trip completion, see Complete.
type Service struct {
	store marketplace.Store
	fx    effects.Effects
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store marketplace.Store, fx effects.Effects) *Service {
	return &Service{store: store, fx: fx, log: fx.Logger(), now: time.Now}
}

func (s *Service) CreateRideRequest(ctx context.Context, riderEmail string, pickup, destination marketplace.Coordinate) (marketplace.RideRequest, error) {
	var rr marketplace.RideRequest
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		rider, err := marketplace.ResolveCustomer(ctx, r, riderEmail)
		if err != nil {
			return err
		}
		rr = marketplace.RideRequest{
			RiderID:     rider.ID,
			Pickup:      pickup,
			Destination: destination,
			Status:      marketplace.RidePending,
			CreatedAt:   s.now().UTC(),
		}
		return r.InsertRideRequest(ctx, &rr)
	})
	if err != nil {
		return marketplace.RideRequest{}, err
	}
	s.log.Info("ride request created", zap.Int64("ride_request_id", rr.ID), zap.Int64("rider_id", rr.RiderID))
	return rr, nil
}

func (s *Service) Accept(ctx context.Context, id int64) (marketplace.RideRequest, error) {
	return s.transition(ctx, id, marketplace.RideAccepted)
}

// Reject is the driver or admin decision.
func (s *Service) Reject(ctx context.Context, id int64) (marketplace.RideRequest, error) {
	return s.transition(ctx, id, marketplace.RideRejected)
}

// Cancel is the rider's withdrawal. It lands in the same state as Reject.
func (s *Service) Cancel(ctx context.Context, id int64) (marketplace.RideRequest, error) {
	return s.transition(ctx, id, marketplace.RideRejected)
}

func (s *Service) transition(ctx context.Context, id int64, to marketplace.RideRequestStatus) (marketplace.RideRequest, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.RideRequest{}, err
	}
	var rr marketplace.RideRequest
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		rr, err = move(ctx, r, id, to)
		return err
	})
	if err != nil {
		return marketplace.RideRequest{}, err
	}
	s.log.Info("ride request status changed", zap.Int64("ride_request_id", id), zap.String("status", string(rr.Status)))
	return rr, nil
}

// Complete moves the ride request to Completed inside the caller's transaction.
// A request the rider withdrew after its trip was created stays Rejected and
// does not block the trip.
func Complete(ctx context.Context, r marketplace.RideRequestRepository, id int64) error {
	rr, ok, err := r.RideRequestByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ride request by id: %w", err)
	}
	if ok && rr.Status == marketplace.RideRejected {
		return nil
	}
	_, err = move(ctx, r, id, marketplace.RideCompleted)
	return err
}

// move applies one transition. Re-applying the current status is a no-op.
func move(ctx context.Context, r marketplace.RideRequestRepository, id int64, to marketplace.RideRequestStatus) (marketplace.RideRequest, error) {
	rr, ok, err := r.RideRequestByID(ctx, id)
	if err != nil {
		return rr, fmt.Errorf("ride request by id: %w", err)
	}
	if !ok {
		return rr, marketplace.NotFoundf("RideRequest with Id %d not found", id)
	}
	if rr.Status == to {
		return rr, nil
	}
	if !marketplace.CanTransitionRide(rr.Status, to) {
		return rr, marketplace.BadRequestf("RideRequest %d is %s and cannot become %s", id, rr.Status, to)
	}
	rr.Status = to
	return rr, r.UpdateRideRequest(ctx, rr)
}

type UpdateInput struct {
	// RiderEmail rebinds the rider when set.
	RiderEmail  string
	Pickup      marketplace.Coordinate
	Destination marketplace.Coordinate
}

// Update rewrites the coordinates. The status only moves through transitions.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (marketplace.RideRequest, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.RideRequest{}, err
	}
	var rr marketplace.RideRequest
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var ok bool
		var err error
		if rr, ok, err = r.RideRequestByID(ctx, id); err != nil {
			return err
		} else if !ok {
			return marketplace.NotFoundf("RideRequest with Id %d not found", id)
		}
		if in.RiderEmail != "" {
			rider, err := marketplace.ResolveCustomer(ctx, r, in.RiderEmail)
			if err != nil {
				return err
			}
			rr.RiderID = rider.ID
		}
		rr.Pickup = in.Pickup
		rr.Destination = in.Destination
		return r.UpdateRideRequest(ctx, rr)
	})
	return rr, err
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := marketplace.CheckID(id); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, ok, err := r.RideRequestByID(ctx, id); err != nil {
			return err
		} else if !ok {
			return marketplace.NotFoundf("RideRequest with Id %d not found", id)
		}
		return r.DeleteRideRequest(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (marketplace.RideRequest, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.RideRequest{}, err
	}
	rr, ok, err := s.store.Repo().RideRequestByID(ctx, id)
	if err != nil {
		return rr, err
	}
	if !ok {
		return rr, marketplace.NotFoundf("RideRequest with Id %d not found", id)
	}
	return rr, nil
}

func (s *Service) List(ctx context.Context) ([]marketplace.RideRequest, error) {
	return s.store.Repo().ListRideRequests(ctx, marketplace.RideRequestFilter{})
}

func (s *Service) ListByStatus(ctx context.Context, status marketplace.RideRequestStatus) ([]marketplace.RideRequest, error) {
	if !status.Valid() {
		return nil, marketplace.BadRequestf("invalid ride request status %q", status)
	}
	return s.store.Repo().ListRideRequests(ctx, marketplace.RideRequestFilter{Status: status})
}

// Search filters by rider email and status; either may be empty.
func (s *Service) Search(ctx context.Context, riderEmail string, status marketplace.RideRequestStatus) ([]marketplace.RideRequest, error) {
	repo := s.store.Repo()
	var f marketplace.RideRequestFilter
	if riderEmail != "" {
		c, ok, err := repo.CustomerByEmail(ctx, riderEmail)
		if err != nil || !ok {
			return nil, err
		}
		f.RiderID = c.ID
	}
	if status != "" && !status.Valid() {
		return nil, marketplace.BadRequestf("invalid ride request status %q", status)
	}
	f.Status = status
	return repo.ListRideRequests(ctx, f)
}
