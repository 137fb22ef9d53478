package trips

import (
	"context"
	"fmt"
	"time"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/metrics"
	"github.com/ridemarket/marketplace/internal/redisx"
	"github.com/ridemarket/marketplace/internal/rides"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxDurationMin = 1440

type Service struct {
	store marketplace.Store
	fx    effects.Effects
	log   *zap.Logger
}

func NewService(store marketplace.Store, fx effects.Effects) *Service {
	return &Service{store: store, fx: fx, log: fx.Logger()}
}

// Details are the measured parts of a trip.
type Details struct {
	StartTime    time.Time
	EndTime      time.Time
	DistanceKm   float64
	DurationMin  int
	TotalCost    decimal.Decimal
	CarImagePath string
}

func (d Details) validate() error {
	switch {
	case d.DistanceKm <= 0:
		return marketplace.BadRequestf("distance must be greater than 0")
	case d.DurationMin < 1 || d.DurationMin > maxDurationMin:
		return marketplace.BadRequestf("duration must be between 1 and %d minutes", maxDurationMin)
	case !d.TotalCost.IsPositive():
		return marketplace.BadRequestf("total cost must be greater than 0")
	case !d.EndTime.After(d.StartTime):
		return marketplace.BadRequestf("end time must be after start time")
	}
	return nil
}

func (d Details) apply(t *marketplace.Trip) {
	t.StartTime = d.StartTime
	t.EndTime = d.EndTime
	t.DistanceKm = d.DistanceKm
	t.DurationMin = d.DurationMin
	t.TotalCost = d.TotalCost
	t.CarImagePath = d.CarImagePath
}

type CreateTripInput struct {
	DriverEmail   string
	RiderEmail    string
	RideRequestID *int64
	OrderID       *int64
	// Status defaults to Requested.
	Status marketplace.TripStatus
	Details
}

// newTripPayload is what the driver receives when a trip is assigned.
type newTripPayload struct {
	TripID      int64 `json:"trip_id"`
	ReferenceID int64 `json:"reference_id"`
}

// CreateTrip binds a driver and a rider, and optionally the ride request or
// order the trip comes from. The trip stores ids, never emails.
func (s *Service) CreateTrip(ctx context.Context, in CreateTripInput) (marketplace.Trip, error) {
	if in.RideRequestID != nil && in.OrderID != nil {
		return marketplace.Trip{}, marketplace.BadRequestf("a trip comes from a ride request or an order, not both")
	}
	if err := in.Details.validate(); err != nil {
		return marketplace.Trip{}, err
	}
	if in.Status == "" {
		in.Status = marketplace.TripRequested
	}
	if !in.Status.Valid() {
		return marketplace.Trip{}, marketplace.BadRequestf("invalid trip status %q", in.Status)
	}

	var (
		t      marketplace.Trip
		driver marketplace.DriverProfile
	)
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if driver, err = marketplace.ResolveDriver(ctx, r, in.DriverEmail); err != nil {
			return err
		}
		rider, err := marketplace.ResolveCustomer(ctx, r, in.RiderEmail)
		if err != nil {
			return err
		}
		t = marketplace.Trip{DriverID: driver.ID, RiderID: rider.ID, Status: in.Status}
		in.Details.apply(&t)

		if in.RideRequestID != nil {
			rr, ok, err := r.RideRequestByID(ctx, *in.RideRequestID)
			if err != nil {
				return fmt.Errorf("ride request by id: %w", err)
			}
			if !ok {
				return marketplace.NotFoundf("RideRequest with Id %d not found", *in.RideRequestID)
			}
			if rr.Status != marketplace.RideAccepted {
				return marketplace.BadRequestf("RideRequest %d is %s, only accepted requests become trips", rr.ID, rr.Status)
			}
			t.RideRequestID = &rr.ID
		}
		if in.OrderID != nil {
			o, ok, err := r.OrderByID(ctx, *in.OrderID)
			if err != nil {
				return fmt.Errorf("order by id: %w", err)
			}
			if !ok {
				return marketplace.NotFoundf("Order with Id %d not found", *in.OrderID)
			}
			t.OrderID = &o.ID
		}
		return r.InsertTrip(ctx, &t)
	})
	if err != nil {
		return marketplace.Trip{}, err
	}

	s.log.Info("trip created",
		zap.Int64("trip_id", t.ID),
		zap.Int64("driver_id", t.DriverID),
		zap.Int64("rider_id", t.RiderID),
	)
	s.fx.Evict(ctx, redisx.KeyAllTrips, fmt.Sprintf(redisx.KeyTrip, t.ID))
	s.fx.NotifyUser(ctx, driver.Email, marketplace.EventNewTrip, newTripPayload{TripID: t.ID, ReferenceID: referenceID(t)})
	return t, nil
}

func referenceID(t marketplace.Trip) int64 {
	switch {
	case t.OrderID != nil:
		return *t.OrderID
	case t.RideRequestID != nil:
		return *t.RideRequestID
	}
	return 0
}

// UpdateTripStatus moves the trip along Requested, Ongoing, Completed, or to
// Canceled from any non-terminal state. Completing a trip that came from a
// ride request completes the request in the same transaction.
func (s *Service) UpdateTripStatus(ctx context.Context, id int64, to marketplace.TripStatus) (marketplace.Trip, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Trip{}, err
	}
	if !to.Valid() {
		return marketplace.Trip{}, marketplace.BadRequestf("invalid trip status %q", to)
	}
	var (
		t    marketplace.Trip
		from marketplace.TripStatus
	)
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if t, err = marketplace.ResolveTrip(ctx, r, id); err != nil {
			return err
		}
		from = t.Status
		return s.move(ctx, r, &t, to)
	})
	if err != nil {
		return marketplace.Trip{}, err
	}
	if from != to {
		s.log.Info("trip status changed", zap.Int64("trip_id", id), zap.String("from", string(from)), zap.String("to", string(to)))
	}
	s.fx.Evict(ctx, redisx.KeyAllTrips, fmt.Sprintf(redisx.KeyTrip, id))
	return t, nil
}

func (s *Service) move(ctx context.Context, r marketplace.Repository, t *marketplace.Trip, to marketplace.TripStatus) error {
	from := t.Status
	if from == to {
		return nil
	}
	if !marketplace.CanTransitionTrip(from, to) {
		return marketplace.BadRequestf("Trip %d is %s and cannot become %s", t.ID, from, to)
	}
	t.Status = to
	if err := r.UpdateTrip(ctx, *t); err != nil {
		return err
	}
	if to == marketplace.TripCompleted && t.RideRequestID != nil {
		if err := rides.Complete(ctx, r, *t.RideRequestID); err != nil {
			return err
		}
	}
	metrics.TripTransitions.WithLabelValues(string(from), string(to)).Inc()
	return nil
}

type UpdateTripInput struct {
	// DriverEmail rebinds the driver when set.
	DriverEmail string
	// Status, when set, goes through the same transitions as UpdateTripStatus.
	Status marketplace.TripStatus
	Details
}

func (s *Service) UpdateTrip(ctx context.Context, id int64, in UpdateTripInput) (marketplace.Trip, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Trip{}, err
	}
	if err := in.Details.validate(); err != nil {
		return marketplace.Trip{}, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return marketplace.Trip{}, marketplace.BadRequestf("invalid trip status %q", in.Status)
	}
	var t marketplace.Trip
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if t, err = marketplace.ResolveTrip(ctx, r, id); err != nil {
			return err
		}
		if in.DriverEmail != "" {
			d, err := marketplace.ResolveDriver(ctx, r, in.DriverEmail)
			if err != nil {
				return err
			}
			t.DriverID = d.ID
		}
		in.Details.apply(&t)
		if err := r.UpdateTrip(ctx, t); err != nil {
			return err
		}
		if in.Status != "" {
			return s.move(ctx, r, &t, in.Status)
		}
		return nil
	})
	if err != nil {
		return marketplace.Trip{}, err
	}
	s.fx.Evict(ctx, redisx.KeyAllTrips, fmt.Sprintf(redisx.KeyTrip, id))
	return t, nil
}

func (s *Service) DeleteTrip(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, err := marketplace.ResolveTrip(ctx, r, id); err != nil {
			return err
		}
		return r.DeleteTrip(ctx, id)
	})
	if err != nil {
		return err
	}
	s.fx.Evict(ctx, redisx.KeyAllTrips, fmt.Sprintf(redisx.KeyTrip, id))
	return nil
}

func (s *Service) GetTrip(ctx context.Context, id int64) (marketplace.Trip, error) {
	return marketplace.ResolveTrip(ctx, s.store.Repo(), id)
}

func (s *Service) ListTrips(ctx context.Context) ([]marketplace.Trip, error) {
	return s.store.Repo().ListTrips(ctx, marketplace.TripFilter{})
}

func (s *Service) TripsByDriver(ctx context.Context, email string) ([]marketplace.Trip, error) {
	repo := s.store.Repo()
	d, err := marketplace.ResolveDriver(ctx, repo, email)
	if err != nil {
		return nil, err
	}
	return repo.ListTrips(ctx, marketplace.TripFilter{DriverID: d.ID})
}

// SearchTrips filters by any combination of driver, rider and status.
// Emails that do not resolve yield an empty result.
func (s *Service) SearchTrips(ctx context.Context, driverEmail, riderEmail string, status marketplace.TripStatus) ([]marketplace.Trip, error) {
	repo := s.store.Repo()
	var f marketplace.TripFilter
	if driverEmail != "" {
		d, ok, err := repo.DriverByEmail(ctx, driverEmail)
		if err != nil || !ok {
			return nil, err
		}
		f.DriverID = d.ID
	}
	if riderEmail != "" {
		c, ok, err := repo.CustomerByEmail(ctx, riderEmail)
		if err != nil || !ok {
			return nil, err
		}
		f.RiderID = c.ID
	}
	if status != "" && !status.Valid() {
		return nil, marketplace.BadRequestf("invalid trip status %q", status)
	}
	f.Status = status
	return repo.ListTrips(ctx, f)
}
