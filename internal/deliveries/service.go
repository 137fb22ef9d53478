package deliveries

import (
	"context"
	"fmt"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/redisx"
	"go.uber.org/zap"
)

type Service struct {
	store marketplace.Store
	fx    effects.Effects
	log   *zap.Logger
}

func NewService(store marketplace.Store, fx effects.Effects) *Service {
	return &Service{store: store, fx: fx, log: fx.Logger()}
}

type CreateDeliveryInput struct {
	DriverEmail string
	TripID      int64
	Pickup      marketplace.Coordinate
	Dropoff     marketplace.Coordinate
	// Status defaults to Pending.
	Status marketplace.DeliveryStatus
}

// UpdatePayload is pushed to the Admins group after every change.
type UpdatePayload struct {
	DeliveryID int64                      `json:"delivery_id"`
	TripID     int64                      `json:"trip_id"`
	Status     marketplace.DeliveryStatus `json:"status"`
}

func (s *Service) CreateDelivery(ctx context.Context, in CreateDeliveryInput) (marketplace.Delivery, error) {
	if in.Status == "" {
		in.Status = marketplace.DeliveryPending
	}
	if !in.Status.Valid() {
		return marketplace.Delivery{}, marketplace.BadRequestf("invalid delivery status %q", in.Status)
	}
	var d marketplace.Delivery
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		driver, err := marketplace.ResolveDriver(ctx, r, in.DriverEmail)
		if err != nil {
			return err
		}
		trip, err := marketplace.ResolveTrip(ctx, r, in.TripID)
		if err != nil {
			return err
		}
		d = marketplace.Delivery{
			DriverID: driver.ID,
			TripID:   trip.ID,
			Pickup:   in.Pickup,
			Dropoff:  in.Dropoff,
			Status:   in.Status,
		}
		return r.InsertDelivery(ctx, &d)
	})
	if err != nil {
		return marketplace.Delivery{}, err
	}
	s.log.Info("delivery created", zap.Int64("delivery_id", d.ID), zap.Int64("trip_id", d.TripID))
	s.after(ctx, d)
	return d, nil
}

type UpdateDeliveryInput struct {
	// DriverEmail must belong to the driver the delivery is assigned to.
	DriverEmail string
	Pickup      marketplace.Coordinate
	Dropoff     marketplace.Coordinate
	// Status, when set, goes through the delivery transitions.
	Status marketplace.DeliveryStatus
}

// UpdateDelivery is keyed by delivery id. The driver email is checked
// against the delivery, it does not select it.
func (s *Service) UpdateDelivery(ctx context.Context, id int64, in UpdateDeliveryInput) (marketplace.Delivery, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Delivery{}, err
	}
	if in.Status != "" && !in.Status.Valid() {
		return marketplace.Delivery{}, marketplace.BadRequestf("invalid delivery status %q", in.Status)
	}
	var d marketplace.Delivery
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if d, err = load(ctx, r, id); err != nil {
			return err
		}
		driver, err := marketplace.ResolveDriver(ctx, r, in.DriverEmail)
		if err != nil {
			return err
		}
		if driver.ID != d.DriverID {
			return marketplace.BadRequestf("Delivery %d is not assigned to %s", id, in.DriverEmail)
		}
		d.Pickup = in.Pickup
		d.Dropoff = in.Dropoff
		if in.Status != "" {
			if err := advance(&d, in.Status); err != nil {
				return err
			}
		}
		return r.UpdateDelivery(ctx, d)
	})
	if err != nil {
		return marketplace.Delivery{}, err
	}
	s.after(ctx, d)
	return d, nil
}

// UpdateDeliveryStatus runs Pending, PickedUp, InTransit, Delivered, with
// Canceled reachable from any non-terminal state.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, id int64, status marketplace.DeliveryStatus) (marketplace.Delivery, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Delivery{}, err
	}
	if !status.Valid() {
		return marketplace.Delivery{}, marketplace.BadRequestf("invalid delivery status %q", status)
	}
	var d marketplace.Delivery
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if d, err = load(ctx, r, id); err != nil {
			return err
		}
		if err := advance(&d, status); err != nil {
			return err
		}
		return r.UpdateDelivery(ctx, d)
	})
	if err != nil {
		return marketplace.Delivery{}, err
	}
	s.log.Info("delivery status changed", zap.Int64("delivery_id", id), zap.String("status", string(status)))
	s.after(ctx, d)
	return d, nil
}

func advance(d *marketplace.Delivery, to marketplace.DeliveryStatus) error {
	if d.Status == to {
		return nil
	}
	if !marketplace.CanTransitionDelivery(d.Status, to) {
		return marketplace.BadRequestf("Delivery %d is %s and cannot become %s", d.ID, d.Status, to)
	}
	d.Status = to
	return nil
}

func load(ctx context.Context, r marketplace.DeliveryRepository, id int64) (marketplace.Delivery, error) {
	d, ok, err := r.DeliveryByID(ctx, id)
	if err != nil {
		return d, fmt.Errorf("delivery by id: %w", err)
	}
	if !ok {
		return d, marketplace.NotFoundf("Delivery with Id %d not found", id)
	}
	return d, nil
}

func (s *Service) after(ctx context.Context, d marketplace.Delivery) {
	s.fx.Evict(ctx, redisx.KeyAllDeliveries, fmt.Sprintf(redisx.KeyDelivery, d.ID))
	s.fx.NotifyGroup(ctx, marketplace.GroupAdmins, marketplace.EventDeliveryUpdate,
		UpdatePayload{DeliveryID: d.ID, TripID: d.TripID, Status: d.Status})
}

func (s *Service) DeleteDelivery(ctx context.Context, id int64) error {
	if err := marketplace.CheckID(id); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, err := load(ctx, r, id); err != nil {
			return err
		}
		return r.DeleteDelivery(ctx, id)
	})
	if err != nil {
		return err
	}
	s.fx.Evict(ctx, redisx.KeyAllDeliveries, fmt.Sprintf(redisx.KeyDelivery, id))
	return nil
}

func (s *Service) GetDelivery(ctx context.Context, id int64) (marketplace.Delivery, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Delivery{}, err
	}
	return load(ctx, s.store.Repo(), id)
}

func (s *Service) ListDeliveries(ctx context.Context) ([]marketplace.Delivery, error) {
	return s.store.Repo().ListDeliveries(ctx, marketplace.DeliveryFilter{})
}

func (s *Service) DeliveriesByStatus(ctx context.Context, status marketplace.DeliveryStatus) ([]marketplace.Delivery, error) {
	if !status.Valid() {
		return nil, marketplace.BadRequestf("invalid delivery status %q", status)
	}
	return s.store.Repo().ListDeliveries(ctx, marketplace.DeliveryFilter{Status: status})
}

// SearchDeliveries lists a driver's deliveries. An unknown email yields nothing.
func (s *Service) SearchDeliveries(ctx context.Context, driverEmail string) ([]marketplace.Delivery, error) {
	repo := s.store.Repo()
	d, ok, err := repo.DriverByEmail(ctx, driverEmail)
	if err != nil || !ok {
		return nil, err
	}
	return repo.ListDeliveries(ctx, marketplace.DeliveryFilter{DriverID: d.ID})
}
