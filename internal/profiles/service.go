package profiles

import (
	"context"
	"fmt"
	"strings"

	"github.com/ridemarket/marketplace/internal/logger"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"go.uber.org/zap"
)

type Service struct {
	store marketplace.Store
	log   *zap.Logger
}

func NewService(store marketplace.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: logger.OrNop(log)}
}

type CustomerInput struct {
	Email   string
	Name    string
	Address string
	City    string
	Region  string
}

func (s *Service) RegisterCustomer(ctx context.Context, in CustomerInput) (marketplace.Customer, error) {
	if err := marketplace.RequireEmail("Customer", in.Email); err != nil {
		return marketplace.Customer{}, err
	}
	c := marketplace.Customer{
		Email: strings.TrimSpace(in.Email), Name: in.Name,
		Address: in.Address, City: in.City, Region: in.Region,
	}
	if err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		return r.InsertCustomer(ctx, &c)
	}); err != nil {
		return marketplace.Customer{}, err
	}
	s.log.Info("customer registered", zap.Int64("customer_id", c.ID))
	return c, nil
}

type MerchantInput struct {
	Email    string
	Name     string
	Address  string
	Location marketplace.Coordinate
}

func (s *Service) RegisterMerchant(ctx context.Context, in MerchantInput) (marketplace.Merchant, error) {
	if err := marketplace.RequireEmail("Merchant", in.Email); err != nil {
		return marketplace.Merchant{}, err
	}
	m := marketplace.Merchant{
		Email: strings.TrimSpace(in.Email), Name: in.Name,
		Address: in.Address, Location: in.Location,
	}
	if err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		return r.InsertMerchant(ctx, &m)
	}); err != nil {
		return marketplace.Merchant{}, err
	}
	s.log.Info("merchant registered", zap.Int64("merchant_id", m.ID))
	return m, nil
}

type DriverInput struct {
	Email       string
	Name        string
	VehicleType string
	PlateNumber string
}

func (s *Service) RegisterDriver(ctx context.Context, in DriverInput) (marketplace.DriverProfile, error) {
	if err := marketplace.RequireEmail("Driver", in.Email); err != nil {
		return marketplace.DriverProfile{}, err
	}
	if len(in.VehicleType) < 3 {
		return marketplace.DriverProfile{}, marketplace.BadRequestf("vehicle type must be at least 3 characters")
	}
	if len(in.PlateNumber) < 5 {
		return marketplace.DriverProfile{}, marketplace.BadRequestf("plate number must be at least 5 characters")
	}
	d := marketplace.DriverProfile{
		Email: strings.TrimSpace(in.Email), Name: in.Name,
		VehicleType: in.VehicleType, PlateNumber: in.PlateNumber,
		Status: marketplace.DriverActive,
	}
	if err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		return r.InsertDriver(ctx, &d)
	}); err != nil {
		return marketplace.DriverProfile{}, err
	}
	s.log.Info("driver registered", zap.Int64("driver_id", d.ID))
	return d, nil
}

func (s *Service) ChangeDriverStatus(ctx context.Context, id int64, status marketplace.DriverStatus) (marketplace.DriverProfile, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.DriverProfile{}, err
	}
	if !status.Valid() {
		return marketplace.DriverProfile{}, marketplace.BadRequestf("invalid driver status %q", status)
	}
	var d marketplace.DriverProfile
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var ok bool
		var err error
		d, ok, err = r.DriverByID(ctx, id)
		if err != nil {
			return fmt.Errorf("driver by id: %w", err)
		}
		if !ok {
			return marketplace.NotFoundf("Driver with Id %d not found", id)
		}
		d.Status = status
		return r.UpdateDriver(ctx, d)
	})
	return d, err
}

func (s *Service) DriverByEmail(ctx context.Context, email string) (marketplace.DriverProfile, error) {
	return marketplace.ResolveDriver(ctx, s.store.Repo(), email)
}

func (s *Service) CustomerByEmail(ctx context.Context, email string) (marketplace.Customer, error) {
	return marketplace.ResolveCustomer(ctx, s.store.Repo(), email)
}

func (s *Service) ListDrivers(ctx context.Context) ([]marketplace.DriverProfile, error) {
	return s.store.Repo().ListDrivers(ctx)
}

func (s *Service) ListCustomers(ctx context.Context) ([]marketplace.Customer, error) {
	return s.store.Repo().ListCustomers(ctx)
}

func (s *Service) ListMerchants(ctx context.Context) ([]marketplace.Merchant, error) {
	return s.store.Repo().ListMerchants(ctx)
}
