package payments

import (
	"context"
	"fmt"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/redisx"
	"github.com/shopspring/decimal"
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

type CreatePaymentInput struct {
	CustomerEmail string
	TripID        int64
	Method        marketplace.PaymentMethod
	// Status defaults to Pending.
	Status marketplace.PaymentStatus
	// MerchantEmail is optional; when set it must resolve.
	MerchantEmail string
	// ClientPrice is accepted from callers and never used. The charged
	// amount is always the trip's total cost.
	ClientPrice *decimal.Decimal
}

type StatusPayload struct {
	PaymentID int64                     `json:"payment_id"`
	TripID    int64                     `json:"trip_id"`
	Status    marketplace.PaymentStatus `json:"status"`
	Total     decimal.Decimal           `json:"total"`
}

func payload(p marketplace.Payment) StatusPayload {
	return StatusPayload{PaymentID: p.ID, TripID: p.TripID, Status: p.Status, Total: p.TotalPrice}
}

// CreatePayment records one payment for a trip, priced from the trip.
// A trip can only be paid once.
func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (marketplace.Payment, error) {
	if !in.Method.Valid() {
		return marketplace.Payment{}, marketplace.BadRequestf("invalid payment method %q", in.Method)
	}
	if in.Status == "" {
		in.Status = marketplace.PaymentPending
	}
	if !in.Status.Valid() {
		return marketplace.Payment{}, marketplace.BadRequestf("invalid payment status %q", in.Status)
	}
	var (
		p        marketplace.Payment
		customer marketplace.Customer
		merchant marketplace.Merchant
	)
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if customer, err = marketplace.ResolveCustomer(ctx, r, in.CustomerEmail); err != nil {
			return err
		}
		trip, err := marketplace.ResolveTrip(ctx, r, in.TripID)
		if err != nil {
			return err
		}
		p = marketplace.Payment{
			TripID:     trip.ID,
			CustomerID: customer.ID,
			Method:     in.Method,
			Status:     in.Status,
			TotalPrice: trip.TotalCost,
		}
		if in.MerchantEmail != "" {
			if merchant, err = marketplace.ResolveMerchant(ctx, r, in.MerchantEmail); err != nil {
				return err
			}
			p.MerchantID = &merchant.ID
		}
		existing, err := r.ListPayments(ctx, marketplace.PaymentFilter{TripID: trip.ID})
		if err != nil {
			return fmt.Errorf("payments by trip: %w", err)
		}
		if len(existing) > 0 {
			return marketplace.Conflictf("Trip with Id %d already has a payment", trip.ID)
		}
		return r.InsertPayment(ctx, &p)
	})
	if err != nil {
		return marketplace.Payment{}, err
	}

	if in.ClientPrice != nil && !in.ClientPrice.Equal(p.TotalPrice) {
		s.log.Warn("client price ignored",
			zap.Int64("trip_id", p.TripID),
			zap.String("client_price", in.ClientPrice.String()),
			zap.String("total_price", p.TotalPrice.String()),
		)
	}
	s.log.Info("payment created", zap.Int64("payment_id", p.ID), zap.Int64("trip_id", p.TripID))
	s.evict(ctx, p.ID, customer.Email, merchant.Email)
	s.fx.NotifyUser(ctx, customer.Email, marketplace.EventPaymentCreated, payload(p))
	return p, nil
}

// UpdatePayment changes method and status only. The price stays as captured.
func (s *Service) UpdatePayment(ctx context.Context, id int64, method marketplace.PaymentMethod, status marketplace.PaymentStatus) (marketplace.Payment, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Payment{}, err
	}
	if !method.Valid() {
		return marketplace.Payment{}, marketplace.BadRequestf("invalid payment method %q", method)
	}
	if !status.Valid() {
		return marketplace.Payment{}, marketplace.BadRequestf("invalid payment status %q", status)
	}
	var (
		p        marketplace.Payment
		customer marketplace.Customer
		merchant marketplace.Merchant
	)
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if p, err = load(ctx, r, id); err != nil {
			return err
		}
		p.Method = method
		p.Status = status
		if err := r.UpdatePayment(ctx, p); err != nil {
			return err
		}
		customer, merchant = parties(ctx, r, p)
		return nil
	})
	if err != nil {
		return marketplace.Payment{}, err
	}

	s.log.Info("payment updated", zap.Int64("payment_id", id), zap.String("status", string(status)))
	s.evict(ctx, id, customer.Email, merchant.Email)
	s.fx.NotifyGroup(ctx, marketplace.GroupAdmins, marketplace.EventPaymentUpdate, payload(p))
	s.fx.NotifyUser(ctx, customer.Email, marketplace.EventPaymentStatusUpdated, payload(p))
	return p, nil
}

func (s *Service) DeletePayment(ctx context.Context, id int64) error {
	if err := marketplace.CheckID(id); err != nil {
		return err
	}
	var customer, merchantEmail string
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		p, err := load(ctx, r, id)
		if err != nil {
			return err
		}
		c, m := parties(ctx, r, p)
		customer, merchantEmail = c.Email, m.Email
		return r.DeletePayment(ctx, id)
	})
	if err != nil {
		return err
	}
	s.evict(ctx, id, customer, merchantEmail)
	return nil
}

func load(ctx context.Context, r marketplace.PaymentRepository, id int64) (marketplace.Payment, error) {
	p, ok, err := r.PaymentByID(ctx, id)
	if err != nil {
		return p, fmt.Errorf("payment by id: %w", err)
	}
	if !ok {
		return p, marketplace.NotFoundf("Payment with Id %d not found", id)
	}
	return p, nil
}

// parties loads the customer and merchant of a payment. Missing rows stay zero.
func parties(ctx context.Context, r marketplace.ProfileRepository, p marketplace.Payment) (c marketplace.Customer, m marketplace.Merchant) {
	c, _, _ = r.CustomerByID(ctx, p.CustomerID)
	if p.MerchantID != nil {
		m, _, _ = r.MerchantByID(ctx, *p.MerchantID)
	}
	return c, m
}

func (s *Service) evict(ctx context.Context, id int64, customerEmail, merchantEmail string) {
	keys := []string{redisx.KeyAllPayments, fmt.Sprintf(redisx.KeyPayment, id)}
	if customerEmail != "" {
		keys = append(keys, redisx.ByEmail(redisx.KeyPaymentsCustomer, customerEmail))
	}
	if merchantEmail != "" {
		keys = append(keys, redisx.ByEmail(redisx.KeyPaymentsMerchant, merchantEmail))
	}
	s.fx.Evict(ctx, keys...)
}

func (s *Service) GetPayment(ctx context.Context, id int64) (marketplace.Payment, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Payment{}, err
	}
	return load(ctx, s.store.Repo(), id)
}

func (s *Service) ListPayments(ctx context.Context) ([]marketplace.Payment, error) {
	return s.store.Repo().ListPayments(ctx, marketplace.PaymentFilter{})
}

func (s *Service) PaymentsByCustomer(ctx context.Context, email string) ([]marketplace.Payment, error) {
	repo := s.store.Repo()
	c, err := marketplace.ResolveCustomer(ctx, repo, email)
	if err != nil {
		return nil, err
	}
	return repo.ListPayments(ctx, marketplace.PaymentFilter{CustomerID: c.ID})
}

func (s *Service) PaymentsByMerchant(ctx context.Context, email string) ([]marketplace.Payment, error) {
	repo := s.store.Repo()
	m, err := marketplace.ResolveMerchant(ctx, repo, email)
	if err != nil {
		return nil, err
	}
	return repo.ListPayments(ctx, marketplace.PaymentFilter{MerchantID: m.ID})
}

// SearchPayments filters by customer, status and method; any may be empty.
func (s *Service) SearchPayments(ctx context.Context, customerEmail string, status marketplace.PaymentStatus, method marketplace.PaymentMethod) ([]marketplace.Payment, error) {
	repo := s.store.Repo()
	var f marketplace.PaymentFilter
	if customerEmail != "" {
		c, ok, err := repo.CustomerByEmail(ctx, customerEmail)
		if err != nil || !ok {
			return nil, err
		}
		f.CustomerID = c.ID
	}
	if status != "" && !status.Valid() {
		return nil, marketplace.BadRequestf("invalid payment status %q", status)
	}
	if method != "" && !method.Valid() {
		return nil, marketplace.BadRequestf("invalid payment method %q", method)
	}
	f.Status, f.Method = status, method
	return repo.ListPayments(ctx, f)
}
