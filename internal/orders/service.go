package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ridemarket/marketplace/internal/effects"
	"github.com/ridemarket/marketplace/internal/inventory"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/metrics"
	"github.com/ridemarket/marketplace/internal/redisx"
	"go.uber.org/zap"
)

type Service struct {
	store  marketplace.Store
	ledger *inventory.Ledger
	fx     effects.Effects
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store marketplace.Store, fx effects.Effects) *Service {
	log := fx.Logger()
	return &Service{
		store:  store,
		ledger: &inventory.Ledger{Log: log},
		fx:     fx,
		log:    log,
		now:    time.Now,
	}
}

type CreateOrderInput struct {
	CustomerEmail string
	ItemName      string
	Amount        int
	PaymentMethod marketplace.PaymentMethod
	// Status defaults to Pending.
	Status marketplace.OrderStatus
}

type UpdateOrderInput = CreateOrderInput

func (in *CreateOrderInput) normalize() error {
	if in.Amount <= 0 {
		return marketplace.BadRequestf("amount must be greater than 0")
	}
	if strings.TrimSpace(in.ItemName) == "" {
		return marketplace.BadRequestf("item name is required")
	}
	if !in.PaymentMethod.Valid() {
		return marketplace.BadRequestf("invalid payment method %q", in.PaymentMethod)
	}
	if in.Status == "" {
		in.Status = marketplace.OrderPending
	}
	if !in.Status.Valid() {
		return marketplace.BadRequestf("invalid order status %q", in.Status)
	}
	return nil
}

// binding is the resolved set of rows an order points at.
type binding struct {
	customer marketplace.Customer
	merchant marketplace.Merchant
	item     marketplace.Item
}

// bind resolves customer, item, merchant and category in that order.
func bind(ctx context.Context, r marketplace.Repository, customerEmail, itemName string) (binding, error) {
	var b binding
	var err error
	if b.customer, err = marketplace.ResolveCustomer(ctx, r, customerEmail); err != nil {
		return b, err
	}
	it, ok, err := r.ItemByName(ctx, itemName)
	if err != nil {
		return b, fmt.Errorf("item by name: %w", err)
	}
	if !ok {
		return b, marketplace.NotFoundf("Item %s not found", itemName)
	}
	b.item = it
	m, ok, err := r.MerchantByID(ctx, it.MerchantID)
	if err != nil {
		return b, fmt.Errorf("merchant by id: %w", err)
	}
	if !ok {
		return b, marketplace.NotFoundf("Merchant with Id %d not found", it.MerchantID)
	}
	b.merchant = m
	if _, ok, err := r.CategoryByID(ctx, it.CategoryID); err != nil {
		return b, fmt.Errorf("category by id: %w", err)
	} else if !ok {
		return b, marketplace.NotFoundf("Category with Id %d not found", it.CategoryID)
	}
	return b, nil
}

// CreateOrder records the order and debits the item's stock in one transaction.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (marketplace.Order, error) {
	if err := in.normalize(); err != nil {
		return marketplace.Order{}, err
	}
	var (
		o      marketplace.Order
		b      binding
		remain int
	)
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if b, err = bind(ctx, r, in.CustomerEmail, in.ItemName); err != nil {
			return err
		}
		if _, err := s.ledger.Check(ctx, r, b.item.ID, in.Amount); err != nil {
			return err
		}
		o = marketplace.Order{
			CustomerID:    b.customer.ID,
			MerchantID:    b.merchant.ID,
			ItemID:        b.item.ID,
			TotalAmount:   in.Amount,
			Status:        in.Status,
			PaymentMethod: in.PaymentMethod,
			OrderDate:     s.now().UTC(),
		}
		if err := r.InsertOrder(ctx, &o); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		remain, err = s.ledger.Debit(ctx, r, b.item.ID, in.Amount)
		return err
	})
	if err != nil {
		s.log.Warn("create order failed", zap.String("item", in.ItemName), zap.Int("amount", in.Amount), zap.Error(err))
		return marketplace.Order{}, err
	}

	metrics.OrdersCreated.Inc()
	s.log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.Int64("item_id", o.ItemID),
		zap.Int("amount", o.TotalAmount),
		zap.Int("stock_left", remain),
	)
	s.evict(ctx, o.ID, b)
	return o, nil
}

// UpdateOrder rebinds the order. When the item or amount changes, the old
// debit is credited back and the new amount debited in the same transaction.
func (s *Service) UpdateOrder(ctx context.Context, id int64, in UpdateOrderInput) (marketplace.Order, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Order{}, err
	}
	if err := in.normalize(); err != nil {
		return marketplace.Order{}, err
	}
	var (
		o      marketplace.Order
		b, old binding
	)
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		prev, ok, err := r.OrderByID(ctx, id)
		if err != nil {
			return fmt.Errorf("order by id: %w", err)
		}
		if !ok {
			return marketplace.NotFoundf("Order with Id %d not found", id)
		}
		if old, err = previousBinding(ctx, r, prev); err != nil {
			return err
		}
		if b, err = bind(ctx, r, in.CustomerEmail, in.ItemName); err != nil {
			return err
		}
		if prev.ItemID != b.item.ID || prev.TotalAmount != in.Amount {
			if _, ok, err := r.ItemByID(ctx, prev.ItemID); err != nil {
				return err
			} else if ok {
				if _, err := s.ledger.Credit(ctx, r, prev.ItemID, prev.TotalAmount); err != nil {
					return err
				}
			}
			if _, err := s.ledger.Debit(ctx, r, b.item.ID, in.Amount); err != nil {
				return err
			}
		}
		o = prev
		o.CustomerID = b.customer.ID
		o.MerchantID = b.merchant.ID
		o.ItemID = b.item.ID
		o.TotalAmount = in.Amount
		o.Status = in.Status
		o.PaymentMethod = in.PaymentMethod
		return r.UpdateOrder(ctx, o)
	})
	if err != nil {
		return marketplace.Order{}, err
	}
	s.evict(ctx, o.ID, b, old)
	return o, nil
}

// DeleteOrder removes the row. Stock is not restored.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := marketplace.CheckID(id); err != nil {
		return err
	}
	var old binding
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		prev, ok, err := r.OrderByID(ctx, id)
		if err != nil {
			return fmt.Errorf("order by id: %w", err)
		}
		if !ok {
			return marketplace.NotFoundf("Order with Id %d not found", id)
		}
		if old, err = previousBinding(ctx, r, prev); err != nil {
			return err
		}
		return r.DeleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}
	s.evict(ctx, id, old)
	return nil
}

// previousBinding loads the customer and merchant an existing order points
// at, for cache eviction. Missing rows are left zero.
func previousBinding(ctx context.Context, r marketplace.Repository, o marketplace.Order) (binding, error) {
	var (
		b   binding
		err error
	)
	if b.customer, _, err = r.CustomerByID(ctx, o.CustomerID); err != nil {
		return b, fmt.Errorf("customer by id: %w", err)
	}
	if b.merchant, _, err = r.MerchantByID(ctx, o.MerchantID); err != nil {
		return b, fmt.Errorf("merchant by id: %w", err)
	}
	return b, nil
}

func (s *Service) evict(ctx context.Context, id int64, bs ...binding) {
	keys := []string{redisx.KeyAllOrders, fmt.Sprintf(redisx.KeyOrder, id)}
	for _, b := range bs {
		if b.customer.Email != "" {
			keys = append(keys, redisx.ByEmail(redisx.KeyOrdersCustomer, b.customer.Email))
		}
		if b.merchant.Email != "" {
			keys = append(keys, redisx.ByEmail(redisx.KeyOrdersMerchant, b.merchant.Email))
		}
	}
	s.fx.Evict(ctx, keys...)
}
