package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/ridemarket/marketplace/internal/logger"
	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxItemName = 100

type Service struct {
	store marketplace.Store
	log   *zap.Logger
}

func NewService(store marketplace.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: logger.OrNop(log)}
}

func (s *Service) CreateCategory(ctx context.Context, name string) (marketplace.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return marketplace.Category{}, marketplace.BadRequestf("category name is required")
	}
	c := marketplace.Category{Name: name}
	if err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		return r.InsertCategory(ctx, &c)
	}); err != nil {
		return marketplace.Category{}, err
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]marketplace.Category, error) {
	return s.store.Repo().ListCategories(ctx)
}

type CategoryWithItems struct {
	marketplace.Category
	Items []marketplace.Item `json:"items"`
}

func (s *Service) CategoryWithItems(ctx context.Context, id int64) (CategoryWithItems, error) {
	if err := marketplace.CheckID(id); err != nil {
		return CategoryWithItems{}, err
	}
	repo := s.store.Repo()
	c, ok, err := repo.CategoryByID(ctx, id)
	if err != nil {
		return CategoryWithItems{}, fmt.Errorf("category by id: %w", err)
	}
	if !ok {
		return CategoryWithItems{}, marketplace.NotFoundf("Category with Id %d not found", id)
	}
	its, err := repo.ListItems(ctx, marketplace.ItemFilter{CategoryID: id})
	if err != nil {
		return CategoryWithItems{}, err
	}
	return CategoryWithItems{Category: c, Items: its}, nil
}

type ItemInput struct {
	Name          string
	Price         decimal.Decimal
	Quantity      int
	CategoryName  string
	MerchantEmail string
}

func (in ItemInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return marketplace.BadRequestf("item name is required")
	case len(in.Name) > maxItemName:
		return marketplace.BadRequestf("item name must be at most %d characters", maxItemName)
	case !in.Price.IsPositive():
		return marketplace.BadRequestf("price must be greater than 0")
	case in.Quantity < 0:
		return marketplace.BadRequestf("quantity must not be negative")
	}
	return nil
}

// resolve binds the category name and merchant email to ids.
func resolve(ctx context.Context, r marketplace.Repository, in ItemInput) (marketplace.Item, error) {
	cat, ok, err := r.CategoryByName(ctx, in.CategoryName)
	if err != nil {
		return marketplace.Item{}, fmt.Errorf("category by name: %w", err)
	}
	if !ok {
		return marketplace.Item{}, marketplace.NotFoundf("Category %s not found", in.CategoryName)
	}
	m, err := marketplace.ResolveMerchant(ctx, r, in.MerchantEmail)
	if err != nil {
		return marketplace.Item{}, err
	}
	return marketplace.Item{
		CategoryID: cat.ID, MerchantID: m.ID,
		Name: strings.TrimSpace(in.Name), Price: in.Price, Quantity: in.Quantity,
	}, nil
}

func (s *Service) CreateItem(ctx context.Context, in ItemInput) (marketplace.Item, error) {
	if err := in.validate(); err != nil {
		return marketplace.Item{}, err
	}
	var it marketplace.Item
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		var err error
		if it, err = resolve(ctx, r, in); err != nil {
			return err
		}
		return r.InsertItem(ctx, &it)
	})
	if err != nil {
		return marketplace.Item{}, err
	}
	s.log.Info("item created", zap.Int64("item_id", it.ID), zap.Int("quantity", it.Quantity))
	return it, nil
}

// UpdateItem overwrites the item, including its stock level.
func (s *Service) UpdateItem(ctx context.Context, id int64, in ItemInput) (marketplace.Item, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Item{}, err
	}
	if err := in.validate(); err != nil {
		return marketplace.Item{}, err
	}
	var it marketplace.Item
	err := s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, ok, err := r.ItemForUpdate(ctx, id); err != nil {
			return fmt.Errorf("item by id: %w", err)
		} else if !ok {
			return marketplace.NotFoundf("Item with Id %d not found", id)
		}
		var err error
		if it, err = resolve(ctx, r, in); err != nil {
			return err
		}
		it.ID = id
		return r.UpdateItem(ctx, it)
	})
	if err != nil {
		return marketplace.Item{}, err
	}
	return it, nil
}

func (s *Service) GetItem(ctx context.Context, id int64) (marketplace.Item, error) {
	if err := marketplace.CheckID(id); err != nil {
		return marketplace.Item{}, err
	}
	it, ok, err := s.store.Repo().ItemByID(ctx, id)
	if err != nil {
		return marketplace.Item{}, err
	}
	if !ok {
		return marketplace.Item{}, marketplace.NotFoundf("Item with Id %d not found", id)
	}
	return it, nil
}

func (s *Service) ListItems(ctx context.Context) ([]marketplace.Item, error) {
	return s.store.Repo().ListItems(ctx, marketplace.ItemFilter{})
}

func (s *Service) ItemsByCategory(ctx context.Context, name string) ([]marketplace.Item, error) {
	repo := s.store.Repo()
	cat, ok, err := repo.CategoryByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, marketplace.NotFoundf("Category %s not found", name)
	}
	return repo.ListItems(ctx, marketplace.ItemFilter{CategoryID: cat.ID})
}

func (s *Service) ItemsByMerchant(ctx context.Context, email string) ([]marketplace.Item, error) {
	repo := s.store.Repo()
	m, err := marketplace.ResolveMerchant(ctx, repo, email)
	if err != nil {
		return nil, err
	}
	return repo.ListItems(ctx, marketplace.ItemFilter{MerchantID: m.ID})
}

func (s *Service) DeleteItem(ctx context.Context, id int64) error {
	if err := marketplace.CheckID(id); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(r marketplace.Repository) error {
		if _, ok, err := r.ItemByID(ctx, id); err != nil {
			return err
		} else if !ok {
			return marketplace.NotFoundf("Item with Id %d not found", id)
		}
		return r.DeleteItem(ctx, id)
	})
}
