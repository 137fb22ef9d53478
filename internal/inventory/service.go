package inventory

import (
	"context"
	"fmt"

	"github.com/ridemarket/marketplace/internal/marketplace"
	"github.com/ridemarket/marketplace/internal/metrics"
	"go.uber.org/zap"
)

var ErrInsufficientStock = &marketplace.Error{Kind: marketplace.KindBadRequest, Msg: "insufficient stock"}

// Ledger applies stock movements inside a transaction owned by the caller.
// A debit commits or rolls back together with the row that caused it.
type Ledger struct {
	Log *zap.Logger
}

// Check locks the item row and verifies amount can be taken from it.
func (l *Ledger) Check(ctx context.Context, repo marketplace.CatalogRepository, itemID int64, amount int) (marketplace.Item, error) {
	if amount <= 0 {
		return marketplace.Item{}, marketplace.BadRequestf("amount must be greater than 0, got %d", amount)
	}
	it, ok, err := repo.ItemForUpdate(ctx, itemID)
	if err != nil {
		return marketplace.Item{}, fmt.Errorf("lock item %d: %w", itemID, err)
	}
	if !ok {
		return marketplace.Item{}, marketplace.NotFoundf("Item with Id %d not found", itemID)
	}
	if it.Quantity < amount {
		return it, l.reject(it, amount)
	}
	return it, nil
}

// Debit checks the stock and lowers it by amount. The update is floor
// guarded: quantity never goes below zero.
func (l *Ledger) Debit(ctx context.Context, repo marketplace.CatalogRepository, itemID int64, amount int) (int, error) {
	it, err := l.Check(ctx, repo, itemID, amount)
	if err != nil {
		return 0, err
	}
	qty, applied, err := repo.AdjustItemQuantity(ctx, itemID, -amount)
	if err != nil {
		return 0, fmt.Errorf("debit item %d: %w", itemID, err)
	}
	if !applied {
		return 0, l.reject(it, amount)
	}
	return qty, nil
}

// Credit returns amount units to the item, e.g. when an order is rewritten.
func (l *Ledger) Credit(ctx context.Context, repo marketplace.CatalogRepository, itemID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, marketplace.BadRequestf("amount must be greater than 0, got %d", amount)
	}
	if _, ok, err := repo.ItemForUpdate(ctx, itemID); err != nil {
		return 0, fmt.Errorf("lock item %d: %w", itemID, err)
	} else if !ok {
		return 0, marketplace.NotFoundf("Item with Id %d not found", itemID)
	}
	qty, _, err := repo.AdjustItemQuantity(ctx, itemID, amount)
	if err != nil {
		return 0, fmt.Errorf("credit item %d: %w", itemID, err)
	}
	return qty, nil
}

func (l *Ledger) reject(it marketplace.Item, amount int) error {
	metrics.StockRejections.Inc()
	if l.Log != nil {
		l.Log.Warn("stock rejected",
			zap.Int64("item_id", it.ID),
			zap.Int("requested", amount),
			zap.Int("available", it.Quantity),
		)
	}
	return fmt.Errorf("Quantity Of %s is %d: %w", it.Name, it.Quantity, ErrInsufficientStock)
}
