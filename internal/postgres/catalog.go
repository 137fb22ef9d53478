package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/ridemarket/marketplace/internal/marketplace"
)

func scanCategory(s scanner) (marketplace.Category, error) {
	var c marketplace.Category
	err := s.Scan(&c.ID, &c.Name)
	return c, err
}

func (r *repo) CategoryByID(ctx context.Context, id int64) (marketplace.Category, bool, error) {
	return one(ctx, r.q, scanCategory, `SELECT id, name FROM categories WHERE id = $1`, id)
}

func (r *repo) CategoryByName(ctx context.Context, name string) (marketplace.Category, bool, error) {
	return one(ctx, r.q, scanCategory, `SELECT id, name FROM categories WHERE name = $1`, name)
}

func (r *repo) InsertCategory(ctx context.Context, c *marketplace.Category) error {
	err := r.q.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID)
	return mapErr(err)
}

func (r *repo) ListCategories(ctx context.Context) ([]marketplace.Category, error) {
	return many(ctx, r.q, scanCategory, `SELECT id, name FROM categories ORDER BY id`)
}

const itemCols = `id, category_id, merchant_id, name, price, quantity`

func scanItem(s scanner) (marketplace.Item, error) {
	var it marketplace.Item
	err := s.Scan(&it.ID, &it.CategoryID, &it.MerchantID, &it.Name, &it.Price, &it.Quantity)
	return it, err
}

func (r *repo) ItemByID(ctx context.Context, id int64) (marketplace.Item, bool, error) {
	return one(ctx, r.q, scanItem, `SELECT `+itemCols+` FROM items WHERE id = $1`, id)
}

func (r *repo) ItemByName(ctx context.Context, name string) (marketplace.Item, bool, error) {
	return one(ctx, r.q, scanItem, `SELECT `+itemCols+` FROM items WHERE name = $1 ORDER BY id LIMIT 1`, name)
}

func (r *repo) ItemForUpdate(ctx context.Context, id int64) (marketplace.Item, bool, error) {
	return one(ctx, r.q, scanItem, `SELECT `+itemCols+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *repo) AdjustItemQuantity(ctx context.Context, id int64, delta int) (int, bool, error) {
	var qty int
	err := r.q.QueryRow(ctx, `
		UPDATE items SET quantity = quantity + $2
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`, id, delta,
	).Scan(&qty)
	if err == nil {
		return qty, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, err
	}

	// Either the row is gone or the floor guard refused the change.
	err = r.q.QueryRow(ctx, `SELECT quantity FROM items WHERE id = $1`, id).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, marketplace.NotFoundf("Item with Id %d not found", id)
	}
	if err != nil {
		return 0, false, err
	}
	return qty, false, nil
}

func (r *repo) InsertItem(ctx context.Context, it *marketplace.Item) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO items (category_id, merchant_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		it.CategoryID, it.MerchantID, it.Name, it.Price, it.Quantity,
	).Scan(&it.ID)
	return mapErr(err)
}

func (r *repo) UpdateItem(ctx context.Context, it marketplace.Item) error {
	return exec(ctx, r.q, "Item", it.ID, `
		UPDATE items SET category_id = $2, merchant_id = $3, name = $4, price = $5, quantity = $6
		WHERE id = $1`,
		it.ID, it.CategoryID, it.MerchantID, it.Name, it.Price, it.Quantity)
}

func (r *repo) DeleteItem(ctx context.Context, id int64) error {
	return exec(ctx, r.q, "Item", id, `DELETE FROM items WHERE id = $1`, id)
}

func (r *repo) ListItems(ctx context.Context, f marketplace.ItemFilter) ([]marketplace.Item, error) {
	var w where
	w.eq("category_id", f.CategoryID, f.CategoryID > 0)
	w.eq("merchant_id", f.MerchantID, f.MerchantID > 0)
	return many(ctx, r.q, scanItem, `SELECT `+itemCols+` FROM items`+w.String()+` ORDER BY id`, w.args...)
}
