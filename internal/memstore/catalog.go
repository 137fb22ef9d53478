package memstore

import (
	"context"

	"github.com/ridemarket/marketplace/internal/marketplace"
)

func categories(st *state) *table[marketplace.Category] { return st.categories }
func items(st *state) *table[marketplace.Item]          { return st.items }

func (r *repo) CategoryByID(ctx context.Context, id int64) (marketplace.Category, bool, error) {
	return lookup(ctx, r, categories, id)
}

func (r *repo) CategoryByName(ctx context.Context, name string) (marketplace.Category, bool, error) {
	return find(ctx, r, categories, func(c marketplace.Category) bool { return c.Name == name })
}

func (r *repo) InsertCategory(ctx context.Context, c *marketplace.Category) error {
	return r.with(ctx, func(st *state) error {
		if _, dup := st.categories.first(func(x marketplace.Category) bool { return x.Name == c.Name }); dup {
			return marketplace.Conflictf("category %q already exists", c.Name)
		}
		c.ID = st.categories.nextID()
		st.categories.put(c.ID, *c)
		return nil
	})
}

func (r *repo) ListCategories(ctx context.Context) ([]marketplace.Category, error) {
	return list(ctx, r, categories, nil)
}

func (r *repo) ItemByID(ctx context.Context, id int64) (marketplace.Item, bool, error) {
	return lookup(ctx, r, items, id)
}

func (r *repo) ItemByName(ctx context.Context, name string) (marketplace.Item, bool, error) {
	return find(ctx, r, items, func(it marketplace.Item) bool { return it.Name == name })
}

// ItemForUpdate is a plain read: the transaction already holds the store lock.
func (r *repo) ItemForUpdate(ctx context.Context, id int64) (marketplace.Item, bool, error) {
	return lookup(ctx, r, items, id)
}

func (r *repo) AdjustItemQuantity(ctx context.Context, id int64, delta int) (newQty int, applied bool, err error) {
	err = r.with(ctx, func(st *state) error {
		it, ok := st.items.get(id)
		if !ok {
			return missing("Item", id)
		}
		if it.Quantity+delta < 0 {
			newQty = it.Quantity
			return nil
		}
		it.Quantity += delta
		st.items.put(id, it)
		newQty, applied = it.Quantity, true
		return nil
	})
	return newQty, applied, err
}

func (r *repo) InsertItem(ctx context.Context, it *marketplace.Item) error {
	return r.with(ctx, func(st *state) error {
		it.ID = st.items.nextID()
		st.items.put(it.ID, *it)
		return nil
	})
}

func (r *repo) UpdateItem(ctx context.Context, it marketplace.Item) error {
	return replace(ctx, r, items, "Item", it.ID, it)
}

func (r *repo) DeleteItem(ctx context.Context, id int64) error {
	return remove(ctx, r, items, "Item", id)
}

func (r *repo) ListItems(ctx context.Context, f marketplace.ItemFilter) ([]marketplace.Item, error) {
	return list(ctx, r, items, func(it marketplace.Item) bool {
		return eqOrAny(f.CategoryID, it.CategoryID) && eqOrAny(f.MerchantID, it.MerchantID)
	})
}
