package memstore

import "context"

// Generic row helpers shared by the per-entity repositories.

func lookup[T any](ctx context.Context, r *repo, tbl func(*state) *table[T], id int64) (v T, ok bool, err error) {
	err = r.with(ctx, func(st *state) error {
		v, ok = tbl(st).get(id)
		return nil
	})
	return v, ok, err
}

func find[T any](ctx context.Context, r *repo, tbl func(*state) *table[T], keep func(T) bool) (v T, ok bool, err error) {
	err = r.with(ctx, func(st *state) error {
		v, ok = tbl(st).first(keep)
		return nil
	})
	return v, ok, err
}

func list[T any](ctx context.Context, r *repo, tbl func(*state) *table[T], keep func(T) bool) (out []T, err error) {
	err = r.with(ctx, func(st *state) error {
		out = tbl(st).filter(keep)
		return nil
	})
	return out, err
}

func replace[T any](ctx context.Context, r *repo, tbl func(*state) *table[T], entity string, id int64, v T) error {
	return r.with(ctx, func(st *state) error {
		t := tbl(st)
		if _, ok := t.get(id); !ok {
			return missing(entity, id)
		}
		t.put(id, v)
		return nil
	})
}

func remove[T any](ctx context.Context, r *repo, tbl func(*state) *table[T], entity string, id int64) error {
	return r.with(ctx, func(st *state) error {
		if !tbl(st).remove(id) {
			return missing(entity, id)
		}
		return nil
	})
}

func eqOrAny[T comparable](filter, v T) bool {
	var zero T
	return filter == zero || filter == v
}
