package memstore

import (
	"maps"
	"slices"
)

// table is an id-keyed row set with a BIGSERIAL-like sequence.
type table[T any] struct {
	rows map[int64]T
	seq  int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[int64]T{}}
}

func (t *table[T]) nextID() int64 {
	t.seq++
	return t.seq
}

func (t *table[T]) get(id int64) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id int64, v T) { t.rows[id] = v }

func (t *table[T]) remove(id int64) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// filter returns matching rows ordered by id.
func (t *table[T]) filter(keep func(T) bool) []T {
	ids := slices.Sorted(maps.Keys(t.rows))
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v := t.rows[id]; keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// first returns the lowest id row that matches.
func (t *table[T]) first(keep func(T) bool) (T, bool) {
	var zero T
	rows := t.filter(keep)
	if len(rows) == 0 {
		return zero, false
	}
	return rows[0], true
}

func (t *table[T]) clone() *table[T] {
	return &table[T]{rows: maps.Clone(t.rows), seq: t.seq}
}
