package memory

import (
	"cmp"
	"slices"
	"time"
)

// table is a key-ordered map: rows by id plus the ids in insertion order.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{
		rows:  make(map[string]T, len(t.rows)),
		order: slices.Clone(t.order),
	}
	for id, row := range t.rows {
		c.rows[id] = row
	}
	return c
}

func (t *table[T]) has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) insert(id string, row T) {
	t.rows[id] = row
	t.order = append(t.order, id)
}

func (t *table[T]) replace(id string, row T) {
	t.rows[id] = row
}

func (t *table[T]) remove(id string) {
	if _, ok := t.rows[id]; !ok {
		return
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(other string) bool { return other == id })
}

// scan returns the rows accepted by keep, in insertion order.
func (t *table[T]) scan(keep func(T) bool) []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// scanSorted returns the rows whose timestamp lies in [from, to), ascending
// by timestamp with insertion order breaking ties.
func (t *table[T]) scanSorted(at func(T) time.Time, from, to time.Time) []T {
	out := t.scan(func(row T) bool {
		ts := at(row)
		return !ts.Before(from) && ts.Before(to)
	})
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(at(a).UnixNano(), at(b).UnixNano())
	})
	return out
}
