package browser

import (
	"fmt"
	"slices"
)

// IDFunc extracts the stable identifier of a record.
type IDFunc[T any] func(T) string

// Store holds the authoritative ordered record set and a version stamp
// bumped on every replacement.
type Store[T any] struct {
	idOf    IDFunc[T]
	records []T
	index   map[string]int
	version uint64
}

// NewStore creates an empty store using idOf to identify records.
func NewStore[T any](idOf IDFunc[T]) *Store[T] {
	return &Store[T]{idOf: idOf, index: map[string]int{}}
}

// ReplaceAll swaps the whole record set. The input slice is copied.
// On a duplicate id the store is left unchanged.
func (s *Store[T]) ReplaceAll(records []T) error {
	index := make(map[string]int, len(records))
	for i, r := range records {
		id := s.idOf(r)
		if _, dup := index[id]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		index[id] = i
	}

	s.records = slices.Clone(records)
	s.index = index
	s.version++
	return nil
}

// All returns the current ordered records. Callers must not modify the slice.
func (s *Store[T]) All() []T {
	return s.records
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	return len(s.records)
}

// Has reports whether a record with id is present.
func (s *Store[T]) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns the record with id.
func (s *Store[T]) Get(id string) (T, bool) {
	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.records[i], true
}

// IDs returns the set of ids currently present.
func (s *Store[T]) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.index))
	for id := range s.index {
		ids[id] = struct{}{}
	}
	return ids
}

// Version returns the store version. It starts at 0 and increases on every ReplaceAll.
func (s *Store[T]) Version() uint64 {
	return s.version
}

// ID returns the id of r.
func (s *Store[T]) ID(r T) string {
	return s.idOf(r)
}
