package customer

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"
)

// ErrNotFound is returned when no customer has the requested id.
var ErrNotFound = errors.New("customer not found")

// Repository is the in-memory customer store. Every successful mutation
// returns the complete new record set, in insertion order.
type Repository struct {
	mu      sync.RWMutex
	records []Customer
	next    int
	now     func() time.Time
}

// NewRepository creates a repository holding records.
func NewRepository(records []Customer) *Repository {
	r := &Repository{
		records: slices.Clone(records),
		now:     time.Now,
	}
	for _, c := range records {
		if n, err := strconv.Atoi(c.ID); err == nil && n > r.next {
			r.next = n
		}
	}
	return r
}

// All returns a copy of every customer.
func (r *Repository) All() []Customer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.records)
}

// Get returns the customer with id.
func (r *Repository) Get(id string) (Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Customer{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.records[i], nil
}

// Create validates f and appends a new customer with the next sequential id.
func (r *Repository) Create(f Form) (Customer, []Customer, error) {
	if err := f.Validate(); err != nil {
		return Customer{}, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	c := f.Customer(fmt.Sprintf("%03d", r.next), r.now())
	r.records = append(r.records, c)
	return c, slices.Clone(r.records), nil
}

// Update replaces the customer with id, keeping its position and creation time.
func (r *Repository) Update(id string, f Form) (Customer, []Customer, error) {
	if err := f.Validate(); err != nil {
		return Customer{}, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Customer{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := f.Customer(id, r.records[i].CreatedAt)
	r.records[i] = c
	return c, slices.Clone(r.records), nil
}

// Delete removes every customer whose id is listed and returns the ids
// actually removed, in store order. It fails with ErrNotFound when none of
// the ids exist.
func (r *Repository) Delete(ids ...string) ([]string, []Customer, error) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	r.records = slices.DeleteFunc(r.records, func(c Customer) bool {
		if drop[c.ID] {
			removed = append(removed, c.ID)
			return true
		}
		return false
	})
	if len(removed) == 0 {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotFound, ids)
	}
	return removed, slices.Clone(r.records), nil
}

func (r *Repository) indexOf(id string) int {
	return slices.IndexFunc(r.records, func(c Customer) bool { return c.ID == id })
}
