package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/crm/internal/browser"
	"github.com/JonMunkholm/crm/internal/cep"
	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/logging"
)

// AddressLookup resolves a CEP. Satisfied by *cep.Client.
type AddressLookup interface {
	Lookup(ctx context.Context, code string) (cep.Address, error)
}

// Options configures a Service.
type Options struct {
	// PageSize is the initial page size of new browsers.
	PageSize int

	// IdleTimeout drops browsers not used for this long.
	IdleTimeout time.Duration

	// AuditCapacity bounds the change log. Zero means DefaultAuditCapacity.
	AuditCapacity int

	// PendingSessions caps browsers of sessions whose cookie has not come
	// back yet. Zero means DefaultPendingSessions.
	PendingSessions int

	// PendingTTL expires those browsers. Zero means DefaultPendingTTL.
	PendingTTL time.Duration
}

// Service handles customer operations.
type Service struct {
	repo     *customer.Repository
	lookup   AddressLookup
	sessions *Sessions
	audit    *auditLog

	// writeMu keeps repository mutations and their broadcast in one order.
	writeMu sync.Mutex
}

// NewService creates a Service. It fails if the options cannot build a
// customer browser.
func NewService(repo *customer.Repository, lookup AddressLookup, opts Options) (*Service, error) {
	if _, err := customer.NewBrowser(nil, opts.PageSize); err != nil {
		return nil, fmt.Errorf("browser options: %w", err)
	}

	s := &Service{repo: repo, lookup: lookup, audit: newAuditLog(opts.AuditCapacity)}
	s.sessions = NewSessions(func() (*browser.Controller[customer.Customer], error) {
		return customer.NewBrowser(repo.All(), opts.PageSize)
	}, opts.IdleTimeout)
	if opts.PendingSessions > 0 {
		s.sessions.maxPending = opts.PendingSessions
	}
	if opts.PendingTTL > 0 {
		s.sessions.pendingTTL = opts.PendingTTL
	}
	return s, nil
}

// Browser returns the customer browser of a session the client sent back,
// creating it on first use.
func (s *Service) Browser(sessionID string) (*browser.Controller[customer.Customer], error) {
	return s.sessions.Get(sessionID)
}

// IssuedBrowser returns the browser of a session id issued by the current
// request. It is kept only briefly unless the client returns the id.
func (s *Service) IssuedBrowser(sessionID string) (*browser.Controller[customer.Customer], error) {
	return s.sessions.GetIssued(sessionID)
}

// SessionCount returns the number of live browsing sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Len()
}

// Customers returns every customer in insertion order.
func (s *Service) Customers() []customer.Customer {
	return s.repo.All()
}

// Customer returns one customer.
func (s *Service) Customer(id string) (customer.Customer, error) {
	return s.repo.Get(id)
}

// CreateCustomer validates and stores a new customer.
func (s *Service) CreateCustomer(ctx context.Context, f customer.Form) (customer.Customer, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	c, records, err := s.repo.Create(f)
	if err != nil {
		return customer.Customer{}, err
	}
	s.sessions.Broadcast(ctx, records)
	s.audit.record(ctx, ActionCustomerCreate, []string{c.ID}, 1)

	logging.WithFields(ctx, "action", ActionCustomerCreate, "id", c.ID).Info("customer created", "kind", c.Kind)
	return c, nil
}

// UpdateCustomer replaces an existing customer.
func (s *Service) UpdateCustomer(ctx context.Context, id string, f customer.Form) (customer.Customer, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	c, records, err := s.repo.Update(id, f)
	if err != nil {
		return customer.Customer{}, err
	}
	s.sessions.Broadcast(ctx, records)
	s.audit.record(ctx, ActionCustomerUpdate, []string{c.ID}, 1)

	logging.WithFields(ctx, "action", ActionCustomerUpdate, "id", c.ID).Info("customer updated")
	return c, nil
}

// DeleteCustomers removes customers by id and returns how many were removed.
func (s *Service) DeleteCustomers(ctx context.Context, ids ...string) (int, error) {
	return s.deleteCustomers(ctx, ActionCustomerDelete, ids)
}

func (s *Service) deleteCustomers(ctx context.Context, action AuditAction, ids []string) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	removed, records, err := s.repo.Delete(ids...)
	if err != nil {
		return 0, err
	}
	s.sessions.Broadcast(ctx, records)
	s.audit.record(ctx, action, removed, len(removed))

	logging.WithFields(ctx, "action", action, "requested", len(ids)).Info("customers deleted", "removed", removed)
	return len(removed), nil
}

// DeleteSelected removes every customer selected in the session's browser.
// A session without a browser has nothing selected.
func (s *Service) DeleteSelected(ctx context.Context, sessionID string) (int, error) {
	b, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return 0, nil
	}
	ids := b.SelectedIDs()
	if len(ids) == 0 {
		return 0, nil
	}
	return s.deleteCustomers(ctx, ActionBulkDelete, ids)
}

// LookupAddress resolves a CEP through the configured provider.
func (s *Service) LookupAddress(ctx context.Context, code string) (cep.Address, error) {
	addr, err := s.lookup.Lookup(ctx, code)
	if err != nil {
		logging.FromContext(ctx).Debug("cep lookup failed", "cep", code, "error", err)
		return cep.Address{}, err
	}
	return addr, nil
}

// FillAddress resolves the form's CEP and merges the address into it.
// Nothing happens while the CEP is incomplete. On lookup failure the form
// is left untouched and the error is returned.
func (s *Service) FillAddress(ctx context.Context, f *customer.Form) error {
	if !f.NeedsLookup() {
		return nil
	}
	addr, err := s.LookupAddress(ctx, f.CEP)
	if err != nil {
		return err
	}
	f.ApplyAddress(addr)
	return nil
}
