package core

import (
	"context"
	"sync"
	"time"

	"github.com/JonMunkholm/crm/internal/browser"
	"github.com/JonMunkholm/crm/internal/customer"
	"github.com/JonMunkholm/crm/internal/logging"
)

// Limits for sessions whose cookie was issued but never sent back.
const (
	DefaultPendingSessions = 256
	DefaultPendingTTL      = 5 * time.Minute
)

// BrowserFactory builds a browser loaded with the current customers.
type BrowserFactory func() (*browser.Controller[customer.Customer], error)

type sessionEntry struct {
	browser  *browser.Controller[customer.Customer]
	lastSeen time.Time
	pending  bool
}

// Sessions maps browsing session ids to their customer browser.
//
// A browser created for a freshly issued id is pending until the client
// comes back with that id. Pending browsers are capped at maxPending, the
// oldest being evicted first, and expire after pendingTTL, so clients that
// drop cookies cannot pile up browsers.
type Sessions struct {
	mu         sync.Mutex
	entries    map[string]*sessionEntry
	factory    BrowserFactory
	idle       time.Duration
	pendingTTL time.Duration
	maxPending int
	pending    int
	now        func() time.Time
}

// NewSessions creates an empty registry. A non-positive idle disables expiry
// of confirmed sessions.
func NewSessions(factory BrowserFactory, idle time.Duration) *Sessions {
	return &Sessions{
		entries:    make(map[string]*sessionEntry),
		factory:    factory,
		idle:       idle,
		pendingTTL: DefaultPendingTTL,
		maxPending: DefaultPendingSessions,
		now:        time.Now,
	}
}

// Get returns the browser for a session id the client sent back, creating
// it when absent. A pending entry for id becomes confirmed.
func (s *Sessions) Get(id string) (*browser.Controller[customer.Customer], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.lastSeen = s.now()
		if e.pending {
			e.pending = false
			s.pending--
		}
		return e.browser, nil
	}

	b, err := s.factory()
	if err != nil {
		return nil, err
	}
	s.entries[id] = &sessionEntry{browser: b, lastSeen: s.now()}
	return b, nil
}

// GetIssued returns the browser for an id issued by this request. The entry
// stays pending until Get is called with the same id.
func (s *Sessions) GetIssued(id string) (*browser.Controller[customer.Customer], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.lastSeen = s.now()
		return e.browser, nil
	}

	b, err := s.factory()
	if err != nil {
		return nil, err
	}
	for s.maxPending > 0 && s.pending >= s.maxPending {
		s.evictOldestPending()
	}
	s.entries[id] = &sessionEntry{browser: b, lastSeen: s.now(), pending: true}
	s.pending++
	return b, nil
}

// Lookup returns the browser for id without creating one.
func (s *Sessions) Lookup(id string) (*browser.Controller[customer.Customer], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.browser, true
}

func (s *Sessions) evictOldestPending() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if e.pending && (oldestID == "" || e.lastSeen.Before(oldest)) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if oldestID == "" {
		s.pending = 0
		return
	}
	delete(s.entries, oldestID)
	s.pending--
}

// Len returns the number of live sessions, pending ones included.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Broadcast replaces the records of every live browser. Browsers prune
// selections of removed customers themselves.
func (s *Sessions) Broadcast(ctx context.Context, records []customer.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if err := e.browser.SetRecords(records); err != nil {
			logging.FromContext(ctx).Error("failed to refresh browser", "session", id, "error", err)
		}
	}
}

// Sweep drops confirmed sessions idle for longer than the idle timeout and
// pending sessions older than the pending TTL. It returns how many were
// dropped.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, e := range s.entries {
		ttl := s.idle
		if e.pending {
			ttl = s.pendingTTL
		}
		if ttl <= 0 || !e.lastSeen.Before(now.Add(-ttl)) {
			continue
		}
		delete(s.entries, id)
		if e.pending {
			s.pending--
		}
		dropped++
	}
	return dropped
}
