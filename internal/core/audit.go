package core

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/crm/internal/logging"
)

// DefaultAuditCapacity is the number of change-log entries kept when
// Options.AuditCapacity is zero.
const DefaultAuditCapacity = 500

// AuditAction is the kind of customer change recorded.
type AuditAction string

const (
	ActionCustomerCreate AuditAction = "customer_create"
	ActionCustomerUpdate AuditAction = "customer_update"
	ActionCustomerDelete AuditAction = "customer_delete"
	ActionBulkDelete     AuditAction = "customer_bulk_delete"
)

// AuditSeverity ranks entries for display.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry is one recorded customer change.
type AuditEntry struct {
	ID           string        `json:"id"`
	Action       AuditAction   `json:"action"`
	Severity     AuditSeverity `json:"severity"`
	CustomerIDs  []string      `json:"customerIds"`
	RowsAffected int           `json:"rowsAffected"`
	SessionID    string        `json:"sessionId,omitempty"`
	IPAddress    string        `json:"ipAddress,omitempty"`
	UserAgent    string        `json:"userAgent,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// AuditLogFilter narrows AuditLog results. Zero values match everything.
type AuditLogFilter struct {
	Action AuditAction
	Limit  int
}

func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionBulkDelete, ActionCustomerDelete:
		return SeverityHigh
	case ActionCustomerCreate:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// auditLog is a bounded in-memory change log. The oldest entries are
// dropped once capacity is reached.
type auditLog struct {
	mu       sync.Mutex
	entries  []AuditEntry
	capacity int
	now      func() time.Time
}

func newAuditLog(capacity int) *auditLog {
	if capacity <= 0 {
		capacity = DefaultAuditCapacity
	}
	return &auditLog{capacity: capacity, now: time.Now}
}

// record appends an entry stamped with the request metadata in ctx.
func (a *auditLog) record(ctx context.Context, action AuditAction, ids []string, affected int) AuditEntry {
	e := AuditEntry{
		ID:           uuid.NewString(),
		Action:       action,
		Severity:     determineSeverity(action),
		CustomerIDs:  slices.Clone(ids),
		RowsAffected: affected,
		SessionID:    logging.SessionFromContext(ctx),
		IPAddress:    IPAddressFromContext(ctx),
		UserAgent:    UserAgentFromContext(ctx),
	}

	a.mu.Lock()
	e.CreatedAt = a.now()
	if len(a.entries) == a.capacity {
		a.entries = slices.Delete(a.entries, 0, 1)
	}
	a.entries = append(a.entries, e)
	a.mu.Unlock()

	logging.FromContext(ctx).Debug("audit entry recorded",
		"action", e.Action,
		"severity", e.Severity,
		"rows_affected", e.RowsAffected,
	)
	return e
}

// list returns matching entries, newest first.
func (a *auditLog) list(filter AuditLogFilter) []AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]AuditEntry, 0, len(a.entries))
	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}

// AuditLog returns recorded customer changes, newest first.
func (s *Service) AuditLog(filter AuditLogFilter) []AuditEntry {
	return s.audit.list(filter)
}
