// Package core provides the business logic of the CRM dashboard.
//
// This package contains the customer workflows independent of any UI or
// transport layer. It can be used by web handlers, CLI tools, or tests
// without modification.
//
// # Architecture
//
//   - Service: the entry point for customer mutations, address lookup and
//     per-session browsing state.
//   - Sessions: one customer browser per browsing session, created lazily
//     and collected after an idle timeout.
//   - Audit log: a bounded in-memory record of customer changes, stamped
//     with the session, client IP and User-Agent found in the context.
//
// # Record Mutations
//
// The repository owns the authoritative customer list. Every create, update
// or delete produces the complete new list, which the Service pushes to every
// live browser with SetRecords. Mutations are serialized so browsers never
// receive record sets out of order.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - CUS001-CUS002: Customer errors (not found, invalid form)
//   - BRW001-BRW004: Browser errors (page size, columns, sorting)
//   - CEP001-CEP003: Address lookup errors (invalid, not found, unavailable)
//   - REQ001-REQ003: Request errors (cancelled, timed out, malformed)
//   - RATE001: Rate limiting
package core
