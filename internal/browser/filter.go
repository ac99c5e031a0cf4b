package browser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Predicate reports whether a record matches a query. It must be pure:
// the same (record, query) pair always yields the same answer.
type Predicate[T any] func(record T, query string) bool

// Filter derives the filtered view of a record set. It memoizes the last
// result on (store version, query).
type Filter[T any] struct {
	match Predicate[T]

	cached  bool
	version uint64
	query   string
	result  []T
}

// NewFilter creates a filter around match.
func NewFilter[T any](match Predicate[T]) *Filter[T] {
	return &Filter[T]{match: match}
}

// Apply returns the records matching query in their original order.
// A blank query returns records unchanged.
func (f *Filter[T]) Apply(records []T, query string) []T {
	if strings.TrimSpace(query) == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f.match(r, query) {
			out = append(out, r)
		}
	}
	return out
}

// ApplyVersioned is Apply memoized on the store version.
func (f *Filter[T]) ApplyVersioned(version uint64, records []T, query string) []T {
	if f.cached && f.version == version && f.query == query {
		return f.result
	}
	f.result = f.Apply(records, query)
	f.version = version
	f.query = query
	f.cached = true
	return f.result
}

// FoldText lowercases s and strips combining marks, so "Conceição" and
// "conceicao" compare equal.
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// ContainsAny builds a predicate matching records where any of the given
// fields contains the query, ignoring case and accents.
func ContainsAny[T any](fields ...func(T) string) Predicate[T] {
	return func(r T, query string) bool {
		q := FoldText(strings.TrimSpace(query))
		for _, field := range fields {
			if strings.Contains(FoldText(field(r)), q) {
				return true
			}
		}
		return false
	}
}
