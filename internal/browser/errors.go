package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a column id is not part of the schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotSortable is returned when sorting is requested on a column
	// declared without a comparator or with Sortable=false.
	ErrNotSortable = errors.New("column is not sortable")

	// ErrNotHideable is returned when hiding a column declared with Hideable=false.
	ErrNotHideable = errors.New("column is not hideable")

	// ErrInvalidDirection is returned for a sort direction other than asc,
	// desc or none.
	ErrInvalidDirection = errors.New("invalid sort direction")

	// ErrDuplicateID is returned when a record set contains two records with the same id.
	ErrDuplicateID = errors.New("duplicate record id")
)

// ConfigurationError reports invalid construction parameters.
// It is never coerced into a valid value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("browser configuration: %s: %s", e.Field, e.Reason)
}

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
