package browser

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Column describes one table column.
type Column[T any] struct {
	ID    string
	Label string

	// Value extracts the raw cell value.
	Value func(T) any

	// Text renders the cell. Defaults to fmt.Sprint of Value.
	Text func(T) string

	// Compare orders two records by this column. Required when Sortable.
	Compare func(a, b T) int

	Sortable bool
	Hideable bool

	// Hidden is the initial visibility of a hideable column. Ignored when
	// Hideable is false.
	Hidden bool
}

// Cell renders the column for r.
func (c Column[T]) Cell(r T) string {
	if c.Text != nil {
		return c.Text(r)
	}
	return fmt.Sprint(c.Value(r))
}

// TextColumn builds a sortable, hideable column over a string field,
// sorted with CompareText.
func TextColumn[T any](id, label string, get func(T) string) Column[T] {
	return Column[T]{
		ID:       id,
		Label:    label,
		Value:    func(r T) any { return get(r) },
		Text:     get,
		Compare:  func(a, b T) int { return CompareText(get(a), get(b)) },
		Sortable: true,
		Hideable: true,
	}
}

// NumberColumn builds a sortable, hideable numeric column.
func NumberColumn[T any](id, label string, get func(T) float64) Column[T] {
	return Column[T]{
		ID:       id,
		Label:    label,
		Value:    func(r T) any { return get(r) },
		Text:     func(r T) string { return strconv.FormatFloat(get(r), 'f', -1, 64) },
		Compare:  func(a, b T) int { return CompareNumber(get(a), get(b)) },
		Sortable: true,
		Hideable: true,
	}
}

// DateColumn builds a sortable, hideable column over a time field rendered with layout.
func DateColumn[T any](id, label string, get func(T) time.Time, layout string) Column[T] {
	return Column[T]{
		ID:    id,
		Label: label,
		Value: func(r T) any { return get(r) },
		Text: func(r T) string {
			t := get(r)
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		Compare:  func(a, b T) int { return CompareTime(get(a), get(b)) },
		Sortable: true,
		Hideable: true,
	}
}

// ColumnInfo is the rendering-facing description of a column.
type ColumnInfo struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Sortable bool   `json:"sortable"`
	Hideable bool   `json:"hideable"`
	Visible  bool   `json:"visible"`
}

// Direction is a sort direction. The zero value means unsorted.
type Direction string

const (
	SortNone Direction = ""
	SortAsc  Direction = "asc"
	SortDesc Direction = "desc"
)

// ParseDirection accepts "", "none", "asc" and "desc".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "none":
		return SortNone, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	}
	return SortNone, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// SortState is the single active sort column and direction.
type SortState struct {
	ColumnID  string    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether a sort is applied.
func (s SortState) Active() bool {
	return s.ColumnID != "" && s.Direction != SortNone
}

// Schema is a validated, ordered list of columns plus per-column visibility.
type Schema[T any] struct {
	columns []Column[T]
	byID    map[string]int
	visible []bool
}

// NewSchema validates columns: ids must be non-empty and unique, every
// column needs a Value accessor and every sortable column a comparator.
func NewSchema[T any](columns ...Column[T]) (*Schema[T], error) {
	if len(columns) == 0 {
		return nil, configErr("columns", "at least one column is required")
	}

	s := &Schema[T]{
		columns: slices.Clone(columns),
		byID:    make(map[string]int, len(columns)),
		visible: make([]bool, len(columns)),
	}
	for i, c := range columns {
		if c.ID == "" {
			return nil, configErr("columns", "column %d has an empty id", i)
		}
		if _, dup := s.byID[c.ID]; dup {
			return nil, configErr("columns", "duplicate column id %q", c.ID)
		}
		if c.Value == nil {
			return nil, configErr("columns", "column %q has no accessor", c.ID)
		}
		if c.Sortable && c.Compare == nil {
			return nil, configErr("columns", "sortable column %q has no comparator", c.ID)
		}
		s.byID[c.ID] = i
		s.visible[i] = !(c.Hideable && c.Hidden)
	}
	return s, nil
}

// Column returns the column with id.
func (s *Schema[T]) Column(id string) (Column[T], bool) {
	i, ok := s.byID[id]
	if !ok {
		return Column[T]{}, false
	}
	return s.columns[i], true
}

// SetVisible shows or hides a hideable column.
func (s *Schema[T]) SetVisible(id string, visible bool) error {
	i, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, id)
	}
	if !visible && !s.columns[i].Hideable {
		return fmt.Errorf("%w: %q", ErrNotHideable, id)
	}
	s.visible[i] = visible
	return nil
}

// Visible returns the visible columns in declaration order.
func (s *Schema[T]) Visible() []Column[T] {
	out := make([]Column[T], 0, len(s.columns))
	for i, c := range s.columns {
		if s.visible[i] {
			out = append(out, c)
		}
	}
	return out
}

// Infos describes every column, visible or not.
func (s *Schema[T]) Infos() []ColumnInfo {
	out := make([]ColumnInfo, len(s.columns))
	for i, c := range s.columns {
		out[i] = ColumnInfo{
			ID:       c.ID,
			Label:    c.Label,
			Sortable: c.Sortable,
			Hideable: c.Hideable,
			Visible:  s.visible[i],
		}
	}
	return out
}

// CheckSort verifies that state can be applied.
func (s *Schema[T]) CheckSort(state SortState) error {
	switch state.Direction {
	case SortNone, SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDirection, state.Direction)
	}
	if state.ColumnID == "" {
		return nil
	}
	c, ok := s.Column(state.ColumnID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, state.ColumnID)
	}
	if !c.Sortable {
		return fmt.Errorf("%w: %q", ErrNotSortable, state.ColumnID)
	}
	return nil
}

// Sort returns records ordered by state. The sort is stable, so ties keep
// their input order in both directions. Records are returned as-is when no
// sort is active.
func (s *Schema[T]) Sort(records []T, state SortState) []T {
	if !state.Active() {
		return records
	}
	c, ok := s.Column(state.ColumnID)
	if !ok || !c.Sortable {
		return records
	}

	out := slices.Clone(records)
	if state.Direction == SortDesc {
		slices.SortStableFunc(out, func(a, b T) int { return c.Compare(b, a) })
	} else {
		slices.SortStableFunc(out, c.Compare)
	}
	return out
}
