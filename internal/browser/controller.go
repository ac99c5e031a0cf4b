package browser

import (
	"fmt"
	"slices"
	"sync"
)

// DefaultPageSize is used when Options.PageSize is zero.
const DefaultPageSize = 10

// Options configures a Controller.
type Options[T any] struct {
	// ID extracts the record id. Required.
	ID IDFunc[T]

	// Match is the search predicate. Required.
	Match Predicate[T]

	// Columns is the column schema. Required, ids unique.
	Columns []Column[T]

	// PageSize is the initial page size. Zero means DefaultPageSize;
	// negative values are rejected.
	PageSize int

	// Sort is the initial sort. Optional.
	Sort SortState
}

// Snapshot is the complete render state after the last operation.
type Snapshot[T any] struct {
	Rows          []T          `json:"rows"`
	Selected      []bool       `json:"selected"`
	Columns       []ColumnInfo `json:"columns"`
	Query         string       `json:"query"`
	TotalFiltered int          `json:"totalFiltered"`
	TotalAll      int          `json:"totalAll"`
	SelectedCount int          `json:"selectedCount"`
	Page          PageState    `json:"page"`
	PageCount     int          `json:"pageCount"`
	Sort          SortState    `json:"sort"`
	Version       uint64       `json:"version"`
}

// Controller composes store, filter, sort, pagination and selection behind
// one lock. It is safe for concurrent use.
type Controller[T any] struct {
	mu sync.Mutex

	store     *Store[T]
	filter    *Filter[T]
	schema    *Schema[T]
	selection *Selection

	query string
	page  PageState
	sort  SortState

	// derived view, rebuilt by refresh
	filtered []T
	visible  []T
}

// New validates opts and returns an empty controller.
func New[T any](opts Options[T]) (*Controller[T], error) {
	if opts.ID == nil {
		return nil, configErr("id", "id extractor is required")
	}
	if opts.Match == nil {
		return nil, configErr("match", "filter predicate is required")
	}
	if opts.PageSize < 0 {
		return nil, configErr("pageSize", "must be positive, got %d", opts.PageSize)
	}
	if opts.PageSize == 0 {
		opts.PageSize = DefaultPageSize
	}

	schema, err := NewSchema(opts.Columns...)
	if err != nil {
		return nil, err
	}
	if opts.Sort.ColumnID != "" {
		if err := schema.CheckSort(opts.Sort); err != nil {
			return nil, configErr("sort", "%v", err)
		}
	}

	c := &Controller[T]{
		store:     NewStore(opts.ID),
		filter:    NewFilter(opts.Match),
		schema:    schema,
		selection: NewSelection(),
		page:      PageState{Size: opts.PageSize},
		sort:      opts.Sort,
	}
	c.refresh()
	return c, nil
}

// refresh rebuilds the derived view in the fixed order filter → sort →
// paginate and clamps the page index. Callers hold c.mu.
func (c *Controller[T]) refresh() {
	matched := c.filter.ApplyVersioned(c.store.Version(), c.store.All(), c.query)
	c.filtered = c.schema.Sort(matched, c.sort)
	c.page = c.page.Clamp(len(c.filtered))
	c.visible = Slice(c.filtered, c.page)
}

// SetRecords replaces the record set and prunes selected ids that are no
// longer present. On error nothing changes.
func (c *Controller[T]) SetRecords(records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.ReplaceAll(records); err != nil {
		return err
	}
	c.selection.Prune(c.store.IDs())
	c.refresh()
	return nil
}

// SetQuery changes the search query. Selection is untouched.
func (c *Controller[T]) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = q
	c.refresh()
}

// SetPage moves to page index with the given size. The index is clamped to
// the last valid page; a non-positive size is a ConfigurationError.
func (c *Controller[T]) SetPage(index, size int) error {
	if size <= 0 {
		return configErr("pageSize", "must be positive, got %d", size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = PageState{Index: index, Size: size}
	c.refresh()
	return nil
}

// SetSortColumn sets the single active sort. SortNone clears it.
func (c *Controller[T]) SetSortColumn(columnID string, dir Direction) error {
	state := SortState{ColumnID: columnID, Direction: dir}
	if dir == SortNone {
		state = SortState{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.schema.CheckSort(state); err != nil {
		return err
	}
	c.sort = state
	c.refresh()
	return nil
}

// SetColumnVisible shows or hides a column.
func (c *Controller[T]) SetColumnVisible(columnID string, visible bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.schema.SetVisible(columnID, visible)
}

// ToggleSelect flips selection of id. Ids not in the store are ignored.
func (c *Controller[T]) ToggleSelect(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.Has(id) {
		return
	}
	c.selection.Toggle(id)
}

// SelectVisiblePage selects or deselects every row on the current page.
func (c *Controller[T]) SelectVisiblePage(selected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, len(c.visible))
	for i, r := range c.visible {
		ids[i] = c.store.ID(r)
	}
	c.selection.SetAll(ids, selected)
}

// ClearSelection deselects everything.
func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selection.Clear()
}

// IsSelected reports whether id is selected.
func (c *Controller[T]) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selection.IsSelected(id)
}

// SelectedIDs returns the selected ids sorted lexically.
func (c *Controller[T]) SelectedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selection.IDs()
}

// Selected returns the selected records in store order, including records
// hidden by the current query.
func (c *Controller[T]) Selected() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []T{}
	for _, r := range c.store.All() {
		if c.selection.IsSelected(c.store.ID(r)) {
			out = append(out, r)
		}
	}
	return out
}

// VisibleColumns returns the currently visible columns for rendering cells.
func (c *Controller[T]) VisibleColumns() []Column[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.schema.Visible()
}

// Record returns the record with id.
func (c *Controller[T]) Record(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.store.Get(id)
}

// Snapshot returns a copy of the current render state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := slices.Clone(c.visible)
	if rows == nil {
		rows = []T{}
	}
	selected := make([]bool, len(rows))
	for i, r := range rows {
		selected[i] = c.selection.IsSelected(c.store.ID(r))
	}

	return Snapshot[T]{
		Rows:          rows,
		Selected:      selected,
		Columns:       c.schema.Infos(),
		Query:         c.query,
		TotalFiltered: len(c.filtered),
		TotalAll:      c.store.Len(),
		SelectedCount: c.selection.Count(),
		Page:          c.page,
		PageCount:     c.page.PageCount(len(c.filtered)),
		Sort:          c.sort,
		Version:       c.store.Version(),
	}
}

// String summarises the controller state for logs.
func (c *Controller[T]) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fmt.Sprintf("browser{records=%d filtered=%d page=%d/%d selected=%d}",
		c.store.Len(), len(c.filtered), c.page.Index, c.page.Size, c.selection.Count())
}
