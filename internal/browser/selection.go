package browser

import "sort"

// Selection is the set of record ids marked for bulk actions.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: map[string]struct{}{}}
}

// Toggle flips membership of id.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// SetAll selects or deselects exactly the given ids.
func (s *Selection) SetAll(ids []string, selected bool) {
	for _, id := range ids {
		if selected {
			s.ids[id] = struct{}{}
		} else {
			delete(s.ids, id)
		}
	}
}

// Prune drops every id not present in valid. It returns the number removed.
func (s *Selection) Prune(valid map[string]struct{}) int {
	removed := 0
	for id := range s.ids {
		if _, ok := valid[id]; !ok {
			delete(s.ids, id)
			removed++
		}
	}
	return removed
}

// Clear deselects everything.
func (s *Selection) Clear() {
	clear(s.ids)
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids sorted lexically.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
