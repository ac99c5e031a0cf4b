package browser

// PageState is the current page window. Index is zero-based.
type PageState struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// PageCount returns the number of pages needed for total items, at least 1.
func (p PageState) PageCount(total int) int {
	if total <= 0 || p.Size <= 0 {
		return 1
	}
	return (total + p.Size - 1) / p.Size
}

// Clamp returns p with Index moved into [0, PageCount(total)-1].
func (p PageState) Clamp(total int) PageState {
	last := p.PageCount(total) - 1
	if p.Index > last {
		p.Index = last
	}
	if p.Index < 0 {
		p.Index = 0
	}
	return p
}

// Slice returns the items of page p. The page must already be clamped;
// an out-of-range page yields an empty slice.
func Slice[T any](items []T, p PageState) []T {
	if p.Size <= 0 || p.Index < 0 {
		return nil
	}
	start := p.Index * p.Size
	if start >= len(items) {
		return items[len(items):]
	}
	end := min(start+p.Size, len(items))
	return items[start:end]
}
