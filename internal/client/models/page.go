package models

// Page is one page of a paginated collection.
type Page[T any] struct {
	Items       []T `json:"results"`
	TotalCount  int `json:"total"`
	PageCount   int `json:"pages"`
	CurrentPage int `json:"current_page"`
}

// PageCount returns ceil(total/size), or 0 when total is 0.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// NeedsClamp reports whether page lies beyond the last page of p.
func (p Page[T]) NeedsClamp(page int) bool {
	if p.PageCount > 0 {
		return page > p.PageCount
	}
	return page > 1
}

// ClampedPage returns max(1, PageCount).
func (p Page[T]) ClampedPage() int {
	return max(1, p.PageCount)
}
