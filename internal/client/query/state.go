// Package query holds the current filter, sort and page selection of the
// file listing.
package query

import (
	"sync"

	"github.com/dmitrijs2005/filevault/internal/client/models"
)

// State is the single source of truth for which page of which query is
// being viewed. Safe for concurrent use.
type State struct {
	mu   sync.Mutex
	spec models.QuerySpec
}

func NewState(pageSize int) *State {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &State{spec: models.NewQuerySpec(pageSize)}
}

// Current returns a copy of the current QuerySpec.
func (s *State) Current() models.QuerySpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Update applies fn to a copy of the current spec and stores the result.
// A change of any filter or of the page size resets the page to 1; sort and
// page changes alone keep the requested page.
func (s *State) Update(fn func(q *models.QuerySpec)) models.QuerySpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.spec
	fn(&next)

	if next.PageSize <= 0 {
		next.PageSize = s.spec.PageSize
	}
	if !next.Filters.Equal(s.spec.Filters) || next.PageSize != s.spec.PageSize {
		next.Page = 1
	}
	if next.Page < 1 {
		next.Page = 1
	}
	if next.SortOrder == "" {
		next.SortOrder = models.Ascending
	}

	s.spec = next
	return next
}

// SetFilters replaces all filters.
func (s *State) SetFilters(f models.Filters) models.QuerySpec {
	return s.Update(func(q *models.QuerySpec) { q.Filters = f })
}

// SetPage selects page n; values below 1 select page 1.
func (s *State) SetPage(n int) models.QuerySpec {
	return s.Update(func(q *models.QuerySpec) { q.Page = max(1, n) })
}

// SortBy toggles the order when field is already active, otherwise makes
// field active in ascending order.
func (s *State) SortBy(field models.SortField) models.QuerySpec {
	return s.Update(func(q *models.QuerySpec) {
		if q.SortField == field {
			q.SortOrder = q.SortOrder.Flip()
			return
		}
		q.SortField = field
		q.SortOrder = models.Ascending
	})
}

// Reset clears every filter and returns to page 1. Sorting is kept.
func (s *State) Reset() models.QuerySpec {
	return s.Update(func(q *models.QuerySpec) {
		q.Filters = models.Filters{}
		q.Page = 1
	})
}
