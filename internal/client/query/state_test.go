package query

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filevault/internal/client/models"
)

func TestNewState_Defaults(t *testing.T) {
	s := NewState(10)
	q := s.Current()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.True(t, q.Filters.IsZero())
	assert.Equal(t, models.SortNone, q.SortField)

	assert.Equal(t, 10, NewState(0).Current().PageSize)
}

func TestFilterChange_ResetsPage(t *testing.T) {
	s := NewState(10)
	s.SetPage(3)
	require.Equal(t, 3, s.Current().Page)

	q := s.Update(func(q *models.QuerySpec) { q.Search = "report" })
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "report", q.Search)
}

func TestEveryFilterField_ResetsPage(t *testing.T) {
	mutations := map[string]func(q *models.QuerySpec){
		"search":     func(q *models.QuerySpec) { q.Search = "x" },
		"file type":  func(q *models.QuerySpec) { q.FileType = "pdf" },
		"min size":   func(q *models.QuerySpec) { q.MinSize = models.Int64(0) },
		"max size":   func(q *models.QuerySpec) { q.MaxSize = models.Int64(100) },
		"start date": func(q *models.QuerySpec) { q.StartDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
		"end date":   func(q *models.QuerySpec) { q.EndDate = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC) },
		"page size":  func(q *models.QuerySpec) { q.PageSize = 20 },
	}
	for name, m := range mutations {
		t.Run(name, func(t *testing.T) {
			s := NewState(10)
			s.SetPage(4)
			assert.Equal(t, 1, s.Update(m).Page)
		})
	}
}

func TestSortAndPage_KeepPage(t *testing.T) {
	s := NewState(10)
	s.SetPage(2)

	q := s.SortBy(models.SortSize)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, models.SortSize, q.SortField)
	assert.Equal(t, models.Ascending, q.SortOrder)
}

func TestSortBy_TogglesSameField(t *testing.T) {
	s := NewState(10)

	s.SortBy(models.SortName)
	q := s.SortBy(models.SortName)
	assert.Equal(t, models.Descending, q.SortOrder)

	q = s.SortBy(models.SortName)
	assert.Equal(t, models.Ascending, q.SortOrder)

	s.SortBy(models.SortName)
	q = s.SortBy(models.SortUploadDate)
	assert.Equal(t, models.SortUploadDate, q.SortField)
	assert.Equal(t, models.Ascending, q.SortOrder)
}

func TestSetPage_ClampsBelowOne(t *testing.T) {
	s := NewState(10)
	assert.Equal(t, 1, s.SetPage(0).Page)
	assert.Equal(t, 1, s.SetPage(-5).Page)
	assert.Equal(t, 7, s.SetPage(7).Page)
}

func TestReset_KeepsSort(t *testing.T) {
	s := NewState(10)
	s.SortBy(models.SortSize)
	s.SortBy(models.SortSize)
	s.SetFilters(models.Filters{Search: "a", FileType: "pdf"})
	s.SetPage(3)

	q := s.Reset()
	assert.True(t, q.Filters.IsZero())
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, models.SortSize, q.SortField)
	assert.Equal(t, models.Descending, q.SortOrder)
}

func TestSameFilters_KeepPage(t *testing.T) {
	s := NewState(10)
	s.SetFilters(models.Filters{Search: "a"})
	s.SetPage(2)

	q := s.SetFilters(models.Filters{Search: "a"})
	assert.Equal(t, 2, q.Page)
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewState(10)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(q *models.QuerySpec) { q.Page++ })
		}()
	}
	wg.Wait()
	assert.Equal(t, 51, s.Current().Page)
}
