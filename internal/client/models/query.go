package models

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DateLayout is the wire format of date-range bounds.
const DateLayout = "2006-01-02"

// SortField names a sortable column. The empty value leaves ordering to the server.
type SortField string

const (
	SortNone        SortField = ""
	SortName        SortField = "name"
	SortFileType    SortField = "file_type"
	SortSize        SortField = "size"
	SortUploadDate  SortField = "upload_date"
	SortIsDuplicate SortField = "is_duplicate"
)

// ParseSortField maps user input to a SortField.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortName, SortFileType, SortSize, SortUploadDate, SortIsDuplicate:
		return f, nil
	case "type":
		return SortFileType, nil
	case "date":
		return SortUploadDate, nil
	case "duplicate":
		return SortIsDuplicate, nil
	default:
		return SortNone, fmt.Errorf("unknown sort field %q", s)
	}
}

// SortOrder is the direction of sorting.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Flip returns the opposite order.
func (o SortOrder) Flip() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// Filters are the optional predicates of a query. Zero values mean "absent".
type Filters struct {
	Search    string
	FileType  string
	MinSize   *int64
	MaxSize   *int64
	StartDate time.Time
	EndDate   time.Time
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.Equal(Filters{})
}

// Equal compares filters by value.
func (f Filters) Equal(o Filters) bool {
	return f.Search == o.Search &&
		f.FileType == o.FileType &&
		equalSize(f.MinSize, o.MinSize) &&
		equalSize(f.MaxSize, o.MaxSize) &&
		sameDay(f.StartDate, o.StartDate) &&
		sameDay(f.EndDate, o.EndDate)
}

func equalSize(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	return a.Format(DateLayout) == b.Format(DateLayout)
}

// QuerySpec identifies one view of the file collection.
type QuerySpec struct {
	Filters
	SortField SortField
	SortOrder SortOrder
	Page      int
	PageSize  int
}

// NewQuerySpec returns the unfiltered first page.
func NewQuerySpec(pageSize int) QuerySpec {
	return QuerySpec{SortOrder: Ascending, Page: 1, PageSize: pageSize}
}

// Equal reports cache equivalence.
func (q QuerySpec) Equal(o QuerySpec) bool {
	return q.Key() == o.Key()
}

// Values encodes the query as request parameters. Absent filters are omitted;
// page and per_page are always present; sort and order only with a sort field.
func (q QuerySpec) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.FileType != "" {
		v.Set("file_type", q.FileType)
	}
	if q.MinSize != nil {
		v.Set("min_size", strconv.FormatInt(*q.MinSize, 10))
	}
	if q.MaxSize != nil {
		v.Set("max_size", strconv.FormatInt(*q.MaxSize, 10))
	}
	if !q.StartDate.IsZero() {
		v.Set("start_date", q.StartDate.Format(DateLayout))
	}
	if !q.EndDate.IsZero() {
		v.Set("end_date", q.EndDate.Format(DateLayout))
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PageSize))
	if q.SortField != SortNone {
		order := q.SortOrder
		if order == "" {
			order = Ascending
		}
		v.Set("sort", string(q.SortField))
		v.Set("order", string(order))
	}
	return v
}

// Key is the normalized cache key. url.Values.Encode sorts by parameter name,
// so two equal queries always produce the same key.
func (q QuerySpec) Key() string {
	return q.Values().Encode()
}

// Int64 returns a pointer to n; handy for size bounds.
func Int64(n int64) *int64 {
	return &n
}
