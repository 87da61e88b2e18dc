package transaction

import (
	"math"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 7
	MaxPageSize     = 100

	// MaxPage keeps (Page-1)*Limit far from overflowing; any page this
	// large is past the end of every listing.
	MaxPage = math.MaxInt32
)

type Filter string

const (
	FilterAll     Filter = "all"
	FilterIncome  Filter = "income"
	FilterExpense Filter = "expense"
)

type SortField string

const (
	SortByDate      SortField = "date"
	SortByAmount    SortField = "amount"
	SortByCreatedAt SortField = "createdAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListQuery describes one page of a user's transactions.
type ListQuery struct {
	UserID    int64
	Search    string
	Filter    Filter
	SortBy    SortField
	SortOrder SortOrder
	Page      int
	Limit     int
}

// Normalize fills defaults and folds unknown values onto the documented
// fallbacks: filter "all", sort by creation time, descending order. Page and
// Limit are clamped to MaxPage and MaxPageSize.
func (q ListQuery) Normalize() ListQuery {
	q.Search = strings.TrimSpace(q.Search)

	switch q.Filter {
	case FilterIncome, FilterExpense:
	default:
		q.Filter = FilterAll
	}

	switch q.SortBy {
	case "":
		q.SortBy = SortByDate
	case SortByDate, SortByAmount:
	default:
		q.SortBy = SortByCreatedAt
	}

	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}

	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page is one slice of a listing plus the totals needed to paginate.
type Page struct {
	Transactions []*Transaction
	TotalCount   int64
	TotalPages   int
	CurrentPage  int
}

// TotalPages returns ceil(count / limit).
func TotalPages(count int64, limit int) int {
	if limit <= 0 || count <= 0 {
		return 0
	}
	l := int64(limit)
	return int((count + l - 1) / l)
}
