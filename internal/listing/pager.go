package listing

import "hublish/internal/models"

// Defaults used when a listing request omits limit or page.
const (
	DefaultLimit = 10
	DefaultPage  = 1
)

// Pager holds validated limit/page parameters for one listing run.
type Pager struct {
	Limit int
	Page  int
}

// NewPager validates limit and page. Both must be at least 1: limit=0
// would make the total_pages division undefined, and page<1 would
// produce a negative skip, so both are rejected up front with
// InvalidQuery before any storage access.
func NewPager(limit, page int) (Pager, error) {
	if limit < 1 {
		return Pager{}, models.NewInvalidQueryError("limit must be a positive integer")
	}
	if page < 1 {
		return Pager{}, models.NewInvalidQueryError("page must be a positive integer")
	}
	return Pager{Limit: limit, Page: page}, nil
}

// DefaultPager returns the pager used when no parameters were supplied.
func DefaultPager() Pager {
	return Pager{Limit: DefaultLimit, Page: DefaultPage}
}

// Skip returns the row offset for the requested page.
func (p Pager) Skip() int {
	return p.Limit * (p.Page - 1)
}

// TotalPages computes ceil(total/limit) without floating point.
func (p Pager) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
