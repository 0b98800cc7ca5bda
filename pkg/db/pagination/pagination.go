// Package pagination implements the offset paging model used by the console
// list views. Unlike the cursor tokens of our metered APIs, the console
// exposes numbered pages with a fixed set of page sizes, so paging here is a
// pure slice over an already-filtered collection.
package pagination

// DefaultPageSize matches the console's initial list view.
const DefaultPageSize = 15

// AllowedPageSizes are the sizes offered by the page-size dropdown.
var AllowedPageSizes = []int{5, 10, 15, 20}

// Pagination is the paging state bound from list query parameters.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=15"`
}

// Page holds one page of records plus the metadata the view derives from the
// filtered collection size.
type Page[T any] struct {
	Items       []T `json:"items"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// Normalize coerces the paging state into valid bounds: a non-allowed page
// size falls back to DefaultPageSize and a page below 1 becomes 1. Clamping
// against the upper page bound happens in Paginate, where the collection
// size is known.
func (p Pagination) Normalize() Pagination {
	if !allowedSize(p.PageSize) {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// WithPageSize changes the page size and resets to the first page. Changing
// size always restarts paging; callers must not carry the old page number
// across a size change.
func (p Pagination) WithPageSize(size int) Pagination {
	p.PageSize = size
	p.Page = 1
	return p.Normalize()
}

// Paginate slices one page out of records. TotalPages is at least 1 even for
// an empty collection, and the requested page is clamped into
// [1, TotalPages] so a page left dangling by a shrinking collection lands on
// the last page instead of rendering empty.
func Paginate[T any](records []T, p Pagination) Page[T] {
	p = p.Normalize()

	totalPages := (len(records) + p.PageSize - 1) / p.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := p.Page
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * p.PageSize
	end := start + p.PageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	return Page[T]{
		Items:       records[start:end],
		TotalCount:  len(records),
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    p.PageSize,
	}
}

func allowedSize(size int) bool {
	for _, allowed := range AllowedPageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}
