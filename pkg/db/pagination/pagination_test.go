package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateEmptyCollection(t *testing.T) {
	page := Paginate([]int{}, Pagination{Page: 1, PageSize: 15})

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
}

func TestPaginateClampsInvalidPageDown(t *testing.T) {
	// 37 records at 15 per page give 3 pages; page 5 lands on the last one.
	page := Paginate(seq(37), Pagination{Page: 5, PageSize: 15})

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Len(t, page.Items, 7)
	assert.Equal(t, 31, page.Items[0])
}

func TestPaginateLastPartialPage(t *testing.T) {
	page := Paginate(seq(16), Pagination{Page: 2, PageSize: 15})

	assert.Len(t, page.Items, 1)
	assert.Equal(t, 16, page.Items[0])
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestPaginateFullPage(t *testing.T) {
	page := Paginate(seq(40), Pagination{Page: 2, PageSize: 10})

	assert.Len(t, page.Items, 10)
	assert.Equal(t, 11, page.Items[0])
	assert.Equal(t, 20, page.Items[9])
	assert.Equal(t, 4, page.TotalPages)
}

func TestNormalizeRejectsUnknownPageSize(t *testing.T) {
	p := Pagination{Page: 2, PageSize: 37}.Normalize()
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 2, p.Page)

	p = Pagination{Page: 0, PageSize: 10}.Normalize()
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 1, p.Page)

	p = Pagination{Page: -3, PageSize: 0}.Normalize()
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 1, p.Page)
}

func TestWithPageSizeResetsToFirstPage(t *testing.T) {
	p := Pagination{Page: 4, PageSize: 15}.WithPageSize(5)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.PageSize)
}

func TestPaginateBelowFirstPageClampsUp(t *testing.T) {
	page := Paginate(seq(30), Pagination{Page: -1, PageSize: 10})

	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.Items[0])
}
