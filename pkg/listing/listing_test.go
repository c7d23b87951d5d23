package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	res := Paginate(items, Page{Number: 2, PerPage: 3})
	assert.Equal(t, []int{4, 5, 6}, res.Items)
	assert.Equal(t, 7, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)

	res = Paginate(items, Page{Number: 3, PerPage: 3})
	assert.Equal(t, []int{7}, res.Items)

	res = Paginate(items, Page{Number: 9, PerPage: 3})
	assert.Empty(t, res.Items)

	res = Paginate(items, Page{})
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, DefaultPerPage, res.PerPage)
	assert.Len(t, res.Items, 7)
	assert.Equal(t, 1, res.TotalPages)
}

func TestPaginateHugePage(t *testing.T) {
	p := ParseQuery(url.Values{"page": {"1844674407370955162"}}).Page
	res := Paginate([]int{1, 2, 3}, p)
	assert.Empty(t, res.Items)
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 1, res.TotalPages)
}

func TestPaginateEmpty(t *testing.T) {
	res := Paginate([]string(nil), Page{Number: 1, PerPage: 10})
	assert.NotNil(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery(url.Values{
		"q":       {"  coffee "},
		"sort":    {"Price"},
		"order":   {"DESC"},
		"page":    {"2"},
		"perPage": {"500"},
	})
	assert.Equal(t, "coffee", q.Search)
	assert.Equal(t, Sort{Column: "price", Order: SortDesc}, q.Sort)
	assert.Equal(t, Page{Number: 2, PerPage: MaxPerPage}, q.Page)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Coffee Bean Bag", "bean"))
	assert.True(t, ContainsFold("CB001", "cb0"))
	assert.False(t, ContainsFold("Water", "coffee"))
	assert.True(t, ContainsFold("anything", ""))
}
