package query

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestCountPages(t *testing.T) {
	assert.Equal(t, 0, CountPages(0, 10))
	assert.Equal(t, 1, CountPages(1, 10))
	assert.Equal(t, 1, CountPages(10, 10))
	assert.Equal(t, 2, CountPages(11, 10))
	assert.Equal(t, 3, CountPages(25, 10))
	assert.Equal(t, 0, CountPages(25, 0))
	assert.Equal(t, 1, CountPages(3, math.MaxInt))
	assert.Equal(t, 1, CountPages(math.MaxInt, math.MaxInt))
	assert.Equal(t, math.MaxInt, CountPages(math.MaxInt, 1))
}

func TestPaginate(t *testing.T) {
	items := seq(25)

	tests := []struct {
		name      string
		page      int
		pageSize  int
		expected  []int
		pageCount int
	}{
		{"first page", 1, 10, seq(10), 3},
		{"last partial page", 3, 10, []int{21, 22, 23, 24, 25}, 3},
		{"beyond last page", 4, 10, []int{}, 3},
		{"page zero", 0, 10, []int{}, 3},
		{"negative page", -2, 10, []int{}, 3},
		{"single page", 1, 100, items, 1},
		{"page size one", 7, 1, []int{7}, 25},
		{"huge page size", 1, math.MaxInt, items, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate(items, tt.page, tt.pageSize)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, page.Items)
			assert.Equal(t, 25, page.TotalMatching)
			assert.Equal(t, tt.page, page.Page)
			assert.Equal(t, tt.pageSize, page.PageSize)
			assert.Equal(t, tt.pageCount, page.PageCount)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	page, err := Paginate([]int{}, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalMatching)
	assert.Equal(t, 0, page.PageCount)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrevious())
}

func TestPaginate_InvalidPageSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		page, err := Paginate(seq(5), 1, size)
		assert.Nil(t, page)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPageSize))

		var usage *UsageError
		require.True(t, errors.As(err, &usage))
		assert.Equal(t, "pageSize", usage.Param)
		assert.Equal(t, size, usage.Value)
	}
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	items := seq(5)
	page, err := Paginate(items, 1, 2)
	require.NoError(t, err)
	page.Items[0] = 99
	assert.Equal(t, 1, items[0])
}

func TestResultPage_Navigation(t *testing.T) {
	first, _ := Paginate(seq(25), 1, 10)
	assert.True(t, first.HasNext())
	assert.False(t, first.HasPrevious())

	middle, _ := Paginate(seq(25), 2, 10)
	assert.True(t, middle.HasNext())
	assert.True(t, middle.HasPrevious())

	last, _ := Paginate(seq(25), 3, 10)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())
}
