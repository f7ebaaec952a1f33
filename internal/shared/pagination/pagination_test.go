package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	req, err := Parse("", " ")
	require.NoError(t, err)
	assert.Equal(t, Request{Page: 1, PageSize: 20}, req)
	assert.Equal(t, 0, req.Offset())
}

func TestParse_RejectsBadBounds(t *testing.T) {
	cases := []struct {
		name     string
		page     string
		pageSize string
		want     error
	}{
		{name: "zero page", page: "0", want: ErrInvalidPage},
		{name: "non numeric page", page: "two", want: ErrInvalidPage},
		{name: "zero size", pageSize: "0", want: ErrInvalidPageSize},
		{name: "size above max", pageSize: "101", want: ErrInvalidPageSize},
		{name: "non numeric size", pageSize: "ten", want: ErrInvalidPageSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.page, tc.pageSize)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWindow(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i + 1
	}

	page2, err := New(2, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, page2.Offset())
	assert.Equal(t, []int{6, 7, 8, 9, 10}, Window(items, page2))

	page3, err := New(3, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 12}, Window(items, page3))

	page4, err := New(4, 5)
	require.NoError(t, err)
	assert.Empty(t, Window(items, page4))
}

func TestNewPage_NeverNilItems(t *testing.T) {
	page := NewPage[string](Default(), nil, 0)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
}
