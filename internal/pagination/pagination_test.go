package pagination

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    Params
		wantErr error
	}{
		{name: "defaults", query: "", want: Params{Page: 1, PageSize: 20, SortOrder: "asc"}},
		{name: "explicit", query: "page=3&pageSize=5", want: Params{Page: 3, PageSize: 5, SortOrder: "asc"}},
		{name: "sort desc", query: "sort=name:desc", want: Params{Page: 1, PageSize: 20, SortField: "name", SortOrder: "desc"}},
		{name: "page zero", query: "page=0", wantErr: ErrInvalidPage},
		{name: "page not integer", query: "page=two", wantErr: ErrInvalidPage},
		{name: "page size too large", query: "pageSize=101", wantErr: ErrInvalidPageSize},
		{name: "page size zero", query: "pageSize=0", wantErr: ErrInvalidPageSize},
		{name: "bad sort order", query: "sort=name:up", wantErr: ErrInvalidSortOrder},
		{name: "bad sort format", query: "sort=a:b:c", wantErr: ErrInvalidSortFormat},
		{name: "empty sort field", query: "sort=:asc", wantErr: ErrEmptySortField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseQuery(q)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, Apply(items, Params{Page: 1, PageSize: 3}))
	assert.Equal(t, []int{7}, Apply(items, Params{Page: 3, PageSize: 3}))
	assert.Empty(t, Apply(items, Params{Page: 4, PageSize: 3}))
	assert.NotNil(t, Apply([]int(nil), Params{Page: 1, PageSize: 3}))
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(Params{Page: 2, PageSize: 20}, 45)
	assert.Equal(t, Meta{Total: 45, Page: 2, PageSize: 20, TotalPages: 3}, m)
	assert.True(t, m.HasNext())
	assert.True(t, m.HasPrevious())

	empty := NewMeta(NewParams(), 0)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext())
	assert.False(t, empty.HasPrevious())
}

type row struct {
	name  string
	score float64
}

func TestSorter(t *testing.T) {
	s := NewSorter(map[string]func(a, b row) int{
		"name":  By(func(r row) string { return strings.ToLower(r.name) }),
		"score": By(func(r row) float64 { return r.score }),
	})
	rows := []row{{"beta", 2}, {"Alpha", 3}, {"gamma", 1}}

	got, err := s.Sort(rows, "name", SortOrderAsc)
	require.NoError(t, err)
	assert.Equal(t, []row{{"Alpha", 3}, {"beta", 2}, {"gamma", 1}}, got)
	assert.Equal(t, "beta", rows[0].name, "input not modified")

	got, err = s.Sort(rows, "score", SortOrderDesc)
	require.NoError(t, err)
	assert.Equal(t, []row{{"Alpha", 3}, {"beta", 2}, {"gamma", 1}}, got)

	got, err = s.Sort(rows, "", SortOrderAsc)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	_, err = s.Sort(rows, "weight", SortOrderAsc)
	require.ErrorIs(t, err, ErrInvalidSortField)
	assert.Equal(t, []string{"name", "score"}, s.ValidFields())
}
