package movies_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieflix/movieflix/internal/movies"
)

var testLimits = movies.Limits{DefaultLimit: 20, MaxLimit: 100}

func TestParseQuery_Defaults(t *testing.T) {
	q, err := movies.ParseQuery(movies.RawQuery{}, testLimits)
	require.NoError(t, err)

	assert.Equal(t, "", q.Search)
	assert.Equal(t, movies.SortRating, q.Sort)
	assert.Equal(t, movies.FilterNone, q.Filter.Kind)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestParseQuery_PageToOffset(t *testing.T) {
	q, err := movies.ParseQuery(movies.RawQuery{Page: "3", Limit: "10"}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 20, q.Offset)
}

func TestParseQuery_ExplicitOffsetWins(t *testing.T) {
	q, err := movies.ParseQuery(movies.RawQuery{Page: "5", Offset: "7", Limit: "10"}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, 7, q.Offset)
}

func TestParseQuery_LimitClamping(t *testing.T) {
	q, err := movies.ParseQuery(movies.RawQuery{Limit: "0"}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Limit)

	q, err = movies.ParseQuery(movies.RawQuery{Limit: "500"}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, 100, q.Limit)

	q, err = movies.ParseQuery(movies.RawQuery{Limit: "500"}, movies.Limits{DefaultLimit: 20, MaxLimit: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, q.Limit)
}

func TestParseQuery_PageClampedToOne(t *testing.T) {
	q, err := movies.ParseQuery(movies.RawQuery{Page: "0", Limit: "10"}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Offset)
}

func TestParseQuery_InvalidNumerics(t *testing.T) {
	for _, raw := range []movies.RawQuery{
		{Limit: "abc"},
		{Limit: "-1"},
		{Page: "x"},
		{Page: "-2"},
		{Offset: "oops"},
		{Offset: "-5"},
	} {
		_, err := movies.ParseQuery(raw, testLimits)
		assert.ErrorIs(t, err, movies.ErrInvalidQuery, "raw=%+v", raw)
	}
}

func TestParseQuery_UnknownSortDefaultsToRating(t *testing.T) {
	q, err := movies.ParseQuery(movies.RawQuery{Sort: "director"}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, movies.SortRating, q.Sort)
}

func TestParseQuery_SortKeys(t *testing.T) {
	for raw, want := range map[string]movies.SortKey{
		"rating": movies.SortRating,
		"year":   movies.SortYear,
		"title":  movies.SortTitle,
		"YEAR":   movies.SortYear,
	} {
		q, err := movies.ParseQuery(movies.RawQuery{Sort: raw}, testLimits)
		require.NoError(t, err)
		assert.Equal(t, want, q.Sort)
	}
}

func TestParseFilter(t *testing.T) {
	f := movies.ParseFilter("genre:Sci-Fi")
	assert.Equal(t, movies.FilterGenre, f.Kind)
	assert.Equal(t, []string{"Sci-Fi"}, f.Values)

	f = movies.ParseFilter("genre:Drama, Adventure")
	assert.Equal(t, []string{"Drama", "Adventure"}, f.Values)

	// Unknown keys pass through as no-ops
	assert.Equal(t, movies.FilterNone, movies.ParseFilter("director:Nolan").Kind)

	// Malformed strings are ignored, not rejected
	assert.Equal(t, movies.FilterNone, movies.ParseFilter("genre:").Kind)
	assert.Equal(t, movies.FilterNone, movies.ParseFilter("genre").Kind)
	assert.Equal(t, movies.FilterNone, movies.ParseFilter("").Kind)
	assert.Equal(t, movies.FilterNone, movies.ParseFilter("genre: , ,").Kind)
}

func TestFilter_Matches(t *testing.T) {
	m := movies.Movie{Genre: []string{"Action", "Thriller"}}

	// OR semantics across comma-separated values
	f := movies.Filter{Kind: movies.FilterGenre, Values: []string{"Action", "Drama"}}
	assert.True(t, f.Matches(m))

	// Case-insensitive substring
	f = movies.Filter{Kind: movies.FilterGenre, Values: []string{"thrill"}}
	assert.True(t, f.Matches(m))

	f = movies.Filter{Kind: movies.FilterGenre, Values: []string{"Comedy"}}
	assert.False(t, f.Matches(m))

	assert.True(t, movies.Filter{Kind: movies.FilterNone}.Matches(m))
}

func TestNewPageInfo(t *testing.T) {
	info := movies.NewPageInfo(45, 10, 20)
	assert.Equal(t, 45, info.Total)
	assert.Equal(t, 3, info.Page)
	assert.Equal(t, 10, info.Limit)
	assert.Equal(t, 5, info.TotalPages)
	assert.True(t, info.HasNextPage)
	assert.True(t, info.HasPrevPage)

	first := movies.NewPageInfo(5, 10, 0)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 1, first.TotalPages)
	assert.False(t, first.HasNextPage)
	assert.False(t, first.HasPrevPage)

	empty := movies.NewPageInfo(0, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNextPage)
}
