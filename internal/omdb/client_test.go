package omdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movieflix/movieflix/internal/movies"
)

// fakeOMDb serves canned search and detail responses keyed by IMDb ID.
func fakeOMDb(t *testing.T, search map[string][]searchItem, details map[string]detailResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		w.Header().Set("Content-Type", "application/json")

		if id := r.URL.Query().Get("i"); id != "" {
			detail, ok := details[id]
			if !ok {
				_ = json.NewEncoder(w).Encode(detailResponse{Response: "False", Error: "Incorrect IMDb ID."})
				return
			}
			detail.Response = "True"
			_ = json.NewEncoder(w).Encode(detail)
			return
		}

		term := r.URL.Query().Get("s")
		items, ok := search[term]
		if !ok {
			_ = json.NewEncoder(w).Encode(searchResponse{Response: "False", Error: "Movie not found!"})
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Search: items, Response: "True"})
	}))
}

func TestClient_Search(t *testing.T) {
	server := fakeOMDb(t,
		map[string][]searchItem{
			"batman": {
				{Title: "Batman Begins", Year: "2005", ImdbID: "tt0372784"},
				{Title: "The Dark Knight", Year: "2008", ImdbID: "tt0468569"},
			},
		},
		map[string]detailResponse{
			"tt0372784": {Title: "Batman Begins", Year: "2005", ImdbID: "tt0372784", Genre: "Action, Crime", Director: "Christopher Nolan", Actors: "Christian Bale, Michael Caine", ImdbRating: "8.2", Runtime: "140 min", Plot: "Bruce Wayne begins."},
			"tt0468569": {Title: "The Dark Knight", Year: "2008", ImdbID: "tt0468569", Genre: "Action, Crime, Drama", Director: "Christopher Nolan", Actors: "Christian Bale, Heath Ledger", ImdbRating: "9.0", Runtime: "152 min", Plot: "The Joker wreaks havoc."},
		},
	)
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	results, err := client.Search(context.Background(), "batman")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Summary order is preserved
	assert.Equal(t, "tt0372784", results[0].ID)
	assert.Equal(t, "tt0468569", results[1].ID)

	assert.Equal(t, 2005, results[0].Year)
	assert.Equal(t, []string{"Action", "Crime"}, results[0].Genre)
	assert.Equal(t, []string{"Christian Bale", "Michael Caine"}, results[0].Actors)
	assert.Equal(t, 8.2, results[0].Rating)
	assert.Equal(t, 140, results[0].Runtime)
}

func TestClient_Search_NoResults(t *testing.T) {
	server := fakeOMDb(t, nil, nil)
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	results, err := client.Search(context.Background(), "zzzzz")
	require.NoError(t, err, `"Movie not found!" is an empty result, not an error`)
	assert.Empty(t, results)
}

func TestClient_Search_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{Response: "False", Error: "Invalid API key!"})
	}))
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "batman")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key!")
}

func TestClient_Search_PartialDetailFailure(t *testing.T) {
	var detailCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if id := r.URL.Query().Get("i"); id != "" {
			detailCalls.Add(1)
			if id == "tt2" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(detailResponse{Title: "Movie " + id, ImdbID: id, Response: "True"})
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{
			Search:   []searchItem{{ImdbID: "tt1"}, {ImdbID: "tt2"}, {ImdbID: "tt3"}},
			Response: "True",
		})
	}))
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	results, err := client.Search(context.Background(), "whatever")
	require.NoError(t, err, "one failed detail fetch must not fail the batch")
	assert.Equal(t, int32(3), detailCalls.Load(), "every summary gets a detail fetch")
	require.Len(t, results, 2)
	assert.Equal(t, "tt1", results[0].ID)
	assert.Equal(t, "tt3", results[1].ID)
}

func TestClient_GetByID(t *testing.T) {
	server := fakeOMDb(t, nil, map[string]detailResponse{
		"tt0133093": {Title: "The Matrix", Year: "1999", ImdbID: "tt0133093", Genre: "Action, Sci-Fi", Director: "Lana Wachowski, Lilly Wachowski", Actors: "Keanu Reeves", ImdbRating: "8.7", Runtime: "136 min", Plot: "A hacker learns the truth."},
	})
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	m, err := client.GetByID(context.Background(), "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", m.Title)
	assert.Equal(t, 1999, m.Year)
	assert.Equal(t, 136, m.Runtime)
	assert.Equal(t, 8.7, m.Rating)
}

func TestClient_GetByID_NotFound(t *testing.T) {
	server := fakeOMDb(t, nil, nil)
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	_, err := client.GetByID(context.Background(), "tt0000000")
	assert.ErrorIs(t, err, movies.ErrNotFound)
}

func TestClient_GetByID_MalformedFields(t *testing.T) {
	server := fakeOMDb(t, nil, map[string]detailResponse{
		"tt1": {Title: "Odd Movie", Year: "N/A", ImdbID: "tt1", Genre: "N/A", Director: "N/A", Actors: "N/A", ImdbRating: "N/A", Runtime: "N/A", Plot: "N/A"},
	})
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	m, err := client.GetByID(context.Background(), "tt1")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Year)
	assert.Equal(t, 0.0, m.Rating)
	assert.Equal(t, 0, m.Runtime)
	assert.Empty(t, m.Genre)
	assert.Equal(t, "Unknown", m.Director)
	assert.Equal(t, "No plot available", m.Plot)
}

func TestClient_GetByID_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New("test-key", WithBaseURL(server.URL))

	_, err := client.GetByID(context.Background(), "tt1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, movies.ErrNotFound)
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2010, parseYear("2010"))
	assert.Equal(t, 2010, parseYear("2010–2012"))
	assert.Equal(t, 0, parseYear("N/A"))
	assert.Equal(t, 0, parseYear(""))
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, 8.7, parseRating("8.7"))
	assert.Equal(t, 0.0, parseRating("N/A"))
	assert.Equal(t, 0.0, parseRating("-3"))
	assert.Equal(t, 10.0, parseRating("42"))
}

func TestParseRuntime(t *testing.T) {
	assert.Equal(t, 136, parseRuntime("136 min"))
	assert.Equal(t, 0, parseRuntime("N/A"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Action", "Sci-Fi"}, splitList("Action, Sci-Fi"))
	assert.Empty(t, splitList("N/A"))
	assert.Empty(t, splitList(""))
}
