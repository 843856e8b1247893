package omdb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/movieflix/movieflix/internal/movies"
)

// searchResponse is the OMDb `s=` payload. Results are summaries only.
type searchResponse struct {
	Search       []searchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// detailResponse is the OMDb `i=` payload. All numeric fields arrive as
// strings and may be "N/A".
type detailResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Runtime    string `json:"Runtime"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// toMovie normalizes the upstream shape into the canonical record.
// Malformed numeric fields fall back to 0 rather than failing.
func (r detailResponse) toMovie() movies.Movie {
	return movies.Movie{
		ID:       r.ImdbID,
		Title:    r.Title,
		Year:     parseYear(r.Year),
		Genre:    splitList(r.Genre),
		Director: stringOr(r.Director, "Unknown"),
		Actors:   splitList(r.Actors),
		Rating:   parseRating(r.ImdbRating),
		Runtime:  parseRuntime(r.Runtime),
		Plot:     stringOr(r.Plot, "No plot available"),
	}
}

var leadingDigits = regexp.MustCompile(`\d+`)

// parseYear handles plain years and ranges like "2010–2012".
func parseYear(s string) int {
	match := leadingDigits.FindString(s)
	if match == "" {
		return 0
	}
	year, _ := strconv.Atoi(match)
	return year
}

// parseRating clamps to the canonical 0-10 range; "N/A" and garbage map to 0.
func parseRating(s string) float64 {
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil || rating < 0 {
		return 0
	}
	if rating > 10 {
		return 10
	}
	return rating
}

// parseRuntime extracts the minutes from strings like "136 min".
func parseRuntime(s string) int {
	match := leadingDigits.FindString(s)
	if match == "" {
		return 0
	}
	minutes, _ := strconv.Atoi(match)
	return minutes
}

// splitList splits OMDb's ", "-separated lists. "N/A" means absent.
func splitList(s string) []string {
	if s == "" || s == "N/A" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stringOr(s, fallback string) string {
	if s == "" || s == "N/A" {
		return fallback
	}
	return s
}
