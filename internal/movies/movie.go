// Package movies implements the cache-aside movie metadata service.
//
// Reads prefer the local cache store; misses fall through to the external
// provider, whose results are written back with a fresh TTL.
package movies

// Movie is the canonical movie record served by the API and persisted in
// the cache store. IDs are provider-namespaced (raw IMDb IDs from OMDb).
type Movie struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Genre    []string `json:"genre"`
	Director string   `json:"director"`
	Actors   []string `json:"actors"`
	Rating   float64  `json:"rating"`
	Runtime  int      `json:"runtime"`
	Plot     string   `json:"plot"`
}

// SortKey selects the ordering of a movie result set.
type SortKey string

// Supported sort keys. Rating and year sort descending, title ascending.
const (
	SortRating SortKey = "rating"
	SortYear   SortKey = "year"
	SortTitle  SortKey = "title"
)

// Analytics is a point-in-time aggregate over the non-expired cache contents.
type Analytics struct {
	GenreDistribution    map[string]int `json:"genreDistribution"`
	AverageRating        float64        `json:"averageRating"`
	AverageRuntimeByYear map[int]int    `json:"averageRuntimeByYear"`
	TotalMovies          int            `json:"totalMovies"`
}

// PageInfo describes the pagination of a result set. Total is the size of
// the filtered set before pagination.
type PageInfo struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPageInfo derives pagination metadata for a filtered total and a
// resolved offset+limit window.
func NewPageInfo(total, limit, offset int) PageInfo {
	page := offset/limit + 1
	totalPages := (total + limit - 1) / limit
	return PageInfo{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page*limit < total,
		HasPrevPage: page > 1,
	}
}
