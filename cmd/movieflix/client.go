package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the movieflix server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new movieflix API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

// serverError surfaces the error envelope's message when the body has one.
func serverError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("server error %d: %s", resp.StatusCode, envelope.Error.Message)
	}
	return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
}

// API response types (mirror server types)

type MovieResponse struct {
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

type PaginationResponse struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type SearchMoviesResponse struct {
	Data       []MovieResponse    `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

type MovieDetailResponse struct {
	Data MovieResponse `json:"data"`
}

type StatsResponse struct {
	Data struct {
		GenreDistribution    map[string]int `json:"genreDistribution"`
		AverageRating        float64        `json:"averageRating"`
		AverageRuntimeByYear map[int]int    `json:"averageRuntimeByYear"`
		TotalMovies          int            `json:"totalMovies"`
	} `json:"data"`
}

// SearchParams are the query parameters of the movie search endpoint.
type SearchParams struct {
	Search string
	Sort   string
	Filter string
	Limit  int
	Page   int
}

func (c *Client) SearchMovies(p SearchParams) (*SearchMoviesResponse, error) {
	params := url.Values{}
	if p.Search != "" {
		params.Set("search", p.Search)
	}
	if p.Sort != "" {
		params.Set("sort", p.Sort)
	}
	if p.Filter != "" {
		params.Set("filter", p.Filter)
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Page > 0 {
		params.Set("page", strconv.Itoa(p.Page))
	}

	var result SearchMoviesResponse
	if err := c.get("/api/v1/movies?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetMovie(id string) (*MovieResponse, error) {
	var result MovieDetailResponse
	if err := c.get("/api/v1/movies/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result.Data, nil
}

func (c *Client) Stats() (*StatsResponse, error) {
	var result StatsResponse
	if err := c.get("/api/v1/movies/stats", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Export streams the CSV export to w. The admin key may be empty when the
// server does not require one.
func (c *Client) Export(adminKey string, w io.Writer) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/api/v1/movies/export", nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if adminKey != "" {
		req.Header.Set("X-Api-Key", adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
