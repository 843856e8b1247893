// Package omdb implements the external movie provider client for the OMDb API.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/movieflix/movieflix/internal/movies"
)

const defaultBaseURL = "https://www.omdbapi.com"

// OMDb reports this error string for searches with no matches; it is a
// normal empty result, not a failure.
const errMovieNotFound = "Movie not found!"

// defaultDetailConcurrency bounds the parallel detail fetches per search.
const defaultDetailConcurrency = 5

// Client is an OMDb API client. It implements movies.Provider.
type Client struct {
	apiKey            string
	baseURL           string
	httpClient        *http.Client
	log               *slog.Logger
	detailConcurrency int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "omdb")
	}
}

// WithDetailConcurrency bounds the parallel detail fetches during a search.
func WithDetailConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.detailConcurrency = n
		}
	}
}

// New creates a new OMDb client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		detailConcurrency: defaultDetailConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries OMDb by title. The search endpoint only returns summaries,
// so one detail fetch per result is issued concurrently; a failed detail
// fetch is logged and skipped rather than failing the batch. Surviving
// results keep the summary order. "Movie not found!" maps to an empty slice.
func (c *Client) Search(ctx context.Context, term string) ([]movies.Movie, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("s", term)
	params.Set("type", "movie")
	params.Set("page", "1")

	var resp searchResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}

	if resp.Response == "False" {
		if resp.Error == errMovieNotFound {
			return []movies.Movie{}, nil
		}
		return nil, fmt.Errorf("OMDb search error: %s", errOrUnknown(resp.Error))
	}

	// One detail fetch per summary, bounded and failure-tolerant. Results
	// land in their summary slot so partial failure cannot reorder them.
	details := make([]*movies.Movie, len(resp.Search))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.detailConcurrency)
	for i, summary := range resp.Search {
		g.Go(func() error {
			m, err := c.GetByID(gctx, summary.ImdbID)
			if err != nil {
				if c.log != nil {
					c.log.Warn("detail fetch failed", "imdb_id", summary.ImdbID, "error", err)
				}
				return nil
			}
			details[i] = m
			return nil
		})
	}
	_ = g.Wait()

	results := make([]movies.Movie, 0, len(details))
	for _, m := range details {
		if m != nil {
			results = append(results, *m)
		}
	}

	if c.log != nil {
		c.log.Debug("search completed", "term", term, "summaries", len(resp.Search),
			"results", len(results), "duration_ms", time.Since(start).Milliseconds())
	}
	return results, nil
}

// GetByID fetches full movie details by IMDb ID. An unknown ID maps to
// movies.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (*movies.Movie, error) {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("i", id)
	params.Set("plot", "full")

	var resp detailResponse
	if err := c.getJSON(ctx, params, &resp); err != nil {
		return nil, err
	}

	if resp.Response == "False" {
		return nil, movies.ErrNotFound
	}

	m := resp.toMovie()
	return &m, nil
}

func (c *Client) getJSON(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OMDb API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errOrUnknown(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
