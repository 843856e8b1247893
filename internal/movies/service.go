package movies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/movieflix/movieflix/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// MovieStore is the persistent cache collection the service reads and
// writes. All read operations exclude logically expired entries.
type MovieStore interface {
	// Upsert replaces the entry for the movie's ID, stamping a fresh TTL.
	Upsert(ctx context.Context, m Movie, ttl time.Duration) error
	// UpsertAll bulk-upserts in a single transaction.
	UpsertAll(ctx context.Context, list []Movie, ttl time.Duration) error
	// GetByID returns ErrNotFound for unknown or expired IDs.
	GetByID(ctx context.Context, id string) (*Movie, error)
	// Search runs a text search with filter, sort and pagination applied
	// natively. The returned count is the filtered pre-pagination total.
	Search(ctx context.Context, q Query) ([]Movie, int, error)
	// List returns up to limit entries ordered by title ascending.
	List(ctx context.Context, limit int) ([]Movie, error)
	// All returns every non-expired entry.
	All(ctx context.Context) ([]Movie, error)
}

// Provider is the external movie API the service falls through to on cache
// misses. Implementations return ErrNotFound for unknown IDs.
type Provider interface {
	Search(ctx context.Context, term string) ([]Movie, error)
	GetByID(ctx context.Context, id string) (*Movie, error)
}

// Config holds the service's static settings.
type Config struct {
	CacheEnabled     bool
	TTL              time.Duration
	MaxExportRecords int
}

// Service orchestrates the cache-aside read path. It exclusively owns the
// decision of when the store is read and written.
type Service struct {
	store    MovieStore
	provider Provider
	cfg      Config
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewService creates a movie service. A nil metrics handle disables
// instrumentation.
func NewService(store MovieStore, provider Provider, cfg Config, log *slog.Logger, m *metrics.Metrics) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		provider: provider,
		cfg:      cfg,
		log:      log,
		metrics:  m,
	}
}

// Search answers a movie query from the cache when possible, otherwise from
// the provider. A cached result set is trusted only when non-empty: an empty
// cache result never proves the provider has nothing, so count zero always
// falls through. Provider results are cached best-effort and then filtered,
// sorted and paginated in-process.
func (s *Service) Search(ctx context.Context, q Query) ([]Movie, PageInfo, error) {
	if q.Search != "" && s.cfg.CacheEnabled {
		cached, total, err := s.store.Search(ctx, q)
		if err != nil {
			s.log.Warn("cache search failed", "search", q.Search, "error", err)
		} else if total > 0 {
			s.metrics.CacheHit("search")
			s.log.Debug("cache hit", "search", q.Search, "total", total)
			return cached, NewPageInfo(total, q.Limit, q.Offset), nil
		}
	}
	s.metrics.CacheMiss("search")

	fetched, err := s.provider.Search(ctx, q.Search)
	if err != nil {
		s.metrics.Upstream("search", "error")
		return nil, PageInfo{}, fmt.Errorf("upstream search failed: %w", upstream(err))
	}
	s.metrics.Upstream("search", "ok")

	if len(fetched) > 0 && s.cfg.CacheEnabled {
		// Best effort: a failed cache write must not fail the request.
		if err := s.store.UpsertAll(ctx, fetched, s.cfg.TTL); err != nil {
			s.log.Warn("caching search results failed", "search", q.Search, "count", len(fetched), "error", err)
		}
	}

	matched := filterMovies(fetched, q.Filter)
	sortMovies(matched, q.Sort)
	total := len(matched)
	return paginate(matched, q.Offset, q.Limit), NewPageInfo(total, q.Limit, q.Offset), nil
}

// GetByID returns the movie from the cache, falling through to the provider
// on a miss. Unknown IDs yield ErrNotFound.
func (s *Service) GetByID(ctx context.Context, id string) (*Movie, error) {
	if s.cfg.CacheEnabled {
		m, err := s.store.GetByID(ctx, id)
		if err == nil {
			s.metrics.CacheHit("get")
			return m, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("cache lookup failed", "id", id, "error", err)
		}
	}
	s.metrics.CacheMiss("get")

	m, err := s.provider.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.Upstream("get", "not_found")
			return nil, ErrNotFound
		}
		s.metrics.Upstream("get", "error")
		return nil, fmt.Errorf("upstream fetch failed: %w", upstream(err))
	}
	s.metrics.Upstream("get", "ok")

	if s.cfg.CacheEnabled {
		if err := s.store.Upsert(ctx, *m, s.cfg.TTL); err != nil {
			s.log.Warn("caching movie failed", "id", id, "error", err)
		}
	}
	return m, nil
}

// Analytics aggregates the current cache contents. It never calls the
// provider; an empty cache yields a zeroed snapshot.
func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	list, err := s.store.All(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("analytics read: %w", err)
	}
	return Aggregate(list), nil
}

// Export returns up to MaxExportRecords cached movies ordered by title.
func (s *Service) Export(ctx context.Context) ([]Movie, error) {
	list, err := s.store.List(ctx, s.cfg.MaxExportRecords)
	if err != nil {
		return nil, fmt.Errorf("export read: %w", err)
	}
	return list, nil
}

// upstream tags err with ErrUpstream unless it already is.
func upstream(err error) error {
	if errors.Is(err, ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

func filterMovies(list []Movie, f Filter) []Movie {
	if f.Kind == FilterNone {
		return list
	}
	matched := make([]Movie, 0, len(list))
	for _, m := range list {
		if f.Matches(m) {
			matched = append(matched, m)
		}
	}
	return matched
}

// sortMovies orders in place: rating and year descending, title ascending.
// Ties break on title to keep pages stable.
func sortMovies(list []Movie, key SortKey) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch key {
		case SortYear:
			if a.Year != b.Year {
				return a.Year > b.Year
			}
		case SortTitle:
			return lessTitle(a.Title, b.Title)
		default:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		}
		return lessTitle(a.Title, b.Title)
	})
}

func lessTitle(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func paginate(list []Movie, offset, limit int) []Movie {
	if offset >= len(list) {
		return []Movie{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
