// Package store implements the persistent movie cache on SQLite.
//
// Every read filters out rows whose expires_at has passed; physical removal
// of expired rows is deferred to Prune and never required for correctness.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/movieflix/movieflix/internal/movies"
	"github.com/movieflix/movieflix/pkg/title"
)

// Store provides access to the movie cache collection.
type Store struct {
	db *sql.DB
}

// New creates a movie cache store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const movieColumns = "id, title, year, genres, director, actors, rating, runtime, plot"

// Upsert writes or replaces the entry for m.ID with a fresh TTL.
func (s *Store) Upsert(ctx context.Context, m movies.Movie, ttl time.Duration) error {
	return upsert(ctx, s.db, m, time.Now().UTC(), ttl)
}

// UpsertAll bulk-upserts in one transaction. All rows share the same write
// timestamp, so the whole batch expires together.
func (s *Store) UpsertAll(ctx context.Context, list []movies.Movie, ttl time.Duration) error {
	if len(list) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	now := time.Now().UTC()
	for _, m := range list {
		if err := upsert(ctx, tx, m, now, ttl); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// execer abstracts *sql.DB and *sql.Tx for shared write logic.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, q execer, m movies.Movie, now time.Time, ttl time.Duration) error {
	genres, err := json.Marshal(m.Genre)
	if err != nil {
		return fmt.Errorf("marshal genres: %w", err)
	}
	actors, err := json.Marshal(m.Actors)
	if err != nil {
		return fmt.Errorf("marshal actors: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO movies (id, title, title_norm, year, genres, director, actors, rating, runtime, plot, search_text, cached_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			title_norm = excluded.title_norm,
			year = excluded.year,
			genres = excluded.genres,
			director = excluded.director,
			actors = excluded.actors,
			rating = excluded.rating,
			runtime = excluded.runtime,
			plot = excluded.plot,
			search_text = excluded.search_text,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at`,
		m.ID, m.Title, title.Normalize(m.Title), m.Year, string(genres), m.Director,
		string(actors), m.Rating, m.Runtime, m.Plot, searchText(m), now.UnixMilli(), now.Add(ttl).UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert movie %s: %w", m.ID, err)
	}
	return nil
}

// searchText builds the normalized free-text blob covering title, plot,
// director and cast.
func searchText(m movies.Movie) string {
	parts := []string{m.Title, m.Plot, m.Director}
	parts = append(parts, m.Actors...)
	return title.Normalize(strings.Join(parts, " "))
}

// GetByID returns the non-expired entry for id, or movies.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id string) (*movies.Movie, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE id = ? AND expires_at > ?",
		id, time.Now().UnixMilli(),
	)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, movies.ErrNotFound
		}
		return nil, fmt.Errorf("get movie %s: %w", id, err)
	}
	return m, nil
}

// Search runs a text search over non-expired entries with the query's
// filter, sort and pagination applied. The returned count is the size of the
// filtered set before pagination.
func (s *Store) Search(ctx context.Context, q movies.Query) ([]movies.Movie, int, error) {
	conditions := []string{"expires_at > ?"}
	args := []any{time.Now().UnixMilli()}

	if term := title.Normalize(q.Search); term != "" {
		conditions = append(conditions, "instr(search_text, ?) > 0")
		args = append(args, term)
	}
	if q.Filter.Kind == movies.FilterGenre {
		var genreConds []string
		for _, v := range q.Filter.Values {
			genreConds = append(genreConds, "instr(lower(genres), ?) > 0")
			args = append(args, strings.ToLower(v))
		}
		conditions = append(conditions, "("+strings.Join(genreConds, " OR ")+")")
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movies "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM movies %s ORDER BY %s LIMIT %d OFFSET %d",
		movieColumns, whereClause, orderBy(q.Sort), q.Limit, q.Offset)

	list, err := s.queryMovies(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func orderBy(key movies.SortKey) string {
	switch key {
	case movies.SortYear:
		return "year DESC, title_norm ASC"
	case movies.SortTitle:
		return "title_norm ASC"
	default:
		return "rating DESC, title_norm ASC"
	}
}

// List returns up to limit non-expired entries ordered by title ascending.
func (s *Store) List(ctx context.Context, limit int) ([]movies.Movie, error) {
	query := fmt.Sprintf("SELECT %s FROM movies WHERE expires_at > ? ORDER BY title_norm ASC LIMIT %d",
		movieColumns, limit)
	return s.queryMovies(ctx, query, time.Now().UnixMilli())
}

// All returns every non-expired entry.
func (s *Store) All(ctx context.Context) ([]movies.Movie, error) {
	return s.queryMovies(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE expires_at > ?", time.Now().UnixMilli())
}

// Prune physically removes expired rows. Returns the number removed.
// Readers never see expired rows, so this can run without coordination.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM movies WHERE expires_at <= ?", time.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune movies: %w", err)
	}
	return result.RowsAffected()
}

func (s *Store) queryMovies(ctx context.Context, query string, args ...any) ([]movies.Movie, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := []movies.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		list = append(list, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*movies.Movie, error) {
	var m movies.Movie
	var genres, actors string
	if err := row.Scan(&m.ID, &m.Title, &m.Year, &genres, &m.Director, &actors, &m.Rating, &m.Runtime, &m.Plot); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(genres), &m.Genre); err != nil {
		return nil, fmt.Errorf("unmarshal genres: %w", err)
	}
	if err := json.Unmarshal([]byte(actors), &m.Actors); err != nil {
		return nil, fmt.Errorf("unmarshal actors: %w", err)
	}
	return &m, nil
}
