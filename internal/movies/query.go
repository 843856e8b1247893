package movies

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterKind discriminates the parsed filter variant.
type FilterKind string

const (
	// FilterNone means no structured filter applies.
	FilterNone FilterKind = "none"
	// FilterGenre matches movies whose genre list contains any of the
	// filter values (case-insensitive substring, OR semantics).
	FilterGenre FilterKind = "genre"
)

// Filter is the parsed form of the `key:value[,value...]` filter parameter.
type Filter struct {
	Kind   FilterKind
	Values []string
}

// Matches reports whether the movie passes the filter. A FilterNone filter
// matches everything.
func (f Filter) Matches(m Movie) bool {
	if f.Kind != FilterGenre || len(f.Values) == 0 {
		return true
	}
	for _, want := range f.Values {
		want = strings.ToLower(want)
		for _, g := range m.Genre {
			if strings.Contains(strings.ToLower(g), want) {
				return true
			}
		}
	}
	return false
}

// Query is a validated, normalized search request. Offset and Limit are
// always resolved; Page addressing from the wire is already folded in.
type Query struct {
	Search string
	Sort   SortKey
	Filter Filter
	Limit  int
	Offset int
}

// RawQuery carries unvalidated query parameters from the HTTP layer.
type RawQuery struct {
	Search string
	Sort   string
	Filter string
	Limit  string
	Page   string
	Offset string
}

// Limits bounds pagination during query normalization.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// ParseQuery validates and defaults a raw query. Numeric fields that do not
// parse as non-negative integers fail with ErrInvalidQuery; everything else
// is defaulted or silently ignored. An explicit offset wins over page.
func ParseQuery(raw RawQuery, limits Limits) (Query, error) {
	q := Query{
		Search: strings.TrimSpace(raw.Search),
		Sort:   parseSort(raw.Sort),
		Filter: ParseFilter(raw.Filter),
	}

	limit, err := parseNonNegative("limit", raw.Limit, limits.DefaultLimit)
	if err != nil {
		return Query{}, err
	}
	maxLimit := limits.MaxLimit
	if maxLimit <= 0 || maxLimit > 100 {
		maxLimit = 100
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	q.Limit = limit

	page, err := parseNonNegative("page", raw.Page, 1)
	if err != nil {
		return Query{}, err
	}
	if page < 1 {
		page = 1
	}

	if raw.Offset != "" {
		offset, err := parseNonNegative("offset", raw.Offset, 0)
		if err != nil {
			return Query{}, err
		}
		q.Offset = offset
	} else {
		q.Offset = (page - 1) * q.Limit
	}

	return q, nil
}

func parseSort(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortYear:
		return SortYear
	case SortTitle:
		return SortTitle
	default:
		return SortRating
	}
}

// ParseFilter parses `key:value[,value...]`. Unknown keys and malformed
// strings yield FilterNone rather than an error.
func ParseFilter(s string) Filter {
	s = strings.TrimSpace(s)
	if s == "" {
		return Filter{Kind: FilterNone}
	}

	key, rest, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(rest) == "" {
		return Filter{Kind: FilterNone}
	}
	if strings.ToLower(strings.TrimSpace(key)) != "genre" {
		return Filter{Kind: FilterNone}
	}

	var values []string
	for _, v := range strings.Split(rest, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return Filter{Kind: FilterNone}
	}
	return Filter{Kind: FilterGenre, Values: values}
}

func parseNonNegative(name, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidQuery, name)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must be non-negative", ErrInvalidQuery, name)
	}
	return n, nil
}
