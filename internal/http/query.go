package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gountain/catalog/internal/catalog"
)

// ParseFilterState reads filter chips from query parameters. Set-valued
// parameters may repeat or hold comma-separated values.
func ParseFilterState(q url.Values) (catalog.FilterState, error) {
	f := catalog.FilterState{
		Continent:  parseSet(q["continent"]),
		Difficulty: parseSet(q["difficulty"]),
		BootType:   parseSet(q["boot"]),
		Type:       parseSet(q["type"]),
		Season:     parseSet(q["season"]),
	}

	lo, err := parseBound(q.Get("alt_min"))
	if err != nil {
		return f, fmt.Errorf("alt_min: %w", err)
	}
	hi, err := parseBound(q.Get("alt_max"))
	if err != nil {
		return f, fmt.Errorf("alt_max: %w", err)
	}
	return f.WithAltitude(lo, hi), nil
}

func parseSet(raw []string) catalog.Set {
	var values []string
	for _, item := range raw {
		for _, v := range strings.Split(item, ",") {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	}
	return catalog.NewSet(values...)
}

func parseBound(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", raw)
	}
	return &v, nil
}

// cacheKey renders f in a canonical form so equivalent queries share an entry.
func cacheKey(route string, f catalog.FilterState) string {
	q := url.Values{}
	add := func(name string, s catalog.Set) {
		if s.Len() > 0 {
			q.Set(name, strings.Join(s.Values(), ","))
		}
	}
	add("continent", f.Continent)
	add("difficulty", f.Difficulty)
	add("boot", f.BootType)
	add("type", f.Type)
	add("season", f.Season)
	if f.Altitude.Min != nil {
		q.Set("alt_min", strconv.FormatFloat(*f.Altitude.Min, 'f', -1, 64))
	}
	if f.Altitude.Max != nil {
		q.Set("alt_max", strconv.FormatFloat(*f.Altitude.Max, 'f', -1, 64))
	}
	return route + "?" + q.Encode()
}

func parseLimitOffset(r *http.Request, defLimit, defOffset int) (int, int) {
	q := r.URL.Query()

	limit := defLimit
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	// safety cap
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}

	return limit, offset
}
