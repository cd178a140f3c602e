package catalog

import (
	"sort"

	"github.com/gountain/catalog/internal/domain"
)

// Set is an immutable set of strings. The zero value is the empty set.
type Set struct {
	m map[string]struct{}
}

func NewSet(values ...string) Set {
	if len(values) == 0 {
		return Set{}
	}
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return Set{m: m}
}

func (s Set) Len() int { return len(s.m) }

func (s Set) Has(v string) bool {
	_, ok := s.m[v]
	return ok
}

// HasAny reports whether any of values is in s.
func (s Set) HasAny(values []string) bool {
	for _, v := range values {
		if s.Has(v) {
			return true
		}
	}
	return false
}

// With returns a copy of s that also contains v.
func (s Set) With(v string) Set {
	out := s.clone(1)
	out.m[v] = struct{}{}
	return out
}

// Without returns a copy of s with v removed.
func (s Set) Without(v string) Set {
	if !s.Has(v) {
		return s
	}
	out := s.clone(0)
	delete(out.m, v)
	if len(out.m) == 0 {
		return Set{}
	}
	return out
}

// Toggle adds v if missing and removes it otherwise.
func (s Set) Toggle(v string) Set {
	if s.Has(v) {
		return s.Without(v)
	}
	return s.With(v)
}

// Values returns the members in sorted order.
func (s Set) Values() []string {
	out := make([]string, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) clone(extra int) Set {
	m := make(map[string]struct{}, len(s.m)+extra)
	for v := range s.m {
		m[v] = struct{}{}
	}
	return Set{m: m}
}

// AltitudeRange bounds are inclusive; nil leaves that side open.
type AltitudeRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

func (a AltitudeRange) IsZero() bool { return a.Min == nil && a.Max == nil }

// FilterState holds the user's active filter chips. Every field left empty
// accepts all destinations.
type FilterState struct {
	Continent  Set
	Difficulty Set
	BootType   Set
	Type       Set
	Season     Set
	Altitude   AltitudeRange
}

// Filter fields accepted by FilterState.Toggle.
const (
	FieldContinent  = "continent"
	FieldDifficulty = "difficulty"
	FieldBoot       = "boot"
	FieldType       = "type"
	FieldSeason     = "season"
)

// Toggle returns a copy of f with value flipped in the named field. Unknown
// fields leave f unchanged.
func (f FilterState) Toggle(field, value string) FilterState {
	switch field {
	case FieldContinent:
		f.Continent = f.Continent.Toggle(value)
	case FieldDifficulty:
		f.Difficulty = f.Difficulty.Toggle(value)
	case FieldBoot:
		f.BootType = f.BootType.Toggle(value)
	case FieldType:
		f.Type = f.Type.Toggle(value)
	case FieldSeason:
		f.Season = f.Season.Toggle(value)
	}
	return f
}

// WithAltitude returns a copy of f with the altitude range replaced.
func (f FilterState) WithAltitude(lo, hi *float64) FilterState {
	f.Altitude = AltitudeRange{Min: lo, Max: hi}
	return f
}

// Reset returns the empty filter state.
func (f FilterState) Reset() FilterState { return FilterState{} }

// IsEmpty reports whether f constrains nothing.
func (f FilterState) IsEmpty() bool {
	return f.Continent.Len() == 0 && f.Difficulty.Len() == 0 && f.BootType.Len() == 0 &&
		f.Type.Len() == 0 && f.Season.Len() == 0 && f.Altitude.IsZero()
}

// WithinFilters reports whether d passes every active clause of f.
// Destinations without boots or seasons never match a non-empty boot or
// season filter, and a missing altitude fails any altitude bound.
func WithinFilters(d domain.Destination, f FilterState) bool {
	cont := f.Continent.Len() == 0 || f.Continent.Has(d.Continent)
	diff := f.Difficulty.Len() == 0 || f.Difficulty.Has(NormalizeDiff(d.Difficulty))
	typ := f.Type.Len() == 0 || f.Type.Has(d.Type)
	boots := f.BootType.Len() == 0 || f.BootType.HasAny(d.Boots)
	season := f.Season.Len() == 0 || f.Season.HasAny(d.Seasons)
	altMin := f.Altitude.Min == nil || (d.AltitudeM != nil && *d.AltitudeM >= *f.Altitude.Min)
	altMax := f.Altitude.Max == nil || (d.AltitudeM != nil && *d.AltitudeM <= *f.Altitude.Max)
	return cont && diff && typ && boots && season && altMin && altMax
}
