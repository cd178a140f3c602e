package catalog

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gountain/catalog/internal/domain"
)

type Engine struct {
	palette Palette
}

func NewEngine(p Palette) *Engine {
	if p == nil {
		p = DefaultPalette()
	}
	return &Engine{palette: p}
}

func (e *Engine) Palette() Palette { return e.palette }

// Prepare returns copies of list with seasons derived from the month range,
// so filtering does not re-parse months on every pass. Records that already
// carry seasons keep them.
func (e *Engine) Prepare(list []domain.Destination) []domain.Destination {
	out := make([]domain.Destination, len(list))
	for i, d := range list {
		if len(d.Seasons) == 0 {
			d.Seasons = MonthsToSeasons(d.Months)
		}
		out[i] = d
	}
	return out
}

// Filter keeps the destinations accepted by f, preserving order.
func (e *Engine) Filter(list []domain.Destination, f FilterState) []domain.Destination {
	out := make([]domain.Destination, 0, len(list))
	for _, d := range list {
		if WithinFilters(d, f) {
			out = append(out, d)
		}
	}
	return out
}

// Color resolves the marker colour of d with the engine palette.
func (e *Engine) Color(d domain.Destination) string {
	return MarkerColor(d, e.palette)
}

// BuildGeo converts list into point features in [lng, lat] order. Records
// without coordinates are left out.
func (e *Engine) BuildGeo(list []domain.Destination) domain.FeatureCollection {
	fc := domain.FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]domain.Feature, 0, len(list)),
	}
	for _, d := range list {
		if !d.HasCoords() {
			continue
		}
		fc.Features = append(fc.Features, domain.Feature{
			Type: "Feature",
			Geometry: domain.Geometry{
				Type:        "Point",
				Coordinates: [2]float64{d.Lng(), d.Lat()},
			},
			Properties: domain.FeatureProperties{
				ID:         d.ID,
				Name:       d.Name,
				Country:    d.Country,
				Continent:  d.Continent,
				Type:       d.Type,
				AltitudeM:  d.AltitudeM,
				Difficulty: NormalizeDiff(d.Difficulty),
				Seasons:    d.Seasons,
				Boots:      d.Boots,
				Color:      e.Color(d),
			},
		})
	}
	return fc
}

// Facets collects the distinct values a UI offers as filter chips.
// Free-text values are sorted with Spanish collation, seasons by calendar.
func (e *Engine) Facets(list []domain.Destination) domain.Facets {
	var cont, types, diffs, boots, seasons []string
	for _, d := range list {
		if d.Continent != "" {
			cont = append(cont, d.Continent)
		}
		if d.Type != "" {
			types = append(types, d.Type)
		}
		diffs = append(diffs, NormalizeDiff(d.Difficulty))
		boots = append(boots, d.Boots...)
		seasons = append(seasons, d.Seasons...)
	}

	col := collate.New(language.Spanish, collate.IgnoreCase)
	sorted := func(values []string) []string {
		v := NewSet(values...).Values()
		col.SortStrings(v)
		return v
	}

	ss := NewSet(seasons...).Values()
	slices.SortFunc(ss, func(a, b string) int { return seasonRank(a) - seasonRank(b) })

	return domain.Facets{
		Continents:   sorted(cont),
		Types:        sorted(types),
		Difficulties: sorted(diffs),
		Boots:        sorted(boots),
		Seasons:      ss,
	}
}

func seasonRank(s string) int {
	if i := slices.Index(AllSeasons, s); i >= 0 {
		return i
	}
	return len(AllSeasons)
}
