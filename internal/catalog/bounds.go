package catalog

import (
	"math"

	"github.com/gountain/catalog/internal/domain"
)

// ComputeBounds returns the lat/lng rectangle covering list, or nil when
// there is nothing to cover. Longitudes are compared with plain min/max, so a
// set straddling the antimeridian yields a box spanning the whole globe.
func ComputeBounds(list []domain.Destination) *domain.Bounds {
	if len(list) == 0 {
		return nil
	}
	b := domain.Bounds{
		West:  math.Inf(1),
		South: math.Inf(1),
		East:  math.Inf(-1),
		North: math.Inf(-1),
	}
	seen := 0
	for _, d := range list {
		if !d.HasCoords() {
			continue
		}
		seen++
		lat, lng := d.Lat(), d.Lng()
		b.West = math.Min(b.West, lng)
		b.East = math.Max(b.East, lng)
		b.South = math.Min(b.South, lat)
		b.North = math.Max(b.North, lat)
	}
	if seen == 0 {
		return nil
	}
	return &b
}
