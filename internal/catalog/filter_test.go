package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gountain/catalog/internal/domain"
)

func alt(v float64) *float64 { return &v }

func TestWithinFilters_EmptyStateAcceptsAll(t *testing.T) {
	list := []domain.Destination{
		{Continent: "Asia", Difficulty: "AD1", Type: "Volcan", Boots: []string{"Scarpa"}},
		{},
		{Continent: "Europa", AltitudeM: alt(4808), Seasons: []string{Summer}},
	}
	for _, d := range list {
		assert.True(t, WithinFilters(d, FilterState{}))
	}
}

func TestWithinFilters_SingleField(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterState
		pass   domain.Destination
		fail   domain.Destination
	}{
		{
			name:   "continent",
			filter: FilterState{Continent: NewSet("Asia")},
			pass:   domain.Destination{Continent: "Asia"},
			fail:   domain.Destination{Continent: "Europa"},
		},
		{
			name:   "difficulty bucket",
			filter: FilterState{Difficulty: NewSet(DiffAD)},
			pass:   domain.Destination{Difficulty: "AD2"},
			fail:   domain.Destination{Difficulty: "F"},
		},
		{
			name:   "missing difficulty counts as trek",
			filter: FilterState{Difficulty: NewSet(DiffTrek)},
			pass:   domain.Destination{},
			fail:   domain.Destination{Difficulty: "PD"},
		},
		{
			name:   "type",
			filter: FilterState{Type: NewSet("Pico")},
			pass:   domain.Destination{Type: "Pico"},
			fail:   domain.Destination{Type: "Travesía"},
		},
		{
			name:   "boots",
			filter: FilterState{BootType: NewSet("Scarpa Ribelle Lite HD")},
			pass:   domain.Destination{Boots: []string{"Cualquiera", "Scarpa Ribelle Lite HD"}},
			fail:   domain.Destination{Boots: []string{"La Sportiva Nepal Cube GTX"}},
		},
		{
			name:   "boots missing",
			filter: FilterState{BootType: NewSet("Cualquiera")},
			pass:   domain.Destination{Boots: []string{"Cualquiera"}},
			fail:   domain.Destination{Boots: nil},
		},
		{
			name:   "season",
			filter: FilterState{Season: NewSet(Winter)},
			pass:   domain.Destination{Seasons: []string{Autumn, Winter}},
			fail:   domain.Destination{Seasons: []string{Summer}},
		},
		{
			name:   "season missing",
			filter: FilterState{Season: NewSet(Summer)},
			pass:   domain.Destination{Seasons: []string{Summer}},
			fail:   domain.Destination{},
		},
		{
			name:   "altitude min",
			filter: FilterState{Altitude: AltitudeRange{Min: alt(3000)}},
			pass:   domain.Destination{AltitudeM: alt(3000)},
			fail:   domain.Destination{AltitudeM: alt(2999)},
		},
		{
			name:   "altitude max",
			filter: FilterState{Altitude: AltitudeRange{Max: alt(5000)}},
			pass:   domain.Destination{AltitudeM: alt(5000)},
			fail:   domain.Destination{AltitudeM: alt(5001)},
		},
		{
			name:   "altitude range with missing altitude",
			filter: FilterState{Altitude: AltitudeRange{Min: alt(0), Max: alt(9000)}},
			pass:   domain.Destination{AltitudeM: alt(0)},
			fail:   domain.Destination{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, WithinFilters(tt.pass, tt.filter))
			assert.False(t, WithinFilters(tt.fail, tt.filter))
		})
	}
}

func TestWithinFilters_CombinedRequiresAll(t *testing.T) {
	f := FilterState{
		Continent:  NewSet("Asia"),
		Difficulty: NewSet(DiffAD),
		BootType:   NewSet("Scarpa Ribelle Lite HD"),
		Type:       NewSet("Volcan"),
	}
	good := domain.Destination{Continent: "Asia", Difficulty: "AD1", Type: "Volcan", Boots: []string{"Scarpa Ribelle Lite HD"}}
	bad := domain.Destination{Continent: "Asia", Difficulty: "AD1", Type: "Trek", Boots: []string{"Scarpa Ribelle Lite HD"}}

	assert.True(t, WithinFilters(good, f))
	assert.False(t, WithinFilters(bad, f))
}

func TestSet_Immutable(t *testing.T) {
	a := NewSet("Asia")
	b := a.With("Europa")
	c := b.Without("Asia")

	assert.Equal(t, []string{"Asia"}, a.Values())
	assert.Equal(t, []string{"Asia", "Europa"}, b.Values())
	assert.Equal(t, []string{"Europa"}, c.Values())
	assert.Equal(t, 0, c.Without("Europa").Len())
	assert.Equal(t, 0, Set{}.Len())
	assert.False(t, Set{}.Has("x"))
}

func TestFilterState_ToggleAndReset(t *testing.T) {
	var f FilterState
	f1 := f.Toggle(FieldContinent, "Asia").Toggle(FieldBoot, "Depende").Toggle(FieldSeason, Summer)
	assert.True(t, f.IsEmpty())
	assert.False(t, f1.IsEmpty())
	assert.True(t, f1.Continent.Has("Asia"))
	assert.True(t, f1.BootType.Has("Depende"))
	assert.True(t, f1.Season.Has(Summer))

	f2 := f1.Toggle(FieldContinent, "Asia")
	assert.False(t, f2.Continent.Has("Asia"))
	assert.True(t, f1.Continent.Has("Asia"))

	assert.Equal(t, f1, f1.Toggle("unknown", "x"))

	f3 := f1.WithAltitude(alt(1000), nil)
	assert.Nil(t, f1.Altitude.Min)
	assert.Equal(t, 1000.0, *f3.Altitude.Min)
	assert.True(t, f3.Reset().IsEmpty())
}
