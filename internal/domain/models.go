package domain

import "encoding/json"

type Destination struct {
	ID         string    `json:"id"`
	Name       string    `json:"nombre"`
	Country    string    `json:"pais,omitempty"`
	Continent  string    `json:"continente"`
	Type       string    `json:"tipo"`
	Coords     []float64 `json:"coords"`
	AltitudeM  *float64  `json:"altitud_m"`
	Difficulty string    `json:"dificultad"`
	Months     string    `json:"meses"`
	Seasons    []string  `json:"seasons,omitempty"`
	Boots      []string  `json:"botas"`
	Order      int       `json:"id_orden,omitempty"`

	GoogleSearch string `json:"google_search,omitempty"`
	Link         string `json:"link,omitempty"`
	AllTrails    string `json:"alltrails,omitempty"`
	Wikiloc      string `json:"wikiloc,omitempty"`
	Wikipedia    string `json:"wikipedia,omitempty"`

	// Descriptive fields the catalog does not interpret.
	ApproxTemp  json.RawMessage `json:"temp_aprox,omitempty"`
	Scramble    json.RawMessage `json:"scramble,omitempty"`
	Equipment   json.RawMessage `json:"equipo,omitempty"`
	Bivouac     json.RawMessage `json:"vivac,omitempty"`
	Gas         json.RawMessage `json:"gas,omitempty"`
	Permits     json.RawMessage `json:"permisos,omitempty"`
	Guide       json.RawMessage `json:"guia,omitempty"`
	StayCost    json.RawMessage `json:"coste_estancia,omitempty"`
	Review      json.RawMessage `json:"reseña,omitempty"`
}

// HasCoords reports whether the record carries a usable (lat, lng) pair.
func (d Destination) HasCoords() bool {
	return len(d.Coords) >= 2
}

// Lat and Lng assume HasCoords.
func (d Destination) Lat() float64 { return d.Coords[0] }
func (d Destination) Lng() float64 { return d.Coords[1] }

type Bounds struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string            `json:"type"`
	Geometry   Geometry          `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type FeatureProperties struct {
	ID         string   `json:"id"`
	Name       string   `json:"nombre"`
	Country    string   `json:"pais,omitempty"`
	Continent  string   `json:"continente"`
	Type       string   `json:"tipo"`
	AltitudeM  *float64 `json:"altitud_m,omitempty"`
	Difficulty string   `json:"dificultad"`
	Seasons    []string `json:"seasons,omitempty"`
	Boots      []string `json:"botas,omitempty"`
	Color      string   `json:"color"`
}

type Facets struct {
	Continents   []string `json:"continents"`
	Types        []string `json:"types"`
	Difficulties []string `json:"difficulties"`
	Boots        []string `json:"boots"`
	Seasons      []string `json:"seasons"`
}

type ListResult struct {
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Total  int           `json:"total"`
	Items  []Destination `json:"items"`
}
