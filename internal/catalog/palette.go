package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/gountain/catalog/internal/domain"
)

// DefaultColor is used when none of the prioritized boots is present.
const DefaultColor = "#22c55e"

// Palette maps boot names to marker colours.
type Palette map[string]string

// BootPriority lists the known boots from most technical to most generic.
// MarkerColor picks the first of these found on a destination.
var BootPriority = []string{
	"Scarpa Ribelle Lite HD",
	"La Sportiva Aequilibrium ST GTX",
	"Scarpa Zodiac Tech LT GTX",
	"Bestard Teix Lady GTX",
	"La Sportiva Nepal Cube GTX",
	"Nepal (doble bota técnica de alta montaña)",
	"Botas triple capa (8000 m+)",
	"Cualquiera",
	"Depende",
	"Otras ligeras (para trekking no técnico)",
}

// DefaultPalette returns a fresh copy of the built-in boot colours.
func DefaultPalette() Palette {
	return Palette{
		"Cualquiera":                                 "#22c55e",
		"Depende":                                    "#f59e0b",
		"Bestard Teix Lady GTX":                      "#3498db",
		"Scarpa Ribelle Lite HD":                     "#e74c3c",
		"Scarpa Zodiac Tech LT GTX":                  "#7f8c8d",
		"La Sportiva Aequilibrium ST GTX":            "#9b59b6",
		"La Sportiva Nepal Cube GTX":                 "#ef4444",
		"Nepal (doble bota técnica de alta montaña)": "#dc2626",
		"Botas triple capa (8000 m+)":                "#d97706",
		"Otras ligeras (para trekking no técnico)":   "#14b8a6",
	}
}

// MarkerColor resolves the display colour of d. A nil palette means the
// default one.
func MarkerColor(d domain.Destination, p Palette) string {
	if p == nil {
		p = DefaultPalette()
	}
	for _, boot := range BootPriority {
		if !slices.Contains(d.Boots, boot) {
			continue
		}
		if c, ok := p[boot]; ok && c != "" {
			return c
		}
		return DefaultColor
	}
	return DefaultColor
}

// LoadPaletteFromFile overlays colours from a JSON object onto the default
// palette. The defaults are returned alongside any read or decode error.
func LoadPaletteFromFile(path string) (Palette, error) {
	p := DefaultPalette()
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read palette file: %w", err)
	}
	var overrides map[string]string
	if err := json.Unmarshal(b, &overrides); err != nil {
		return p, fmt.Errorf("unmarshal palette: %w", err)
	}
	for boot, color := range overrides {
		p[boot] = color
	}
	return p, nil
}
