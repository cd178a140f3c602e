package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/gountain/catalog/internal/domain"
)

//go:embed destinations.schema.json
var destinationsSchema []byte

// ErrInvalidCatalog wraps schema violations found in a destinations file.
var ErrInvalidCatalog = errors.New("invalid catalog")

var schemaLoader = gojsonschema.NewBytesLoader(destinationsSchema)

// ValidateDestinations checks raw JSON against the destinations schema.
func ValidateDestinations(raw []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}
	return nil
}

// LoadDestinationsFromFile reads and validates a destinations JSON array.
func LoadDestinationsFromFile(path string) ([]domain.Destination, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read destinations file: %w", err)
	}
	return DecodeDestinations(b)
}

// DecodeDestinations validates and unmarshals a destinations JSON array.
func DecodeDestinations(b []byte) ([]domain.Destination, error) {
	if err := ValidateDestinations(b); err != nil {
		return nil, err
	}
	var list []domain.Destination
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("unmarshal destinations: %w", err)
	}
	return list, nil
}

// WriteDestinationsFile stores list as indented JSON.
func WriteDestinationsFile(path string, list []domain.Destination) error {
	b, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal destinations: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write destinations file: %w", err)
	}
	return nil
}
