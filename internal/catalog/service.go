package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nursan/golistings/internal/storage"
)

const (
	citiesTable     = "cities"
	categoriesTable = "categories"
)

// recordStore abstracts the hosted-store read surface.
type recordStore interface {
	Select(ctx context.Context, table string, query storage.Query) ([]storage.Record, error)
}

// Service serves the read-only reference catalog.
type Service struct {
	store recordStore
}

// NewService creates a Service with dependencies.
func NewService(store recordStore) *Service {
	return &Service{store: store}
}

// ListCities retrieves all cities ordered by name.
func (s *Service) ListCities(ctx context.Context) ([]City, error) {
	records, err := s.store.Select(ctx, citiesTable, storage.Query{OrderBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	cities := make([]City, 0, len(records))
	for _, record := range records {
		var city City
		if err := decodeRecord(record, &city); err != nil {
			return nil, fmt.Errorf("decode city: %w", err)
		}
		cities = append(cities, city)
	}
	return cities, nil
}

// ListCategories retrieves all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	records, err := s.store.Select(ctx, categoriesTable, storage.Query{OrderBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	categories := make([]Category, 0, len(records))
	for _, record := range records {
		var category Category
		if err := decodeRecord(record, &category); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func decodeRecord(record storage.Record, out any) error {
	normalized := make(storage.Record, len(record))
	for key, value := range record {
		normalized[key] = value
	}
	if id, ok := normalized["id"]; ok {
		normalized["id"] = stringifyID(id)
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func stringifyID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
