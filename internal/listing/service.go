package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/nursan/golistings/internal/storage"
)

const tableName = "listings"

// recordStore abstracts the hosted-store CRUD surface.
type recordStore interface {
	Insert(ctx context.Context, table string, record storage.Record) ([]storage.Record, error)
	Select(ctx context.Context, table string, query storage.Query) ([]storage.Record, error)
	Update(ctx context.Context, table string, query storage.Query, updates storage.Record) ([]storage.Record, error)
	Delete(ctx context.Context, table string, query storage.Query) ([]storage.Record, error)
}

// Service encapsulates listing use cases over the hosted store.
type Service struct {
	store recordStore
}

// NewService creates a Service with dependencies.
func NewService(store recordStore) *Service {
	return &Service{store: store}
}

// ListListings retrieves every listing.
func (s *Service) ListListings(ctx context.Context) ([]Listing, error) {
	records, err := s.store.Select(ctx, tableName, storage.Query{})
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return decodeListings(records)
}

// GetListing retrieves a single listing by identifier.
func (s *Service) GetListing(ctx context.Context, id string) (Listing, error) {
	records, err := s.store.Select(ctx, tableName, storage.Query{
		Eq:    map[string]string{"id": id},
		Limit: 1,
	})
	if err != nil {
		return Listing{}, fmt.Errorf("get listing: %w", err)
	}
	if len(records) == 0 {
		return Listing{}, ErrListingNotFound
	}
	return decodeListing(records[0])
}

// CreateListing persists a new listing and returns the stored row.
func (s *Service) CreateListing(ctx context.Context, input CreateInput) (Listing, error) {
	record := storage.Record{"title": input.Title}
	if input.Description != nil {
		record["description"] = *input.Description
	}
	if input.Price != nil {
		record["price"] = *input.Price
	}

	records, err := s.store.Insert(ctx, tableName, record)
	if err != nil {
		return Listing{}, fmt.Errorf("create listing: %w", err)
	}
	if len(records) == 0 {
		return Listing{}, fmt.Errorf("create listing: store returned no row")
	}
	return decodeListing(records[0])
}

// UpdateListing applies a partial update and returns the stored row.
func (s *Service) UpdateListing(ctx context.Context, id string, input UpdateInput) (Listing, error) {
	updates := storage.Record{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}

	records, err := s.store.Update(ctx, tableName, storage.Query{
		Eq: map[string]string{"id": id},
	}, updates)
	if err != nil {
		return Listing{}, fmt.Errorf("update listing: %w", err)
	}
	if len(records) == 0 {
		return Listing{}, ErrListingNotFound
	}
	return decodeListing(records[0])
}

// DeleteListing removes a listing and returns the deleted row.
func (s *Service) DeleteListing(ctx context.Context, id string) (Listing, error) {
	records, err := s.store.Delete(ctx, tableName, storage.Query{
		Eq: map[string]string{"id": id},
	})
	if err != nil {
		return Listing{}, fmt.Errorf("delete listing: %w", err)
	}
	if len(records) == 0 {
		return Listing{}, ErrListingNotFound
	}
	return decodeListing(records[0])
}

func decodeListings(records []storage.Record) ([]Listing, error) {
	listings := make([]Listing, 0, len(records))
	for _, record := range records {
		listing, err := decodeListing(record)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

func decodeListing(record storage.Record) (Listing, error) {
	normalized := make(storage.Record, len(record))
	for key, value := range record {
		normalized[key] = value
	}
	if id, ok := normalized["id"]; ok {
		normalized["id"] = stringifyID(id)
	}

	raw, err := json.Marshal(normalized)
	if err != nil {
		return Listing{}, fmt.Errorf("decode listing: %w", err)
	}

	var listing Listing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return Listing{}, fmt.Errorf("decode listing: %w", err)
	}
	return listing, nil
}

// The store may expose identifiers as numbers or strings depending on the
// column type.
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
