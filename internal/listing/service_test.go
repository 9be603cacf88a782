package listing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nursan/golistings/internal/storage"
)

// memoryStore implements recordStore for tests.
type memoryStore struct {
	rows   map[string]storage.Record
	nextID int
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]storage.Record), nextID: 1}
}

func (m *memoryStore) Insert(ctx context.Context, table string, record storage.Record) ([]storage.Record, error) {
	if m.err != nil {
		return nil, m.err
	}

	id := fmt.Sprintf("%d", m.nextID)
	m.nextID++

	stored := storage.Record{"id": id}
	for key, value := range record {
		stored[key] = value
	}
	m.rows[id] = stored
	return []storage.Record{stored}, nil
}

func (m *memoryStore) Select(ctx context.Context, table string, query storage.Query) ([]storage.Record, error) {
	if m.err != nil {
		return nil, m.err
	}

	matched := m.match(query)
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

func (m *memoryStore) Update(ctx context.Context, table string, query storage.Query, updates storage.Record) ([]storage.Record, error) {
	if m.err != nil {
		return nil, m.err
	}

	matched := m.match(query)
	for _, row := range matched {
		for key, value := range updates {
			row[key] = value
		}
	}
	return matched, nil
}

func (m *memoryStore) Delete(ctx context.Context, table string, query storage.Query) ([]storage.Record, error) {
	if m.err != nil {
		return nil, m.err
	}

	matched := m.match(query)
	for _, row := range matched {
		delete(m.rows, row["id"].(string))
	}
	return matched, nil
}

func (m *memoryStore) match(query storage.Query) []storage.Record {
	matched := make([]storage.Record, 0, len(m.rows))
	for _, row := range m.rows {
		ok := true
		for column, value := range query.Eq {
			if fmt.Sprint(row[column]) != value {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, row)
		}
	}
	return matched
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestCreateAndGetListing(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	created, err := service.CreateListing(context.Background(), CreateInput{
		Title:       "City bike",
		Description: strPtr("barely used"),
		Price:       floatPtr(120),
	})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected created listing to carry an id")
	}

	fetched, err := service.GetListing(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if fetched.Title != "City bike" {
		t.Fatalf("expected title to round-trip, got %q", fetched.Title)
	}
	if fetched.Price == nil || *fetched.Price != 120 {
		t.Fatalf("expected price to round-trip, got %v", fetched.Price)
	}
}

func TestGetListingNotFound(t *testing.T) {
	service := NewService(newMemoryStore())

	_, err := service.GetListing(context.Background(), "missing")
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestListListings(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	for _, title := range []string{"one", "two", "three"} {
		if _, err := service.CreateListing(context.Background(), CreateInput{Title: title}); err != nil {
			t.Fatalf("create returned error: %v", err)
		}
	}

	listings, err := service.ListListings(context.Background())
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}
}

func TestUpdateListing(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	created, err := service.CreateListing(context.Background(), CreateInput{Title: "old title"})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	updated, err := service.UpdateListing(context.Background(), created.ID, UpdateInput{
		Title: strPtr("new title"),
		Price: floatPtr(42),
	})
	if err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	if updated.Title != "new title" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if updated.Price == nil || *updated.Price != 42 {
		t.Fatalf("expected updated price, got %v", updated.Price)
	}
}

func TestUpdateListingNotFound(t *testing.T) {
	service := NewService(newMemoryStore())

	_, err := service.UpdateListing(context.Background(), "missing", UpdateInput{Title: strPtr("x")})
	if !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestDeleteListingReturnsDeletedRow(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	created, err := service.CreateListing(context.Background(), CreateInput{Title: "doomed"})
	if err != nil {
		t.Fatalf("create returned error: %v", err)
	}

	deleted, err := service.DeleteListing(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if deleted.Title != "doomed" {
		t.Fatalf("expected deleted row back, got %q", deleted.Title)
	}

	if _, err := service.GetListing(context.Background(), created.ID); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected listing to be gone, got %v", err)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	store := newMemoryStore()
	store.err = fmt.Errorf("%w: status 503", storage.ErrUpstreamUnavailable)
	service := NewService(store)

	_, err := service.ListListings(context.Background())
	if !errors.Is(err, storage.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable to propagate, got %v", err)
	}
}

func TestDecodeListingStringifiesNumericIDs(t *testing.T) {
	listing, err := decodeListing(storage.Record{"id": float64(7), "title": "numeric id"})
	if err != nil {
		t.Fatalf("decode returned error: %v", err)
	}
	if listing.ID != "7" {
		t.Fatalf("expected id \"7\", got %q", listing.ID)
	}
}
