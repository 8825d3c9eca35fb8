package tariff

import (
	"context"
	"os"
	"testing"
)

// TestPGStore_PublishFetch tests publishing and reading back a fare table.
// Requires TARIFFE_PG_DSN pointing at a disposable database.
func TestPGStore_PublishFetch(t *testing.T) {
	dsn := os.Getenv("TARIFFE_PG_DSN")
	if dsn == "" {
		t.Skip("TARIFFE_PG_DSN not set")
	}
	ctx := context.Background()
	pool, err := NewPGPool(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPGPool() error = %v", err)
	}
	defer pool.Close()

	store := NewPGStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := store.Publish(ctx, testDocument("9.9.9")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	doc, err := store.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if doc.Version != "9.9.9" || doc.Lines[0].Codes.Cell(0, 1) != "E1" {
		t.Errorf("fetched %+v", doc)
	}
	versions, err := store.Versions(ctx)
	if err != nil || len(versions) == 0 || versions[0] != "9.9.9" {
		t.Errorf("Versions() = %v, %v", versions, err)
	}
}
