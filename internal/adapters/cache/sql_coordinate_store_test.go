package cache

import (
	"context"
	"os"
	"shipment-savings-service/internal/domain"
	"shipment-savings-service/internal/platform/db"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// newPostgresStore connects to DATABASE_URL; the test is skipped without one.
// Keys written through the returned prefix are removed on cleanup.
func newPostgresStore(t *testing.T) (*SQLCoordinateStore, string) {
	t.Helper()

	url := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	conn, err := db.Open(url)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}

	store := NewSQLCoordinateStore(conn)
	if err := store.InitSchema(context.Background()); err != nil {
		conn.Close()
		t.Fatalf("init schema: %v", err)
	}

	prefix := "TEST " + uuid.NewString() + " "
	t.Cleanup(func() {
		conn.Exec(`DELETE FROM coordinate_cache WHERE cache_key LIKE $1`, prefix+"%")
		conn.Close()
	})
	return store, prefix
}

func TestSQLCoordinateStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, prefix := newPostgresStore(t)

	campinas := domain.ResolvedEntry(domain.Coordinates{Lat: -22.9056, Lon: -47.0608})
	if err := store.Save(ctx, prefix+"CAMPINAS, SP", campinas); err != nil {
		t.Fatalf("save resolved: %v", err)
	}
	if err := store.Save(ctx, prefix+"ATLANTIS, ", domain.UnresolvableEntry()); err != nil {
		t.Fatalf("save sentinel: %v", err)
	}

	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}

	if e := got[prefix+"CAMPINAS, SP"]; e != campinas {
		t.Fatalf("CAMPINAS entry = %+v, want %+v", e, campinas)
	}
	if e, ok := got[prefix+"ATLANTIS, "]; !ok || e.Resolved {
		t.Fatalf("ATLANTIS entry = %+v (present=%v), want sentinel", e, ok)
	}
}

func TestSQLCoordinateStoreReplacesEntry(t *testing.T) {
	ctx := context.Background()
	store, prefix := newPostgresStore(t)
	key := prefix + "JUNDIAI, SP"

	if err := store.Save(ctx, key, domain.UnresolvableEntry()); err != nil {
		t.Fatalf("save sentinel: %v", err)
	}

	want := domain.ResolvedEntry(domain.Coordinates{Lat: -23.1857, Lon: -46.8978})
	if err := store.Save(ctx, key, want); err != nil {
		t.Fatalf("save resolved: %v", err)
	}

	got, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if got[key] != want {
		t.Fatalf("entry = %+v, want %+v", got[key], want)
	}
}

func TestSQLCoordinateStoreRejectsEmptyKey(t *testing.T) {
	store := NewSQLCoordinateStore(nil)
	if err := store.Save(context.Background(), "k", domain.UnresolvableEntry()); err == nil {
		t.Fatal("expected error for nil db")
	}

	store, _ = newPostgresStore(t)
	if err := store.Save(context.Background(), "  ", domain.UnresolvableEntry()); err == nil {
		t.Fatal("expected error for empty key")
	}
}
