package docstore

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenMemoryDriver(t *testing.T) {
	t.Setenv(EnvDriver, string(DriverMemory))
	store, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	if _, err := store.FetchAll(context.Background(), CollectionSchools); err != nil {
		t.Fatalf("fetch all: %v", err)
	}
}

func TestOpenDefaultsToSQLite(t *testing.T) {
	t.Setenv(EnvDriver, "")
	t.Setenv(EnvSQLitePath, filepath.Join(t.TempDir(), "mealcore.db"))
	store, err := Open(context.Background())
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Setenv(EnvDriver, "oracle")
	if _, err := Open(context.Background()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
