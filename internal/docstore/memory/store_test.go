package memory

import (
	"context"
	"errors"
	"testing"

	"mealcore/internal/docstore/core"
)

func TestInsertGetRoundTrip(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	id, err := store.Insert(ctx, core.CollectionSchools, core.Document{"name": "GPS Indore", "district": "Indore"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}
	doc, err := store.Get(ctx, core.CollectionSchools, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["name"] != "GPS Indore" {
		t.Fatalf("expected name round trip, got %v", doc["name"])
	}
	if doc["_id"] != id {
		t.Fatalf("expected _id %s, got %v", id, doc["_id"])
	}
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	store := NewStore()
	if _, err := store.Get(context.Background(), core.CollectionUsers, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchByFieldEqualityOnly(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if _, err := store.Insert(ctx, core.CollectionAttendance, core.Document{"schoolId": "s1", "dateStr": "2026-08-01"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := store.Insert(ctx, core.CollectionAttendance, core.Document{"schoolId": "s2", "dateStr": "2026-08-01"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	docs, err := store.FetchByField(ctx, core.CollectionAttendance, "schoolId", "s1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0]["schoolId"] != "s1" {
		t.Fatalf("expected schoolId s1, got %v", docs[0]["schoolId"])
	}
}

func TestUpdateMergesPartial(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	id, err := store.Insert(ctx, core.CollectionInventory, core.Document{"name": "Rice", "quantity": 100.0})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Update(ctx, core.CollectionInventory, id, core.Document{"quantity": 150.0}); err != nil {
		t.Fatalf("update: %v", err)
	}
	doc, err := store.Get(ctx, core.CollectionInventory, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["quantity"] != 150.0 {
		t.Fatalf("expected merged quantity 150, got %v", doc["quantity"])
	}
	if doc["name"] != "Rice" {
		t.Fatalf("expected untouched name, got %v", doc["name"])
	}
}

func TestUpdateUnknownReturnsNotFound(t *testing.T) {
	store := NewStore()
	err := store.Update(context.Background(), core.CollectionReports, "missing", core.Document{"month": 8.0})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentsAreIsolatedFromCallerMutation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	src := core.Document{"name": "Dal"}
	id, err := store.Insert(ctx, core.CollectionInventory, src)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	src["name"] = "mutated"
	doc, err := store.Get(ctx, core.CollectionInventory, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc["name"] != "Dal" {
		t.Fatalf("expected stored copy to be isolated, got %v", doc["name"])
	}
	doc["name"] = "mutated again"
	again, err := store.Get(ctx, core.CollectionInventory, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again["name"] != "Dal" {
		t.Fatalf("expected returned copy to be isolated, got %v", again["name"])
	}
}

func TestDeleteAllClearsCollection(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	if _, err := store.Insert(ctx, core.CollectionActivityLogs, core.Document{"action": "meal_submitted"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.DeleteAll(ctx, core.CollectionActivityLogs); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	docs, err := store.FetchAll(ctx, core.CollectionActivityLogs)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty collection, got %d", len(docs))
	}
}
