package repo

import (
	"context"
	"testing"

	"mealcore/pkg/domain"
)

func TestActivityLogAppliesIconDefaults(t *testing.T) {
	repos := newTestRepos()
	entry, err := repos.Activity.Log(context.Background(), domain.ActivityLog{
		Type: ActivityMealSubmitted, Title: "Daily Meal Data Submitted", UserID: "u1",
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if entry.Icon != "check" || entry.IconColor != "green" {
		t.Fatalf("expected icon defaults, got %s/%s", entry.Icon, entry.IconColor)
	}
	if entry.CreatedAt == "" {
		t.Fatal("expected createdAt to be set")
	}
}

func TestActivityFindNewestFirstBounded(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	schoolID := "s1"
	for i := 0; i < 15; i++ {
		if _, err := repos.Activity.Log(ctx, domain.ActivityLog{
			SchoolID: &schoolID, Type: ActivityStockAdded, Title: "Inventory Updated", UserID: "u1",
		}); err != nil {
			t.Fatalf("log %d: %v", i, err)
		}
	}
	entries, err := repos.Activity.Find(ctx, schoolID, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(entries) != DefaultActivityLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultActivityLimit, len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].CreatedAt < entries[i].CreatedAt {
			t.Fatalf("expected newest first at index %d", i)
		}
	}
}
