package seed

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"mealcore/internal/docstore/memory"
	"mealcore/internal/repo"
)

func TestRunPopulatesDemoData(t *testing.T) {
	store := memory.NewStore()
	repos := repo.New(store)
	ctx := context.Background()
	if err := Run(ctx, store, repos, log.New(io.Discard)); err != nil {
		t.Fatalf("run: %v", err)
	}
	schools, err := repos.Schools.Find(ctx, "Indore")
	if err != nil {
		t.Fatalf("find schools: %v", err)
	}
	if len(schools) != 4 {
		t.Fatalf("expected 4 schools, got %d", len(schools))
	}
	admin, err := repos.Users.FindByUsername(ctx, "anita")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if admin.SchoolID == nil {
		t.Fatal("expected admin linked to a school")
	}
	linked, err := repos.Schools.FindByID(ctx, *admin.SchoolID)
	if err != nil {
		t.Fatalf("find linked school: %v", err)
	}
	if linked.PrincipalID == nil || *linked.PrincipalID != admin.ID {
		t.Fatal("expected principal back-link on the school")
	}
	items, err := repos.Inventory.Find(ctx, *admin.SchoolID)
	if err != nil {
		t.Fatalf("find inventory: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	records, err := repos.Attendance.Find(ctx, *admin.SchoolID, 0)
	if err != nil {
		t.Fatalf("find attendance: %v", err)
	}
	if len(records) < 8 || len(records) > 10 {
		t.Fatalf("expected roughly two school weeks of records, got %d", len(records))
	}
	entries, err := repos.Activity.Find(ctx, *admin.SchoolID, 0)
	if err != nil {
		t.Fatalf("find activity: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 activity entries, got %d", len(entries))
	}
}

func TestRunIsRepeatable(t *testing.T) {
	store := memory.NewStore()
	repos := repo.New(store)
	ctx := context.Background()
	logger := log.New(io.Discard)
	if err := Run(ctx, store, repos, logger); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(ctx, store, repos, logger); err != nil {
		t.Fatalf("second run: %v", err)
	}
	schools, err := repos.Schools.Find(ctx, "")
	if err != nil {
		t.Fatalf("find schools: %v", err)
	}
	if len(schools) != 4 {
		t.Fatalf("reset must not accumulate schools, got %d", len(schools))
	}
}
