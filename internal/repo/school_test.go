package repo

import (
	"context"
	"testing"

	"mealcore/pkg/domain"
)

func TestSchoolCreateAppliesDefaultMenu(t *testing.T) {
	repos := newTestRepos()
	s, err := repos.Schools.Create(context.Background(), domain.School{
		Name: "GPS Rau", District: "Indore", Block: "Rau", TotalEnrolled: 120,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(s.MenuOptions) != len(domain.DefaultMenuOptions) {
		t.Fatalf("expected default menu, got %v", s.MenuOptions)
	}
	if s.CreatedAt == "" || s.UpdatedAt == "" {
		t.Fatal("expected timestamps to be set")
	}
}

func TestSchoolCreateRejectsNegativeEnrollment(t *testing.T) {
	repos := newTestRepos()
	_, err := repos.Schools.Create(context.Background(), domain.School{
		Name: "GPS Rau", District: "Indore", Block: "Rau", TotalEnrolled: -1,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestSchoolFindScopesByDistrictAndSortsByName(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	seed := []domain.School{
		{Name: "GPS Sanwer", District: "Indore", Block: "Sanwer"},
		{Name: "GPS Depalpur", District: "Indore", Block: "Depalpur"},
		{Name: "GPS Berasia", District: "Bhopal", Block: "Berasia"},
	}
	for _, s := range seed {
		if _, err := repos.Schools.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.Name, err)
		}
	}
	indore, err := repos.Schools.Find(ctx, "Indore")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(indore) != 2 || indore[0].Name != "GPS Depalpur" {
		t.Fatalf("expected 2 Indore schools name-sorted, got %+v", indore)
	}
	all, err := repos.Schools.Find(ctx, "")
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 schools, got %d", len(all))
	}
}

func TestSchoolFindByIDNotFound(t *testing.T) {
	repos := newTestRepos()
	if _, err := repos.Schools.FindByID(context.Background(), "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSchoolUpdateMergesFields(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	s, err := repos.Schools.Create(ctx, domain.School{
		Name: "GPS Rau", District: "Indore", Block: "Rau", TotalEnrolled: 120,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := repos.Schools.Update(ctx, s.ID, map[string]any{"totalEnrolled": 150})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.TotalEnrolled != 150 {
		t.Fatalf("expected merged enrollment, got %d", updated.TotalEnrolled)
	}
	if updated.Name != "GPS Rau" {
		t.Fatalf("expected untouched name, got %s", updated.Name)
	}
}
