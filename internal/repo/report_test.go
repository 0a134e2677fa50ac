package repo

import (
	"context"
	"testing"

	"mealcore/pkg/domain"
)

func TestReportUpsertIsIdempotentPerPeriod(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	first, err := repos.Reports.Upsert(ctx, domain.Report{
		SchoolID: "s1", Month: 8, Year: 2026,
		FileName: "report_GPS_August_2026.pdf", FilePath: "reports/s1/report_GPS_August_2026.pdf",
		GeneratedBy: "u1", TotalMealsServed: 2000, AvgAttendance: 100,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repos.Reports.Upsert(ctx, domain.Report{
		SchoolID: "s1", Month: 8, Year: 2026,
		FileName: "report_GPS_August_2026.pdf", FilePath: "reports/s1/report_GPS_August_2026.pdf",
		GeneratedBy: "u2", TotalMealsServed: 2300, AvgAttendance: 110,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected overwrite in place, got ids %s and %s", first.ID, second.ID)
	}
	if second.TotalMealsServed != 2300 || second.AvgAttendance != 110 || second.GeneratedBy != "u2" {
		t.Fatalf("expected second call's statistics, got %+v", second)
	}
	all, err := repos.Reports.Find(ctx, "s1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(all))
	}
}

func TestReportUpsertDistinctPeriodsCoexist(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	periods := []struct{ month, year int }{{7, 2026}, {8, 2026}, {12, 2025}}
	for _, p := range periods {
		if _, err := repos.Reports.Upsert(ctx, domain.Report{
			SchoolID: "s1", Month: p.month, Year: p.year, GeneratedBy: "u1",
		}); err != nil {
			t.Fatalf("upsert %d/%d: %v", p.month, p.year, err)
		}
	}
	all, err := repos.Reports.Find(ctx, "s1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].Year != 2026 || all[0].Month != 8 {
		t.Fatalf("expected newest period first, got %d/%d", all[0].Month, all[0].Year)
	}
	if all[2].Year != 2025 || all[2].Month != 12 {
		t.Fatalf("expected oldest period last, got %d/%d", all[2].Month, all[2].Year)
	}
}

func TestReportUpsertValidatesPeriod(t *testing.T) {
	repos := newTestRepos()
	ctx := context.Background()
	if _, err := repos.Reports.Upsert(ctx, domain.Report{SchoolID: "s1", Month: 13, Year: 2026}); !domain.IsValidation(err) {
		t.Fatalf("expected Validation for month 13, got %v", err)
	}
	if _, err := repos.Reports.Upsert(ctx, domain.Report{SchoolID: "s1", Month: 8}); !domain.IsValidation(err) {
		t.Fatalf("expected Validation for missing year, got %v", err)
	}
	if _, err := repos.Reports.Upsert(ctx, domain.Report{Month: 8, Year: 2026}); !domain.IsValidation(err) {
		t.Fatalf("expected Validation for missing school, got %v", err)
	}
}
