package aggregate

import (
	"context"
	"testing"
	"time"

	"mealcore/internal/docstore/memory"
	"mealcore/internal/repo"
	"mealcore/pkg/domain"
)

func newTestEngine() (*Engine, *repo.Repos) {
	repos := repo.New(memory.NewStore())
	return NewEngine(repos), repos
}

func TestStalenessLabelBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{0, "0 mins ago"},
		{59 * time.Minute, "59 mins ago"},
		{59*time.Minute + 30*time.Second, "1 hours ago"},
		{60 * time.Minute, "1 hours ago"},
		{89 * time.Minute, "1 hours ago"},
		{90 * time.Minute, "2 hours ago"},
		{1439 * time.Minute, "24 hours ago"},
		{1440 * time.Minute, "1 days ago"},
		{36 * time.Hour, "2 days ago"},
		{3 * 24 * time.Hour, "3 days ago"},
	}
	for _, tc := range cases {
		if got := StalenessLabel(now.Add(-tc.age), now); got != tc.want {
			t.Fatalf("age %v: expected %q, got %q", tc.age, tc.want, got)
		}
	}
}

func TestBucketIndexWeekBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		daysAgo int
		want    int
	}{
		{0, 3}, {6, 3}, {7, 2}, {9, 2}, {13, 2}, {14, 1}, {20, 1}, {21, 0}, {27, 0},
	}
	for _, tc := range cases {
		when := now.AddDate(0, 0, -tc.daysAgo)
		if got := BucketIndex(when, now); got != tc.want {
			t.Fatalf("%d days ago: expected bucket %d, got %d", tc.daysAgo, tc.want, got)
		}
	}
}

func TestTrendAveragesPerBucket(t *testing.T) {
	engine, repos := newTestEngine()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	engine.WithClock(func() time.Time { return now })
	ctx := context.Background()
	seed := []struct {
		daysAgo int
		present int
	}{
		{1, 100}, {2, 110}, {9, 90}, {27, 50},
	}
	for _, s := range seed {
		_, err := repos.Attendance.Create(ctx, domain.Attendance{
			SchoolID:        "s1",
			Date:            domain.FormatTime(now.AddDate(0, 0, -s.daysAgo)),
			StudentsPresent: s.present,
			MenuServed:      "Khichdi",
		})
		if err != nil {
			t.Fatalf("seed %d days ago: %v", s.daysAgo, err)
		}
	}
	buckets, err := engine.Trend(ctx, Scope{SchoolID: "s1"})
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if len(buckets) != 4 {
		t.Fatalf("expected 4 buckets, got %d", len(buckets))
	}
	if buckets[3].AvgPresent != 105 {
		t.Fatalf("expected most recent bucket avg 105, got %d", buckets[3].AvgPresent)
	}
	if buckets[2].AvgPresent != 90 {
		t.Fatalf("expected bucket 2 avg 90, got %d", buckets[2].AvgPresent)
	}
	if buckets[1].AvgPresent != 0 {
		t.Fatalf("expected empty bucket to report 0, got %d", buckets[1].AvgPresent)
	}
	if buckets[0].AvgPresent != 50 {
		t.Fatalf("expected oldest bucket avg 50, got %d", buckets[0].AvgPresent)
	}
	if buckets[0].Label != "Week 1" || buckets[3].Label != "Week 4" {
		t.Fatalf("expected Week labels, got %q .. %q", buckets[0].Label, buckets[3].Label)
	}
}

func TestComparisonComputesComplianceAndZeroDays(t *testing.T) {
	engine, repos := newTestEngine()
	ctx := context.Background()
	active, err := repos.Schools.Create(ctx, domain.School{
		Name: "GPS Rau", District: "Indore", Block: "Rau", TotalEnrolled: 100,
	})
	if err != nil {
		t.Fatalf("create school: %v", err)
	}
	if _, err := repos.Schools.Create(ctx, domain.School{
		Name: "GPS Sanwer", District: "Indore", Block: "Sanwer", TotalEnrolled: 80,
	}); err != nil {
		t.Fatalf("create school: %v", err)
	}
	for day := 1; day <= 2; day++ {
		_, err := repos.Attendance.Create(ctx, domain.Attendance{
			SchoolID:        active.ID,
			Date:            domain.FormatTime(time.Date(2026, 7, day, 9, 0, 0, 0, time.UTC)),
			StudentsPresent: 90,
			MenuServed:      "Rice & Dal",
		})
		if err != nil {
			t.Fatalf("seed day %d: %v", day, err)
		}
	}
	rows, err := engine.Comparison(ctx, 7, 2026, "Indore")
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].SchoolName != "GPS Rau" || rows[0].DaysReported != 2 || rows[0].TotalServed != 180 {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[0].TotalPossible != 200 || rows[0].Compliance != 90 {
		t.Fatalf("expected 90%% compliance, got %+v", rows[0])
	}
	if rows[1].DaysReported != 0 || rows[1].Compliance != 0 {
		t.Fatalf("zero reported days must score 0, got %+v", rows[1])
	}
}

func TestComparisonRequiresPeriod(t *testing.T) {
	engine, _ := newTestEngine()
	if _, err := engine.Comparison(context.Background(), 0, 2026, ""); !domain.IsValidation(err) {
		t.Fatalf("expected Validation, got %v", err)
	}
}

func TestComputeMonthlyStats(t *testing.T) {
	records := []domain.Attendance{
		{StudentsPresent: 115}, {StudentsPresent: 110}, {StudentsPresent: 120},
	}
	stats := ComputeMonthlyStats(records, 120)
	if stats.TotalMealsServed != 345 {
		t.Fatalf("expected 345 meals, got %d", stats.TotalMealsServed)
	}
	if stats.AvgAttendance != 115 {
		t.Fatalf("expected avg 115, got %d", stats.AvgAttendance)
	}
	if stats.ParticipationRate != 96 {
		t.Fatalf("expected participation 96, got %d", stats.ParticipationRate)
	}
}

func TestComputeMonthlyStatsZeroDenominators(t *testing.T) {
	empty := ComputeMonthlyStats(nil, 120)
	if empty.TotalMealsServed != 0 || empty.AvgAttendance != 0 || empty.ParticipationRate != 0 {
		t.Fatalf("expected all zeros for no records, got %+v", empty)
	}
	noEnrolled := ComputeMonthlyStats([]domain.Attendance{{StudentsPresent: 50}}, 0)
	if noEnrolled.ParticipationRate != 0 {
		t.Fatalf("zero enrollment must yield 0 participation, got %d", noEnrolled.ParticipationRate)
	}
}

func TestMonthRangeBounds(t *testing.T) {
	start, end := MonthRange(2, 2026)
	if start != time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected start %v", start)
	}
	if end.Day() != 28 || end.Month() != time.February {
		t.Fatalf("expected end of February, got %v", end)
	}
}

func TestDashboardParticipationToday(t *testing.T) {
	engine, repos := newTestEngine()
	ctx := context.Background()
	school, err := repos.Schools.Create(ctx, domain.School{
		Name: "GPS Rau", District: "Indore", Block: "Rau", TotalEnrolled: 120,
	})
	if err != nil {
		t.Fatalf("create school: %v", err)
	}
	if _, err := repos.Attendance.Create(ctx, domain.Attendance{
		SchoolID:        school.ID,
		TotalEnrolled:   120,
		StudentsPresent: 115,
		MenuServed:      "Khichdi",
	}); err != nil {
		t.Fatalf("create attendance: %v", err)
	}
	if _, err := repos.Inventory.Create(ctx, domain.Inventory{
		SchoolID: school.ID, Name: "Rice", Quantity: 10, MaxCapacity: 100,
	}); err != nil {
		t.Fatalf("create inventory: %v", err)
	}
	summary, err := engine.Dashboard(ctx, Scope{SchoolID: school.ID})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.ParticipationRate != 96 {
		t.Fatalf("expected participation 96, got %d", summary.ParticipationRate)
	}
	if summary.StudentsPresent != 115 || summary.TotalEnrolled != 120 {
		t.Fatalf("unexpected counts %+v", summary)
	}
	if summary.LowStockCount != 1 || len(summary.LowStockItems) != 1 || summary.LowStockItems[0] != "Rice" {
		t.Fatalf("expected one low stock item, got %+v", summary)
	}
	if summary.LastUpdated == "" {
		t.Fatal("expected a staleness label")
	}
}

func TestDashboardStalenessTracksSubmissionTime(t *testing.T) {
	engine, repos := newTestEngine()
	ctx := context.Background()
	school, err := repos.Schools.Create(ctx, domain.School{
		Name: "GPS Rau", District: "Indore", Block: "Rau", TotalEnrolled: 120,
	})
	if err != nil {
		t.Fatalf("create school: %v", err)
	}
	// A record for three days ago, submitted just now, must read as fresh.
	if _, err := repos.Attendance.Create(ctx, domain.Attendance{
		SchoolID:        school.ID,
		Date:            domain.FormatTime(time.Now().AddDate(0, 0, -3)),
		StudentsPresent: 100,
		MenuServed:      "Khichdi",
	}); err != nil {
		t.Fatalf("create attendance: %v", err)
	}
	summary, err := engine.Dashboard(ctx, Scope{SchoolID: school.ID})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.LastUpdated != "0 mins ago" {
		t.Fatalf("expected backdated record to read as fresh, got %q", summary.LastUpdated)
	}
}

func TestDashboardDistrictSumsSchools(t *testing.T) {
	engine, repos := newTestEngine()
	ctx := context.Background()
	var ids []string
	for _, s := range []domain.School{
		{Name: "GPS Rau", District: "Indore", Block: "Rau", TotalEnrolled: 100},
		{Name: "GPS Sanwer", District: "Indore", Block: "Sanwer", TotalEnrolled: 60},
	} {
		created, err := repos.Schools.Create(ctx, s)
		if err != nil {
			t.Fatalf("create school: %v", err)
		}
		ids = append(ids, created.ID)
	}
	if _, err := repos.Attendance.Create(ctx, domain.Attendance{
		SchoolID: ids[0], StudentsPresent: 80, MenuServed: "Khichdi",
	}); err != nil {
		t.Fatalf("create attendance: %v", err)
	}
	summary, err := engine.Dashboard(ctx, Scope{District: "Indore"})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.TotalEnrolled != 160 || summary.StudentsPresent != 80 {
		t.Fatalf("unexpected district sums %+v", summary)
	}
	if summary.SchoolsReported != 1 {
		t.Fatalf("expected 1 school reported, got %d", summary.SchoolsReported)
	}
	if summary.ParticipationRate != 50 {
		t.Fatalf("expected participation 50, got %d", summary.ParticipationRate)
	}
}
