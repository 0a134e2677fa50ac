// Package aggregate computes the read-only cross-entity views: dashboard
// summary, attendance trend buckets, school compliance comparison, and
// monthly report statistics. It consumes repository outputs only and never
// writes.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mealcore/internal/repo"
	"mealcore/pkg/domain"
)

// Engine evaluates aggregations against the repositories. The clock is
// injectable so staleness and trend windows are testable.
type Engine struct {
	repos *repo.Repos
	now   func() time.Time
}

// NewEngine returns an engine on the real clock.
func NewEngine(repos *repo.Repos) *Engine {
	return &Engine{repos: repos, now: time.Now}
}

// WithClock replaces the engine's clock. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Scope narrows an aggregation to one school or one district. A school
// admin always carries their own SchoolID; an oversight caller may pass
// either field or neither.
type Scope struct {
	SchoolID string
	District string
}

// DashboardSummary is today's state of one school or a whole district.
type DashboardSummary struct {
	TotalEnrolled     int      `json:"totalEnrolled"`
	StudentsPresent   int      `json:"studentsPresent"`
	ParticipationRate int      `json:"participationRate"`
	SchoolsReported   int      `json:"schoolsReported"`
	LowStockCount     int      `json:"lowStockCount"`
	LowStockItems     []string `json:"lowStockItems"`
	LastUpdated       string   `json:"lastUpdated"`
}

// Dashboard computes today's summary for the given scope.
func (e *Engine) Dashboard(ctx context.Context, scope Scope) (DashboardSummary, error) {
	var summary DashboardSummary
	summary.LowStockItems = []string{}

	schools, err := e.scopedSchools(ctx, scope)
	if err != nil {
		return DashboardSummary{}, err
	}
	for _, school := range schools {
		summary.TotalEnrolled += school.TotalEnrolled
		today, err := e.repos.Attendance.FindToday(ctx, school.ID)
		if err != nil {
			return DashboardSummary{}, err
		}
		if today != nil {
			summary.StudentsPresent += today.StudentsPresent
			summary.SchoolsReported++
		}
	}
	summary.ParticipationRate = percent(summary.StudentsPresent, summary.TotalEnrolled)

	items, err := e.repos.Inventory.Find(ctx, scope.SchoolID)
	if err != nil {
		return DashboardSummary{}, err
	}
	for _, item := range items {
		if scope.SchoolID == "" && !inSchools(schools, item.SchoolID) {
			continue
		}
		if item.IsLowStock() {
			summary.LowStockCount++
			summary.LowStockItems = append(summary.LowStockItems, item.Name)
		}
	}

	latest, err := e.repos.Attendance.Find(ctx, scope.SchoolID, 1)
	if err != nil {
		return DashboardSummary{}, err
	}
	if len(latest) > 0 {
		// Staleness reflects when the record was submitted, not the meal
		// day it covers, so a backdated submission still reads as fresh.
		when, err := domain.ParseTime(latest[0].CreatedAt)
		if err == nil {
			summary.LastUpdated = StalenessLabel(when, e.now())
		}
	}
	return summary, nil
}

// TrendBucket is one trailing 7-day window of the 28-day attendance trend.
type TrendBucket struct {
	Label      string `json:"label"`
	AvgPresent int    `json:"avgPresent"`
}

// Trend partitions the last 28 days into four trailing 7-day buckets and
// averages studentsPresent per bucket. Empty buckets report 0.
func (e *Engine) Trend(ctx context.Context, scope Scope) ([]TrendBucket, error) {
	now := e.now()
	start := now.AddDate(0, 0, -28)
	records, err := e.repos.Attendance.FindInRange(ctx, scope.SchoolID, start, now)
	if err != nil {
		return nil, err
	}
	var sums, counts [4]int
	for _, rec := range records {
		when, err := domain.ParseTime(rec.Date)
		if err != nil {
			continue
		}
		bucket := BucketIndex(when, now)
		sums[bucket] += rec.StudentsPresent
		counts[bucket]++
	}
	buckets := make([]TrendBucket, 4)
	for i := range buckets {
		buckets[i].Label = fmt.Sprintf("Week %d", i+1)
		if counts[i] > 0 {
			buckets[i].AvgPresent = domain.RoundHalfUp(float64(sums[i]) / float64(counts[i]))
		}
	}
	return buckets, nil
}

// BucketIndex places a record instant into one of the four trend buckets.
// Bucket 3 is the most recent week (0 to 6 days ago), bucket 0 the oldest.
func BucketIndex(when, now time.Time) int {
	daysAgo := int(now.Sub(when).Hours() / 24)
	if daysAgo < 0 {
		daysAgo = 0
	}
	weeksAgo := daysAgo / 7
	if weeksAgo > 3 {
		weeksAgo = 3
	}
	return 3 - weeksAgo
}

// ComparisonRow is one school's reporting compliance for a month.
type ComparisonRow struct {
	SchoolID      string `json:"schoolId"`
	SchoolName    string `json:"schoolName"`
	DaysReported  int    `json:"daysReported"`
	TotalServed   int    `json:"totalServed"`
	TotalPossible int    `json:"totalPossible"`
	Compliance    int    `json:"compliance"`
}

// Comparison computes per-school compliance for a calendar month, highest
// compliance first. A school with no reported days scores 0.
func (e *Engine) Comparison(ctx context.Context, month, year int, district string) ([]ComparisonRow, error) {
	if month < 1 || month > 12 || year == 0 {
		return nil, domain.ValidationError{Message: "month and year are required"}
	}
	schools, err := e.repos.Schools.Find(ctx, district)
	if err != nil {
		return nil, err
	}
	start, end := MonthRange(month, year)
	rows := make([]ComparisonRow, 0, len(schools))
	for _, school := range schools {
		records, err := e.repos.Attendance.FindInRange(ctx, school.ID, start, end)
		if err != nil {
			return nil, err
		}
		row := ComparisonRow{SchoolID: school.ID, SchoolName: school.Name, DaysReported: len(records)}
		for _, rec := range records {
			row.TotalServed += rec.StudentsPresent
		}
		row.TotalPossible = row.DaysReported * school.TotalEnrolled
		row.Compliance = percent(row.TotalServed, row.TotalPossible)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Compliance != rows[j].Compliance {
			return rows[i].Compliance > rows[j].Compliance
		}
		return rows[i].SchoolName < rows[j].SchoolName
	})
	return rows, nil
}

// MonthlyStats are the figures persisted with a generated monthly report.
type MonthlyStats struct {
	TotalMealsServed  int `json:"totalMealsServed"`
	AvgAttendance     int `json:"avgAttendance"`
	ParticipationRate int `json:"participationRate"`
}

// ComputeMonthlyStats reduces a month's records against the school's
// enrollment. Zero records or zero enrollment yield defined zeros.
func ComputeMonthlyStats(records []domain.Attendance, totalEnrolled int) MonthlyStats {
	var stats MonthlyStats
	for _, rec := range records {
		stats.TotalMealsServed += rec.StudentsPresent
	}
	if len(records) > 0 {
		stats.AvgAttendance = domain.RoundHalfUp(float64(stats.TotalMealsServed) / float64(len(records)))
	}
	stats.ParticipationRate = percent(stats.AvgAttendance, totalEnrolled)
	return stats
}

// MonthRange returns the inclusive UTC bounds of a calendar month.
func MonthRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// StalenessLabel renders how long ago an instant was, bucketed to minutes,
// hours, or days. Every division rounds half up, so 90 minutes reads as
// "2 hours ago".
func StalenessLabel(when, now time.Time) string {
	elapsed := now.Sub(when)
	if elapsed < 0 {
		elapsed = 0
	}
	minutes := domain.RoundHalfUp(elapsed.Minutes())
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d mins ago", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%d hours ago", domain.RoundHalfUp(float64(minutes)/60))
	default:
		return fmt.Sprintf("%d days ago", domain.RoundHalfUp(float64(minutes)/1440))
	}
}

// percent returns round(part/whole*100) with a zero denominator defined as 0.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return domain.RoundHalfUp(float64(part) / float64(whole) * 100)
}

func (e *Engine) scopedSchools(ctx context.Context, scope Scope) ([]domain.School, error) {
	if scope.SchoolID != "" {
		school, err := e.repos.Schools.FindByID(ctx, scope.SchoolID)
		if err != nil {
			return nil, err
		}
		return []domain.School{school}, nil
	}
	return e.repos.Schools.Find(ctx, scope.District)
}

func inSchools(schools []domain.School, id string) bool {
	for _, s := range schools {
		if s.ID == id {
			return true
		}
	}
	return false
}
