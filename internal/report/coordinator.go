package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"mealcore/internal/aggregate"
	"mealcore/internal/blob"
	"mealcore/internal/repo"
	"mealcore/pkg/domain"
)

// Coordinator drives report generation: compute statistics, write the
// artifact to durable storage, and only then upsert the report record that
// references it. A stored record never points at an artifact that does not
// exist yet.
type Coordinator struct {
	repos    *repo.Repos
	blobs    blob.Store
	renderer Renderer
}

// NewCoordinator wires a coordinator. A nil renderer falls back to the text
// renderer.
func NewCoordinator(repos *repo.Repos, blobs blob.Store, renderer Renderer) *Coordinator {
	if renderer == nil {
		renderer = TextRenderer{}
	}
	return &Coordinator{repos: repos, blobs: blobs, renderer: renderer}
}

// Generate produces the report for one school and period. Regeneration
// replaces the artifact and overwrites the period's record in place.
func (c *Coordinator) Generate(ctx context.Context, schoolID string, month, year int, generatedBy string) (domain.Report, error) {
	if schoolID == "" {
		return domain.Report{}, domain.ValidationError{Message: "schoolId is required"}
	}
	if month < 1 || month > 12 || year == 0 {
		return domain.Report{}, domain.ValidationError{Message: "month and year are required"}
	}
	school, err := c.repos.Schools.FindByID(ctx, schoolID)
	if err != nil {
		return domain.Report{}, err
	}
	start, end := aggregate.MonthRange(month, year)
	records, err := c.repos.Attendance.FindInRange(ctx, schoolID, start, end)
	if err != nil {
		return domain.Report{}, err
	}
	stats := aggregate.ComputeMonthlyStats(records, school.TotalEnrolled)

	body, err := c.renderer.Render(school, month, year, records, stats)
	if err != nil {
		return domain.Report{}, fmt.Errorf("render report: %w", err)
	}
	fileName := FileName(school, month, year, c.renderer.Extension())
	key := Key(schoolID, fileName)
	if _, err := c.blobs.Delete(ctx, key); err != nil {
		return domain.Report{}, fmt.Errorf("clear previous artifact: %w", err)
	}
	if _, err := c.blobs.Put(ctx, key, bytes.NewReader(body), blob.PutOptions{ContentType: c.renderer.ContentType()}); err != nil {
		return domain.Report{}, fmt.Errorf("store artifact: %w", err)
	}

	rec, err := c.repos.Reports.Upsert(ctx, domain.Report{
		SchoolID:         schoolID,
		Month:            month,
		Year:             year,
		FileName:         fileName,
		FilePath:         key,
		GeneratedBy:      generatedBy,
		TotalMealsServed: stats.TotalMealsServed,
		AvgAttendance:    stats.AvgAttendance,
	})
	if err != nil {
		return domain.Report{}, err
	}

	if _, err := c.repos.Activity.Log(ctx, domain.ActivityLog{
		SchoolID:    &schoolID,
		Type:        repo.ActivityReportGenerated,
		Title:       "Monthly Report Generated",
		Description: fmt.Sprintf("%s %d PDF Ready", time.Month(month).String(), year),
		UserID:      generatedBy,
		Icon:        "file-text",
		IconColor:   "blue",
	}); err != nil {
		return domain.Report{}, err
	}
	return rec, nil
}

// Download streams a stored report artifact by record id.
func (c *Coordinator) Download(ctx context.Context, reportID string) (domain.Report, blob.Info, []byte, error) {
	rec, err := c.repos.Reports.FindByID(ctx, reportID)
	if err != nil {
		return domain.Report{}, blob.Info{}, nil, err
	}
	info, rc, err := c.blobs.Get(ctx, rec.FilePath)
	if err != nil {
		return domain.Report{}, blob.Info{}, nil, domain.NotFoundError{Entity: domain.EntityReport, ID: reportID}
	}
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	if err != nil {
		return domain.Report{}, blob.Info{}, nil, fmt.Errorf("read artifact: %w", err)
	}
	return rec, info, body, nil
}
