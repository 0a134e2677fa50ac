// Package report generates monthly report artifacts and persists their
// records, one per school and period.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"mealcore/internal/aggregate"
	"mealcore/pkg/domain"
)

// Renderer turns a school's month of records into a durable artifact body.
type Renderer interface {
	Render(school domain.School, month, year int, records []domain.Attendance, stats aggregate.MonthlyStats) ([]byte, error)
	ContentType() string
	Extension() string
}

// TextRenderer renders the report as plain text with the same layout the
// distributed PDF uses. It keeps artifact generation dependency-free while a
// richer renderer can drop in behind the same interface.
type TextRenderer struct{}

var _ Renderer = TextRenderer{}

func (TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }

func (TextRenderer) Extension() string { return "pdf" }

func (TextRenderer) Render(school domain.School, month, year int, records []domain.Attendance, stats aggregate.MonthlyStats) ([]byte, error) {
	var b bytes.Buffer
	line := strings.Repeat("=", 64)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "POSHAN DARPAN - MONTHLY MEAL REPORT")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "School: %s\n", school.Name)
	fmt.Fprintf(&b, "District: %s  Block: %s\n", school.District, school.Block)
	fmt.Fprintf(&b, "Period: %s %d\n", time.Month(month), year)
	fmt.Fprintf(&b, "Total Enrolled: %d\n", school.TotalEnrolled)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "SUMMARY")
	fmt.Fprintf(&b, "  Days Reported:     %d\n", len(records))
	fmt.Fprintf(&b, "  Total Meals Served: %d\n", stats.TotalMealsServed)
	fmt.Fprintf(&b, "  Average Attendance: %d\n", stats.AvgAttendance)
	fmt.Fprintf(&b, "  Participation Rate: %d%%\n", stats.ParticipationRate)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "DAILY RECORDS")
	if len(records) == 0 {
		fmt.Fprintln(&b, "  No records submitted for this period.")
	}
	for _, rec := range records {
		status := "pending"
		if rec.Verified {
			status = "verified"
		}
		fmt.Fprintf(&b, "  %s  present %3d/%3d  %-24s %s\n",
			rec.DateStr, rec.StudentsPresent, rec.TotalEnrolled, rec.MenuServed, status)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Generated on %s\n", domain.Now())
	return b.Bytes(), nil
}

// FileName builds the canonical artifact name for a school and period. The
// school name is underscored so the name stays a single path segment.
func FileName(school domain.School, month, year int, ext string) string {
	name := strings.ReplaceAll(school.Name, " ", "_")
	return fmt.Sprintf("report_%s_%s_%d.%s", name, time.Month(month), year, ext)
}

// Key places an artifact under its owning school.
func Key(schoolID, fileName string) string {
	return fmt.Sprintf("reports/%s/%s", schoolID, fileName)
}
