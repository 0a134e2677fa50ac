// Package seed loads the demo dataset: a district of schools, one account
// per role, staple stock items, and a backfill of attendance records. It is
// the administrative reset path; every collection is cleared first.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"mealcore/internal/auth"
	"mealcore/internal/docstore"
	"mealcore/internal/repo"
	"mealcore/pkg/domain"
)

// Run wipes and repopulates the store with the demo dataset.
func Run(ctx context.Context, store docstore.Store, repos *repo.Repos, logger *log.Logger) error {
	for _, collection := range docstore.Collections() {
		if err := store.DeleteAll(ctx, collection); err != nil {
			return fmt.Errorf("clear %s: %w", collection, err)
		}
	}

	schools := []domain.School{
		{Name: "Govt Primary School Rau", District: "Indore", Block: "Rau", TotalEnrolled: 120,
			Address: "Main Road, Rau", ContactPhone: "07311234501"},
		{Name: "Govt Primary School Sanwer", District: "Indore", Block: "Sanwer", TotalEnrolled: 95,
			Address: "Station Road, Sanwer", ContactPhone: "07311234502"},
		{Name: "Govt Middle School Depalpur", District: "Indore", Block: "Depalpur", TotalEnrolled: 150,
			Address: "Bazar Chowk, Depalpur", ContactPhone: "07311234503"},
		{Name: "Govt Primary School Mhow", District: "Indore", Block: "Mhow", TotalEnrolled: 110,
			Address: "Cantt Area, Mhow", ContactPhone: "07311234504"},
	}
	created := make([]domain.School, 0, len(schools))
	for _, s := range schools {
		stored, err := repos.Schools.Create(ctx, s)
		if err != nil {
			return fmt.Errorf("seed school %s: %w", s.Name, err)
		}
		created = append(created, stored)
	}

	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	officerHash, err := auth.HashPassword("officer123")
	if err != nil {
		return err
	}
	district := "Indore"
	admin, err := repos.Users.Create(ctx, domain.User{
		Username: "anita", Password: adminHash, FullName: "Anita Sharma",
		Role: domain.RoleSchoolAdmin, Designation: "Principal", SchoolID: &created[0].ID,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	officer, err := repos.Users.Create(ctx, domain.User{
		Username: "rajesh", Password: officerHash, FullName: "Rajesh Verma",
		Role: domain.RoleGovtOfficer, Designation: "Block Education Officer", District: &district,
	})
	if err != nil {
		return fmt.Errorf("seed officer: %w", err)
	}
	if _, err := repos.Schools.Update(ctx, created[0].ID, docstore.Document{"principalId": admin.ID}); err != nil {
		return fmt.Errorf("link principal: %w", err)
	}

	items := []domain.Inventory{
		{SchoolID: created[0].ID, Name: "Rice", Unit: "kg", Quantity: 450, MaxCapacity: 1000},
		{SchoolID: created[0].ID, Name: "Dal", Unit: "kg", Quantity: 120, MaxCapacity: 500, Color: "#EAB308"},
		{SchoolID: created[0].ID, Name: "Oil", Unit: "l", Quantity: 15, MaxCapacity: 100, Color: "#22C55E"},
		{SchoolID: created[0].ID, Name: "Salt", Unit: "kg", Quantity: 40, MaxCapacity: 50, Color: "#3B82F6"},
	}
	for _, item := range items {
		if _, err := repos.Inventory.Create(ctx, item); err != nil {
			return fmt.Errorf("seed inventory %s: %w", item.Name, err)
		}
	}

	// Backfill the last two weeks of school days for the first school.
	menus := created[0].MenuOptions
	now := time.Now().UTC()
	records := 0
	for daysAgo := 14; daysAgo >= 1; daysAgo-- {
		day := now.AddDate(0, 0, -daysAgo)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		present := 100 + (daysAgo*7)%20
		rec, err := repos.Attendance.Create(ctx, domain.Attendance{
			SchoolID:        created[0].ID,
			Date:            domain.FormatTime(day),
			TotalEnrolled:   created[0].TotalEnrolled,
			StudentsPresent: present,
			MenuServed:      menus[daysAgo%len(menus)],
			SubmittedBy:     admin.ID,
		})
		if err != nil {
			return fmt.Errorf("seed attendance %d days ago: %w", daysAgo, err)
		}
		records++
		if daysAgo > 7 {
			if _, err := repos.Attendance.Verify(ctx, rec.ID, officer.ID); err != nil {
				return fmt.Errorf("seed verify: %w", err)
			}
		}
	}

	activity := []domain.ActivityLog{
		{SchoolID: &created[0].ID, Type: repo.ActivityMealSubmitted, Title: "Daily Meal Data Submitted",
			Description: "Today's count: 112 students - Khichdi", UserID: admin.ID, Icon: "check", IconColor: "green"},
		{SchoolID: &created[0].ID, Type: repo.ActivityStockAdded, Title: "Inventory Updated",
			Description: "Added 50kg of Rice", UserID: admin.ID, Icon: "truck", IconColor: "orange"},
		{SchoolID: &created[0].ID, Type: repo.ActivityAttendanceVerified, Title: "Attendance Record Verified",
			Description: "Record for last week verified by officer", UserID: officer.ID, Icon: "check-circle", IconColor: "blue"},
	}
	for _, entry := range activity {
		if _, err := repos.Activity.Log(ctx, entry); err != nil {
			return fmt.Errorf("seed activity: %w", err)
		}
	}

	logger.Info("seed complete",
		"schools", len(created), "users", 2, "inventory", len(items), "attendance", records)
	return nil
}
