package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"mealcore/internal/docstore"
	"mealcore/pkg/domain"
)

// ReportRepo manages generated monthly report records. At most one record
// exists per (schoolId, month, year); regeneration overwrites in place.
type ReportRepo struct {
	store docstore.Store
	keys  *keyedMutex
}

// Upsert creates or overwrites the report record for the given school and
// period. The period lookup is a schoolId equality fetch filtered in memory;
// the whole sequence is serialized per period key.
func (r *ReportRepo) Upsert(ctx context.Context, rep domain.Report) (domain.Report, error) {
	if rep.SchoolID == "" {
		return domain.Report{}, domain.ValidationError{Message: "schoolId is required"}
	}
	if rep.Month < 1 || rep.Month > 12 {
		return domain.Report{}, domain.ValidationError{Message: "month must be between 1 and 12"}
	}
	if rep.Year == 0 {
		return domain.Report{}, domain.ValidationError{Message: "year is required"}
	}

	unlock := r.keys.lock(fmt.Sprintf("report:%s:%d:%d", rep.SchoolID, rep.Month, rep.Year))
	defer unlock()
	existing, err := r.findPeriod(ctx, rep.SchoolID, rep.Month, rep.Year)
	if err != nil {
		return domain.Report{}, err
	}
	now := domain.Now()
	if existing != nil {
		partial := docstore.Document{
			"fileName":         rep.FileName,
			"filePath":         rep.FilePath,
			"generatedBy":      rep.GeneratedBy,
			"totalMealsServed": rep.TotalMealsServed,
			"avgAttendance":    rep.AvgAttendance,
			"updatedAt":        now,
		}
		if err := r.store.Update(ctx, docstore.CollectionReports, existing.ID, partial); err != nil {
			return domain.Report{}, fmt.Errorf("update report %s: %w", existing.ID, err)
		}
		return r.FindByID(ctx, existing.ID)
	}
	rep.CreatedAt = now
	rep.UpdatedAt = now
	doc, err := toDocument(rep)
	if err != nil {
		return domain.Report{}, err
	}
	id, err := r.store.Insert(ctx, docstore.CollectionReports, doc)
	if err != nil {
		return domain.Report{}, fmt.Errorf("insert report: %w", err)
	}
	rep.ID = id
	return rep, nil
}

// Find lists report records, optionally scoped to a school, newest period
// first (year descending, then month descending).
func (r *ReportRepo) Find(ctx context.Context, schoolID string) ([]domain.Report, error) {
	var (
		docs []docstore.Document
		err  error
	)
	if schoolID != "" {
		docs, err = r.store.FetchByField(ctx, docstore.CollectionReports, "schoolId", schoolID)
	} else {
		docs, err = r.store.FetchAll(ctx, docstore.CollectionReports)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}
	reports := make([]domain.Report, 0, len(docs))
	for _, doc := range docs {
		var rep domain.Report
		if err := fromDocument(doc, &rep); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Year != reports[j].Year {
			return reports[i].Year > reports[j].Year
		}
		return reports[i].Month > reports[j].Month
	})
	return reports, nil
}

// FindByID returns one report record or a NotFound error.
func (r *ReportRepo) FindByID(ctx context.Context, id string) (domain.Report, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionReports, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Report{}, domain.NotFoundError{Entity: domain.EntityReport, ID: id}
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("get report %s: %w", id, err)
	}
	var rep domain.Report
	if err := fromDocument(doc, &rep); err != nil {
		return domain.Report{}, err
	}
	return rep, nil
}

func (r *ReportRepo) findPeriod(ctx context.Context, schoolID string, month, year int) (*domain.Report, error) {
	docs, err := r.store.FetchByField(ctx, docstore.CollectionReports, "schoolId", schoolID)
	if err != nil {
		return nil, fmt.Errorf("fetch reports for school %s: %w", schoolID, err)
	}
	for _, doc := range docs {
		var rep domain.Report
		if err := fromDocument(doc, &rep); err != nil {
			return nil, err
		}
		if rep.Month == month && rep.Year == year {
			return &rep, nil
		}
	}
	return nil, nil
}
