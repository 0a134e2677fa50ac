package repo

import (
	"context"
	"fmt"
	"sort"

	"mealcore/internal/docstore"
	"mealcore/pkg/domain"
)

// DefaultActivityLimit bounds activity feed reads.
const DefaultActivityLimit = 10

// Activity entry shapes, one per state-changing operation.
const (
	ActivityMealSubmitted      = "meal_submitted"
	ActivityAttendanceVerified = "attendance_verified"
	ActivityStockAdded         = "stock_added"
	ActivityReportGenerated    = "report_generated"
)

// ActivityRepo manages the append-only audit feed. Entries are never
// updated; retrieval is always most-recent-first and bounded.
type ActivityRepo struct {
	store docstore.Store
}

// Log appends one entry. Icon defaults keep the feed renderable even when a
// caller omits presentation fields.
func (r *ActivityRepo) Log(ctx context.Context, entry domain.ActivityLog) (domain.ActivityLog, error) {
	if entry.Type == "" || entry.Title == "" {
		return domain.ActivityLog{}, domain.ValidationError{Message: "type and title are required"}
	}
	if entry.Icon == "" {
		entry.Icon = "check"
	}
	if entry.IconColor == "" {
		entry.IconColor = "green"
	}
	entry.CreatedAt = domain.Now()
	doc, err := toDocument(entry)
	if err != nil {
		return domain.ActivityLog{}, err
	}
	id, err := r.store.Insert(ctx, docstore.CollectionActivityLogs, doc)
	if err != nil {
		return domain.ActivityLog{}, fmt.Errorf("insert activity entry: %w", err)
	}
	entry.ID = id
	return entry, nil
}

// Find lists entries most-recent-first, optionally scoped to a school. A
// non-positive limit falls back to DefaultActivityLimit.
func (r *ActivityRepo) Find(ctx context.Context, schoolID string, limit int) ([]domain.ActivityLog, error) {
	var (
		docs []docstore.Document
		err  error
	)
	if schoolID != "" {
		docs, err = r.store.FetchByField(ctx, docstore.CollectionActivityLogs, "schoolId", schoolID)
	} else {
		docs, err = r.store.FetchAll(ctx, docstore.CollectionActivityLogs)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch activity: %w", err)
	}
	entries := make([]domain.ActivityLog, 0, len(docs))
	for _, doc := range docs {
		var entry domain.ActivityLog
		if err := fromDocument(doc, &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt > entries[j].CreatedAt })
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
