package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"mealcore/internal/docstore"
	"mealcore/pkg/domain"
)

// DefaultAttendanceLimit bounds attendance history reads when the caller
// does not ask for a specific window.
const DefaultAttendanceLimit = 30

// AttendanceRepo manages daily meal records. The (schoolId, dateStr) natural
// key has no store-level constraint, so creation serializes the
// check-then-insert per key through an in-process lock.
type AttendanceRepo struct {
	store docstore.Store
	keys  *keyedMutex
}

// Create stores one meal record for a school day. The day key is derived
// from the supplied instant in UTC; a second record for the same school and
// day fails with a Duplicate error before anything is written.
func (r *AttendanceRepo) Create(ctx context.Context, a domain.Attendance) (domain.Attendance, error) {
	if a.SchoolID == "" {
		return domain.Attendance{}, domain.ValidationError{Message: "schoolId is required"}
	}
	if a.StudentsPresent < 0 {
		return domain.Attendance{}, domain.ValidationError{Message: "studentsPresent must not be negative"}
	}
	if a.MenuServed == "" {
		return domain.Attendance{}, domain.ValidationError{Message: "menuServed is required"}
	}
	when := time.Now()
	if a.Date != "" {
		parsed, err := domain.ParseTime(a.Date)
		if err != nil {
			return domain.Attendance{}, domain.ValidationError{Message: "date must be an ISO-8601 instant"}
		}
		when = parsed
	}
	a.Date = domain.FormatTime(when)
	a.DateStr = domain.DateStr(when)

	unlock := r.keys.lock("attendance:" + a.SchoolID + ":" + a.DateStr)
	defer unlock()
	sameDay, err := r.store.FetchByField(ctx, docstore.CollectionAttendance, "dateStr", a.DateStr)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("check existing attendance: %w", err)
	}
	for _, doc := range sameDay {
		if doc["schoolId"] == a.SchoolID {
			return domain.Attendance{}, domain.DuplicateError{
				Entity:  domain.EntityAttendance,
				Message: "Attendance for this date has already been submitted",
			}
		}
	}

	a.Verified = false
	a.VerifiedBy = nil
	a.VerifiedAt = nil
	now := domain.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	doc, err := toDocument(a)
	if err != nil {
		return domain.Attendance{}, err
	}
	id, err := r.store.Insert(ctx, docstore.CollectionAttendance, doc)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}
	a.ID = id
	return a, nil
}

// Find lists records most-recent-first, optionally scoped to a school. A
// non-positive limit falls back to DefaultAttendanceLimit.
func (r *AttendanceRepo) Find(ctx context.Context, schoolID string, limit int) ([]domain.Attendance, error) {
	records, err := r.fetch(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date > records[j].Date })
	if limit <= 0 {
		limit = DefaultAttendanceLimit
	}
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// FindByID returns one record or a NotFound error.
func (r *AttendanceRepo) FindByID(ctx context.Context, id string) (domain.Attendance, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionAttendance, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Attendance{}, domain.NotFoundError{Entity: domain.EntityAttendance, ID: id}
	}
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("get attendance %s: %w", id, err)
	}
	var a domain.Attendance
	if err := fromDocument(doc, &a); err != nil {
		return domain.Attendance{}, err
	}
	return a, nil
}

// FindToday returns today's record for a school, or nil when none exists.
// With no school scope the first record of the day is returned.
func (r *AttendanceRepo) FindToday(ctx context.Context, schoolID string) (*domain.Attendance, error) {
	docs, err := r.store.FetchByField(ctx, docstore.CollectionAttendance, "dateStr", domain.DateStr(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("fetch today's attendance: %w", err)
	}
	for _, doc := range docs {
		if schoolID != "" && doc["schoolId"] != schoolID {
			continue
		}
		var a domain.Attendance
		if err := fromDocument(doc, &a); err != nil {
			return nil, err
		}
		return &a, nil
	}
	return nil, nil
}

// FindInRange returns records whose date falls within [start, end], oldest
// first. The range filter runs in memory on the canonical timestamp strings.
func (r *AttendanceRepo) FindInRange(ctx context.Context, schoolID string, start, end time.Time) ([]domain.Attendance, error) {
	records, err := r.fetch(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	lo, hi := domain.FormatTime(start), domain.FormatTime(end)
	kept := records[:0]
	for _, rec := range records {
		if rec.Date >= lo && rec.Date <= hi {
			kept = append(kept, rec)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Date < kept[j].Date })
	return kept, nil
}

// Verify flips a record to verified exactly once. A second attempt is
// rejected, never silently absorbed.
func (r *AttendanceRepo) Verify(ctx context.Context, id, officerID string) (domain.Attendance, error) {
	current, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Attendance{}, err
	}
	if current.Verified {
		return domain.Attendance{}, domain.ValidationError{Message: "Attendance record is already verified"}
	}
	now := domain.Now()
	partial := docstore.Document{
		"verified":   true,
		"verifiedBy": officerID,
		"verifiedAt": now,
		"updatedAt":  now,
	}
	if err := r.store.Update(ctx, docstore.CollectionAttendance, id, partial); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Attendance{}, domain.NotFoundError{Entity: domain.EntityAttendance, ID: id}
		}
		return domain.Attendance{}, fmt.Errorf("verify attendance %s: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

func (r *AttendanceRepo) fetch(ctx context.Context, schoolID string) ([]domain.Attendance, error) {
	var (
		docs []docstore.Document
		err  error
	)
	if schoolID != "" {
		docs, err = r.store.FetchByField(ctx, docstore.CollectionAttendance, "schoolId", schoolID)
	} else {
		docs, err = r.store.FetchAll(ctx, docstore.CollectionAttendance)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch attendance: %w", err)
	}
	records := make([]domain.Attendance, 0, len(docs))
	for _, doc := range docs {
		var a domain.Attendance
		if err := fromDocument(doc, &a); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, nil
}
