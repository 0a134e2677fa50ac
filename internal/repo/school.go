package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"mealcore/internal/docstore"
	"mealcore/pkg/domain"
)

// SchoolRepo manages School records.
type SchoolRepo struct {
	store docstore.Store
}

// Create validates and stores a new school. Schools without an explicit menu
// receive the default menu options.
func (r *SchoolRepo) Create(ctx context.Context, s domain.School) (domain.School, error) {
	if s.Name == "" || s.District == "" || s.Block == "" {
		return domain.School{}, domain.ValidationError{Message: "name, district and block are required"}
	}
	if s.TotalEnrolled < 0 {
		return domain.School{}, domain.ValidationError{Message: "totalEnrolled must not be negative"}
	}
	if len(s.MenuOptions) == 0 {
		s.MenuOptions = append([]string(nil), domain.DefaultMenuOptions...)
	}
	now := domain.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	doc, err := toDocument(s)
	if err != nil {
		return domain.School{}, err
	}
	id, err := r.store.Insert(ctx, docstore.CollectionSchools, doc)
	if err != nil {
		return domain.School{}, fmt.Errorf("insert school: %w", err)
	}
	s.ID = id
	return s, nil
}

// Find lists schools, optionally scoped to a district, sorted by name.
func (r *SchoolRepo) Find(ctx context.Context, district string) ([]domain.School, error) {
	var (
		docs []docstore.Document
		err  error
	)
	if district != "" {
		docs, err = r.store.FetchByField(ctx, docstore.CollectionSchools, "district", district)
	} else {
		docs, err = r.store.FetchAll(ctx, docstore.CollectionSchools)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch schools: %w", err)
	}
	schools := make([]domain.School, 0, len(docs))
	for _, doc := range docs {
		var s domain.School
		if err := fromDocument(doc, &s); err != nil {
			return nil, err
		}
		schools = append(schools, s)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].Name < schools[j].Name })
	return schools, nil
}

// FindByID returns one school or a NotFound error.
func (r *SchoolRepo) FindByID(ctx context.Context, id string) (domain.School, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionSchools, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.School{}, domain.NotFoundError{Entity: domain.EntitySchool, ID: id}
	}
	if err != nil {
		return domain.School{}, fmt.Errorf("get school %s: %w", id, err)
	}
	var s domain.School
	if err := fromDocument(doc, &s); err != nil {
		return domain.School{}, err
	}
	return s, nil
}

// Update merges the given fields into an existing school and returns the
// refreshed record.
func (r *SchoolRepo) Update(ctx context.Context, id string, changes docstore.Document) (domain.School, error) {
	partial := make(docstore.Document, len(changes)+1)
	for k, v := range changes {
		partial[k] = v
	}
	partial["updatedAt"] = domain.Now()
	err := r.store.Update(ctx, docstore.CollectionSchools, id, partial)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.School{}, domain.NotFoundError{Entity: domain.EntitySchool, ID: id}
	}
	if err != nil {
		return domain.School{}, fmt.Errorf("update school %s: %w", id, err)
	}
	return r.FindByID(ctx, id)
}
