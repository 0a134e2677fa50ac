package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"mealcore/internal/docstore"
	"mealcore/pkg/domain"
)

// UserRepo manages accounts. Usernames are normalised to lower case and
// checked for uniqueness with a lookup-before-insert serialized per
// username, since the store offers no unique constraint.
type UserRepo struct {
	store docstore.Store
	keys  *keyedMutex
}

// Create stores a new account. The password must already be hashed; it is
// stripped from the returned record.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Username == "" || u.Password == "" || u.FullName == "" {
		return domain.User{}, domain.ValidationError{Message: "username, password and fullName are required"}
	}
	if u.Role != domain.RoleSchoolAdmin && u.Role != domain.RoleGovtOfficer {
		return domain.User{}, domain.ValidationError{Message: "role must be school_admin or govt_officer"}
	}
	unlock := r.keys.lock("user:" + u.Username)
	defer unlock()
	existing, err := r.store.FetchByField(ctx, docstore.CollectionUsers, "username", u.Username)
	if err != nil {
		return domain.User{}, fmt.Errorf("check username: %w", err)
	}
	if len(existing) > 0 {
		return domain.User{}, domain.DuplicateError{Entity: domain.EntityUser, Message: "Username already exists"}
	}
	now := domain.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	doc, err := toDocument(u)
	if err != nil {
		return domain.User{}, err
	}
	id, err := r.store.Insert(ctx, docstore.CollectionUsers, doc)
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	u.Password = ""
	return u, nil
}

// FindByUsername returns an account including its password hash. This is the
// only read path that keeps the hash; it exists for credential checks.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	docs, err := r.store.FetchByField(ctx, docstore.CollectionUsers, "username", username)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user by username: %w", err)
	}
	if len(docs) == 0 {
		return domain.User{}, domain.NotFoundError{Entity: domain.EntityUser}
	}
	var u domain.User
	if err := fromDocument(docs[0], &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// FindByID returns one account with the password hash stripped.
func (r *UserRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionUsers, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.User{}, domain.NotFoundError{Entity: domain.EntityUser, ID: id}
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	var u domain.User
	if err := fromDocument(doc, &u); err != nil {
		return domain.User{}, err
	}
	u.Password = ""
	return u, nil
}

// Find lists accounts sorted by username, hashes stripped.
func (r *UserRepo) Find(ctx context.Context) ([]domain.User, error) {
	docs, err := r.store.FetchAll(ctx, docstore.CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	users := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		var u domain.User
		if err := fromDocument(doc, &u); err != nil {
			return nil, err
		}
		u.Password = ""
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// Update merges the given fields into an existing account. Username and
// password changes are not supported through this path.
func (r *UserRepo) Update(ctx context.Context, id string, changes docstore.Document) (domain.User, error) {
	partial := make(docstore.Document, len(changes)+1)
	for k, v := range changes {
		if k == "username" || k == "password" {
			continue
		}
		partial[k] = v
	}
	partial["updatedAt"] = domain.Now()
	err := r.store.Update(ctx, docstore.CollectionUsers, id, partial)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.User{}, domain.NotFoundError{Entity: domain.EntityUser, ID: id}
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("update user %s: %w", id, err)
	}
	return r.FindByID(ctx, id)
}
