package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"mealcore/internal/docstore"
	"mealcore/pkg/domain"
)

// DefaultItemColor is assigned to stock items created without a display
// color.
const DefaultItemColor = "#F97316"

// InventoryRepo manages stock line items. Fill percentage and the low-stock
// flag are recomputed from the stored fields on every read and never
// persisted.
type InventoryRepo struct {
	store docstore.Store
}

// Create validates and stores a new stock item. The starting quantity is
// clamped to capacity.
func (r *InventoryRepo) Create(ctx context.Context, item domain.Inventory) (domain.Inventory, error) {
	if item.SchoolID == "" || item.Name == "" {
		return domain.Inventory{}, domain.ValidationError{Message: "schoolId and name are required"}
	}
	if item.MaxCapacity <= 0 {
		return domain.Inventory{}, domain.ValidationError{Message: "maxCapacity must be greater than zero"}
	}
	if item.Quantity < 0 {
		return domain.Inventory{}, domain.ValidationError{Message: "quantity must not be negative"}
	}
	if item.Quantity > item.MaxCapacity {
		item.Quantity = item.MaxCapacity
	}
	if item.Unit == "" {
		item.Unit = "kg"
	}
	if item.Color == "" {
		item.Color = DefaultItemColor
	}
	now := domain.Now()
	item.LastUpdated = now
	item.CreatedAt = now
	item.UpdatedAt = now
	doc, err := toDocument(item)
	if err != nil {
		return domain.Inventory{}, err
	}
	id, err := r.store.Insert(ctx, docstore.CollectionInventory, doc)
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("insert inventory item: %w", err)
	}
	item.ID = id
	return item, nil
}

// Find lists a school's stock items sorted by name.
func (r *InventoryRepo) Find(ctx context.Context, schoolID string) ([]domain.Inventory, error) {
	var (
		docs []docstore.Document
		err  error
	)
	if schoolID != "" {
		docs, err = r.store.FetchByField(ctx, docstore.CollectionInventory, "schoolId", schoolID)
	} else {
		docs, err = r.store.FetchAll(ctx, docstore.CollectionInventory)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	items := make([]domain.Inventory, 0, len(docs))
	for _, doc := range docs {
		var item domain.Inventory
		if err := fromDocument(doc, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// FindByID returns one stock item or a NotFound error.
func (r *InventoryRepo) FindByID(ctx context.Context, id string) (domain.Inventory, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionInventory, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Inventory{}, domain.NotFoundError{Entity: domain.EntityInventory, ID: id}
	}
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("get inventory item %s: %w", id, err)
	}
	var item domain.Inventory
	if err := fromDocument(doc, &item); err != nil {
		return domain.Inventory{}, err
	}
	return item, nil
}

// AddStock increases an item's quantity, clamped to capacity. Whatever does
// not fit is discarded rather than rejected.
func (r *InventoryRepo) AddStock(ctx context.Context, id string, quantity float64, userID string) (domain.Inventory, error) {
	if quantity <= 0 {
		return domain.Inventory{}, domain.ValidationError{Message: "Quantity must be greater than zero"}
	}
	item, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Inventory{}, err
	}
	next := item.Quantity + quantity
	if next > item.MaxCapacity {
		next = item.MaxCapacity
	}
	now := domain.Now()
	partial := docstore.Document{
		"quantity":    next,
		"lastUpdated": now,
		"updatedAt":   now,
	}
	if userID != "" {
		partial["updatedBy"] = userID
	}
	if err := r.store.Update(ctx, docstore.CollectionInventory, id, partial); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.Inventory{}, domain.NotFoundError{Entity: domain.EntityInventory, ID: id}
		}
		return domain.Inventory{}, fmt.Errorf("add stock to %s: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// Update merges the given fields into an existing item.
func (r *InventoryRepo) Update(ctx context.Context, id string, changes docstore.Document) (domain.Inventory, error) {
	partial := make(docstore.Document, len(changes)+1)
	for k, v := range changes {
		partial[k] = v
	}
	partial["updatedAt"] = domain.Now()
	err := r.store.Update(ctx, docstore.CollectionInventory, id, partial)
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.Inventory{}, domain.NotFoundError{Entity: domain.EntityInventory, ID: id}
	}
	if err != nil {
		return domain.Inventory{}, fmt.Errorf("update inventory item %s: %w", id, err)
	}
	return r.FindByID(ctx, id)
}
