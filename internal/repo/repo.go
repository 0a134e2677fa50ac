// Package repo implements the entity repositories on top of the document
// store adapter. The store only answers single-field equality lookups, so
// every richer find issues the narrowest equality fetch available and then
// applies a fixed in-memory pipeline: range filter, then sort, then limit.
// Limit always runs last so a secondary filter can never be starved of rows.
package repo

import (
	"encoding/json"
	"fmt"
	"sync"

	"mealcore/internal/docstore"
)

// Repos bundles one repository per entity around a shared store handle.
type Repos struct {
	Schools    *SchoolRepo
	Users      *UserRepo
	Attendance *AttendanceRepo
	Inventory  *InventoryRepo
	Reports    *ReportRepo
	Activity   *ActivityRepo
}

// New wires every repository to the given store.
func New(store docstore.Store) *Repos {
	return &Repos{
		Schools:    &SchoolRepo{store: store},
		Users:      &UserRepo{store: store, keys: newKeyedMutex()},
		Attendance: &AttendanceRepo{store: store, keys: newKeyedMutex()},
		Inventory:  &InventoryRepo{store: store},
		Reports:    &ReportRepo{store: store, keys: newKeyedMutex()},
		Activity:   &ActivityRepo{store: store},
	}
}

// toDocument flattens an entity into a stored document via its JSON tags.
// The id is stripped: the store owns identifier assignment.
func toDocument(v any) (docstore.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode entity: %w", err)
	}
	var doc docstore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("flatten entity: %w", err)
	}
	delete(doc, "_id")
	return doc, nil
}

// fromDocument rebuilds an entity from a stored document.
func fromDocument(doc docstore.Document, target any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// keyedMutex serializes check-then-insert sequences per natural key so two
// concurrent writes for the same key cannot both observe "absent".
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its release function.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}
