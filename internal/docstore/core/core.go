// Package core defines the adapter contract over the underlying document
// store. The store natively supports exactly one kind of filter: equality on
// a single field. Range predicates, compound filters, ordering, and limits
// are all the caller's responsibility, applied in application memory over the
// fetched set. No driver makes any ordering guarantee.
package core

import (
	"context"
	"errors"
)

// Collection names. Each collection holds flat JSON documents keyed by a
// store-assigned opaque id exposed as "_id".
const (
	CollectionSchools      = "schools"
	CollectionUsers        = "users"
	CollectionAttendance   = "attendance"
	CollectionInventory    = "inventory"
	CollectionReports      = "reports"
	CollectionActivityLogs = "activityLogs"
)

// Collections lists every collection a driver must provision.
func Collections() []string {
	return []string{
		CollectionSchools,
		CollectionUsers,
		CollectionAttendance,
		CollectionInventory,
		CollectionReports,
		CollectionActivityLogs,
	}
}

// Document is a flat JSON document as stored. Fetch results include the
// store-assigned id under "_id"; inserts must not carry one.
type Document map[string]any

// ErrNotFound distinguishes "no document with that id" from a transport or
// connection failure. Callers must branch on it with errors.Is and never
// conflate the two conditions.
var ErrNotFound = errors.New("docstore: document not found")

// Store is the minimal capability surface the underlying document store
// provides. Update performs a partial merge of the supplied fields into the
// existing document, not a full replace. DeleteAll is batched but not atomic
// with respect to concurrent readers.
type Store interface {
	// FetchByField returns every document whose field equals value. This is
	// the only native filter the store offers.
	FetchByField(ctx context.Context, collection, field, value string) ([]Document, error)
	// FetchAll returns every document in the collection.
	FetchAll(ctx context.Context, collection string) ([]Document, error)
	// Get returns the document with the given id or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Insert stores a new document and returns its assigned id.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// Update merges partial into the stored document or returns ErrNotFound.
	Update(ctx context.Context, collection, id string, partial Document) error
	// DeleteAll removes every document in the collection.
	DeleteAll(ctx context.Context, collection string) error
	// Close releases the underlying handle.
	Close(ctx context.Context) error
}
