// Package mongo persists documents in MongoDB, one collection per logical
// collection with string ids. Equality fetch uses a single-field filter so
// the database only ever answers the query shapes the adapter contract
// allows.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"mealcore/internal/docstore/core"
)

// Compile-time contract assertion.
var _ core.Store = (*Store)(nil)

const (
	defaultURI    = "mongodb://localhost:27017"
	defaultDBName = "mealcore"
)

// Store wraps a mongo client scoped to a single database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to MongoDB at uri (falls back to defaultURI) and scopes
// all operations to dbName (falls back to defaultDBName).
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		uri = defaultURI
	}
	if dbName == "" {
		dbName = defaultDBName
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(dbName)}, nil
}

func decodeDoc(raw bson.M) core.Document {
	doc := make(core.Document, len(raw))
	for k, v := range raw {
		doc[k] = v
	}
	return doc
}

func (s *Store) find(ctx context.Context, collection string, filter bson.D) ([]core.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer func() { _ = cur.Close(ctx) }()
	var out []core.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, decodeDoc(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

// FetchByField returns every document whose field equals value.
func (s *Store) FetchByField(ctx context.Context, collection, field, value string) ([]core.Document, error) {
	return s.find(ctx, collection, bson.D{{Key: field, Value: value}})
}

// FetchAll returns every document in the collection.
func (s *Store) FetchAll(ctx context.Context, collection string) ([]core.Document, error) {
	return s.find(ctx, collection, bson.D{})
}

// Get returns the document with the given id or core.ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, id string) (core.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", collection, id, err)
	}
	return decodeDoc(raw), nil
}

// Insert stores a new document under a generated string id.
func (s *Store) Insert(ctx context.Context, collection string, doc core.Document) (string, error) {
	id := uuid.NewString()
	stored := make(bson.M, len(doc)+1)
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		stored[k] = v
	}
	stored["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, stored); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Update merges partial into the stored document via $set.
func (s *Store) Update(ctx context.Context, collection, id string, partial core.Document) error {
	fields := make(bson.M, len(partial))
	for k, v := range partial {
		if k == "_id" {
			continue
		}
		fields[k] = v
	}
	if len(fields) == 0 {
		if _, err := s.Get(ctx, collection, id); err != nil {
			return err
		}
		return nil
	}
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update %s %s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteAll removes every document in the collection.
func (s *Store) DeleteAll(ctx context.Context, collection string) error {
	if _, err := s.db.Collection(collection).DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("delete all %s: %w", collection, err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }
