// Package postgres persists documents in PostgreSQL, one table per
// collection with the document in a JSONB column. Equality fetch uses the
// ->> operator so the database only ever answers single-field equality
// lookups, keeping parity with the adapter contract.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"mealcore/internal/docstore/core"
)

// Compile-time contract assertion.
var _ core.Store = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/mealcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store wraps a postgres connection pool. Updates serialize through a mutex
// because the partial merge is a read-modify-write.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a postgres-backed store using the provided DSN (falls back
// to defaultDSN) and provisions a table per collection.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, collection := range core.Collections() {
		ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			id TEXT PRIMARY KEY,
			doc JSONB NOT NULL
		)`, collection)
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("create table %s: %w", collection, err)
		}
	}
	return &Store{db: db}, nil
}

func decodeRow(id string, raw []byte) (core.Document, error) {
	var doc core.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	doc["_id"] = id
	return doc, nil
}

// FetchByField returns every document whose field equals value.
func (s *Store) FetchByField(ctx context.Context, collection, field, value string) ([]core.Document, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %q WHERE doc->>$1 = $2`, collection)
	rows, err := s.db.QueryContext(ctx, query, field, value)
	if err != nil {
		return nil, fmt.Errorf("fetch %s by %s: %w", collection, field, err)
	}
	return collectRows(rows)
}

// FetchAll returns every document in the collection.
func (s *Store) FetchAll(ctx context.Context, collection string) ([]core.Document, error) {
	query := fmt.Sprintf(`SELECT id, doc FROM %q`, collection)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	return collectRows(rows)
}

func collectRows(rows *sql.Rows) ([]core.Document, error) {
	defer func() { _ = rows.Close() }()
	var out []core.Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}

// Get returns the document with the given id or core.ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, id string) (core.Document, error) {
	query := fmt.Sprintf(`SELECT doc FROM %q WHERE id = $1`, collection)
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", collection, id, err)
	}
	return decodeRow(id, raw)
}

// Insert stores a new document under a generated id.
func (s *Store) Insert(ctx context.Context, collection string, doc core.Document) (string, error) {
	id := uuid.NewString()
	stored := make(core.Document, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		stored[k] = v
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %q (id, doc) VALUES ($1, $2)`, collection)
	if _, err := s.db.ExecContext(ctx, query, id, raw); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Update merges partial into the stored document.
func (s *Store) Update(ctx context.Context, collection, id string, partial core.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	query := fmt.Sprintf(`SELECT doc FROM %q WHERE id = $1`, collection)
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s %s: %w", collection, id, err)
	}
	var doc core.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode document %s: %w", id, err)
	}
	for k, v := range partial {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	update := fmt.Sprintf(`UPDATE %q SET doc = $1 WHERE id = $2`, collection)
	if _, err := s.db.ExecContext(ctx, update, merged, id); err != nil {
		return fmt.Errorf("update %s %s: %w", collection, id, err)
	}
	return nil
}

// DeleteAll removes every document in the collection.
func (s *Store) DeleteAll(ctx context.Context, collection string) error {
	query := fmt.Sprintf(`DELETE FROM %q`, collection)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete all %s: %w", collection, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close(context.Context) error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
