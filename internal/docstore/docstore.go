// Package docstore re-exports the document store contract and selects a
// concrete driver from the environment.
package docstore

import (
	"context"
	"fmt"
	"os"

	"mealcore/internal/docstore/core"
	"mealcore/internal/docstore/memory"
	"mealcore/internal/docstore/mongo"
	"mealcore/internal/docstore/postgres"
	"mealcore/internal/docstore/sqlite"
)

type (
	// Document is a flat stored document.
	Document = core.Document
	// Store is the equality-only document store contract.
	Store = core.Store
)

// Collection names re-exported for call sites.
const (
	CollectionSchools      = core.CollectionSchools
	CollectionUsers        = core.CollectionUsers
	CollectionAttendance   = core.CollectionAttendance
	CollectionInventory    = core.CollectionInventory
	CollectionReports      = core.CollectionReports
	CollectionActivityLogs = core.CollectionActivityLogs
)

// ErrNotFound indicates a missing document as opposed to a store failure.
var ErrNotFound = core.ErrNotFound

// Collections lists every collection a driver must provision.
func Collections() []string { return core.Collections() }

// Driver identifies a concrete document store implementation.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory only (tests / ephemeral)
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server, JSONB documents
	DriverMongo    Driver = "mongo"    // MongoDB server
)

// Environment variables consulted by Open.
const (
	EnvDriver      = "MEALCORE_STORE_DRIVER"
	EnvSQLitePath  = "MEALCORE_SQLITE_PATH"
	EnvPostgresDSN = "MEALCORE_POSTGRES_DSN"
	EnvMongoURI    = "MEALCORE_MONGO_URI"
	EnvMongoDB     = "MEALCORE_MONGO_DB"
)

// Open selects a backend using environment variables. Defaults to sqlite
// when unset.
//
//	MEALCORE_STORE_DRIVER: memory|sqlite|postgres|mongo (default sqlite)
//	MEALCORE_SQLITE_PATH: path to sqlite file (default ./mealcore.db)
//	MEALCORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	MEALCORE_MONGO_URI: mongodb URI when driver=mongo
//	MEALCORE_MONGO_DB: mongo database name (default mealcore)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv(EnvDriver)
	if driver == "" {
		driver = string(DriverSQLite)
	}
	switch Driver(driver) {
	case DriverMemory:
		return memory.NewStore(), nil
	case DriverSQLite:
		return sqlite.NewStore(os.Getenv(EnvSQLitePath))
	case DriverPostgres:
		return postgres.NewStore(ctx, os.Getenv(EnvPostgresDSN))
	case DriverMongo:
		return mongo.NewStore(ctx, os.Getenv(EnvMongoURI), os.Getenv(EnvMongoDB))
	default:
		return nil, fmt.Errorf("unknown store driver %s", driver)
	}
}
