// Package blob re-exports the artifact store contract and selects a
// concrete driver from the environment.
package blob

import (
	"context"
	"fmt"
	"os"

	"mealcore/internal/blob/core"
	"mealcore/internal/blob/fs"
	"mealcore/internal/blob/memory"
	"mealcore/internal/blob/s3"
)

type (
	// Store is the artifact storage contract.
	Store = core.Store
	// Info describes a stored artifact.
	Info = core.Info
	// PutOptions specifies optional parameters for Put.
	PutOptions = core.PutOptions
	// Driver identifies a concrete backend.
	Driver = core.Driver
)

// Re-exported driver names and errors.
const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrNotFound = core.ErrNotFound
	ErrExists   = core.ErrExists
)

// Environment variables consulted by Open.
const (
	EnvDriver      = "MEALCORE_BLOB_DRIVER"
	EnvFSRoot      = "MEALCORE_BLOB_FS_ROOT"
	EnvS3Bucket    = "MEALCORE_BLOB_S3_BUCKET"
	EnvS3Region    = "MEALCORE_BLOB_S3_REGION"
	EnvS3Endpoint  = "MEALCORE_BLOB_S3_ENDPOINT"
	EnvS3PathStyle = "MEALCORE_BLOB_S3_PATH_STYLE"
)

// Open selects a backend using environment variables. Defaults to the
// filesystem driver when unset.
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv(EnvDriver)
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return fs.New(os.Getenv(EnvFSRoot))
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Bucket:    os.Getenv(EnvS3Bucket),
			Region:    os.Getenv(EnvS3Region),
			Endpoint:  os.Getenv(EnvS3Endpoint),
			PathStyle: os.Getenv(EnvS3PathStyle) == "true",
		})
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
