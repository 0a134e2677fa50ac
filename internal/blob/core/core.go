// Package core defines the artifact store contract shared by the blob
// drivers. Semantics mirror a minimal subset of S3 so the s3 adapter is
// nearly 1:1 while the filesystem adapter emulates them.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default, dev)
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// ErrNotFound indicates the key has no stored artifact.
var ErrNotFound = errors.New("blob not found")

// ErrExists indicates a Put hit an already-occupied key.
var ErrExists = errors.New("blob already exists")

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string
}

// Info describes a stored artifact.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"sizeBytes"`
	ContentType  string    `json:"contentType,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// Store is the artifact storage contract. Put is create-only: overwriting a
// key requires an explicit Delete first, so a half-written artifact can
// never silently shadow a durable one.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	// Delete removes an artifact. Returns (false, nil) when the key was
	// already absent.
	Delete(ctx context.Context, key string) (bool, error)
	Driver() Driver
}
