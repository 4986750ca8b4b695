// Package storage implements the snapshot persistence channel: a key-value
// blob store the CRM reads once at startup and overwrites after every
// mutation.
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned (wrapped) by Get when nothing is stored under a key.
var ErrNotExist = errors.New("storage: key does not exist")

// Provider is a last-write-wins blob store keyed by string.
type Provider interface {
	// Get returns the blob stored under key, or an error wrapping ErrNotExist.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, data []byte) error
	// Close releases any underlying resources.
	Close() error
}

// Driver names a Provider implementation.
type Driver string

// Supported drivers.
const (
	DriverFS       Driver = "fs"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
	DriverMemory   Driver = "memory"
)

// Options selects and configures a driver for Open.
type Options struct {
	Driver      Driver
	FSPath      string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open constructs the Provider named by opts.Driver.
func Open(ctx context.Context, opts Options) (Provider, error) {
	switch opts.Driver {
	case DriverFS, "":
		return NewFS(opts.FSPath)
	case DriverSQLite:
		return OpenSQLite(opts.SQLitePath)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN)
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, errors.New("storage: unknown driver " + string(opts.Driver))
	}
}

// Compile-time interface checks.
var (
	_ Provider = (*FS)(nil)
	_ Provider = (*SQLite)(nil)
	_ Provider = (*Postgres)(nil)
	_ Provider = (*S3)(nil)
	_ Provider = (*Memory)(nil)
)
