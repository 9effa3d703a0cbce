package storage

import (
	"context"
	"errors"
	"time"
)

// ErrDestinationExists is returned by Rename when the target path is taken
var ErrDestinationExists = errors.New("destination already exists")

// FileInfo represents metadata about a file
type FileInfo struct {
	Path        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	Permissions uint32
}

// Backend defines the interface for storage operations.
// All paths are absolute.
type Backend interface {
	// List returns the entries of a directory, descending into
	// subdirectories when recursive is set
	List(ctx context.Context, dir string, recursive bool) ([]FileInfo, error)

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Rename moves a file to a new path. It never overwrites an existing
	// file and returns ErrDestinationExists instead.
	Rename(ctx context.Context, from, to string) error

	// Chtimes sets the access and modification times of a file
	Chtimes(ctx context.Context, path string, modTime time.Time) error

	// Close releases any resources held by the backend
	Close() error
}
