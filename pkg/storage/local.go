package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Local is a filesystem-based storage backend
type Local struct{}

// NewLocal creates a new local filesystem backend
func NewLocal() *Local {
	return &Local{}
}

// List returns the entries of dir
func (l *Local) List(ctx context.Context, dir string, recursive bool) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p == dir {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		files = append(files, fileInfoFrom(p, info))

		if d.IsDir() && !recursive {
			return filepath.SkipDir
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	fi := fileInfoFrom(path, info)
	return &fi, nil
}

// Rename moves a file without overwriting an existing one
func (l *Local) Rename(ctx context.Context, from, to string) error {
	exists, err := l.Exists(ctx, to)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("rename %s: %w: %s", from, ErrDestinationExists, to)
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}
	return nil
}

// Chtimes sets the access and modification times of a file
func (l *Local) Chtimes(ctx context.Context, path string, modTime time.Time) error {
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		return fmt.Errorf("failed to set modification time: %w", err)
	}
	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func fileInfoFrom(path string, info fs.FileInfo) FileInfo {
	return FileInfo{
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
	}
}
