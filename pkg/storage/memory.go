package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory Backend used by tests and dry runs.
// Directories are implicit: any prefix of a stored file path is a directory.
type Memory struct {
	mu    sync.Mutex
	files map[string]*FileInfo
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{files: make(map[string]*FileInfo)}
}

// AddFile registers a file
func (m *Memory) AddFile(path string, size int64, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.files[path] = &FileInfo{Path: path, Size: size, ModTime: modTime, Permissions: 0644}
}

// Paths returns all stored file paths, sorted
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// List returns the files below dir
func (m *Memory) List(ctx context.Context, dir string, recursive bool) ([]FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := filepath.Clean(dir) + string(filepath.Separator)
	var files []FileInfo
	for p, fi := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		if !recursive && strings.ContainsRune(p[len(prefix):], filepath.Separator) {
			continue
		}
		files = append(files, *fi)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Exists checks if a file or implicit directory exists
func (m *Memory) Exists(ctx context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.existsLocked(filepath.Clean(path)), nil
}

// Stat returns file metadata
func (m *Memory) Stat(ctx context.Context, path string) (*FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if fi, ok := m.files[path]; ok {
		cp := *fi
		return &cp, nil
	}
	if m.existsLocked(path) {
		return &FileInfo{Path: path, IsDir: true, Permissions: 0755}, nil
	}
	return nil, fmt.Errorf("failed to stat file: %w", os.ErrNotExist)
}

// Rename moves a file without overwriting an existing one
func (m *Memory) Rename(ctx context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	from, to = filepath.Clean(from), filepath.Clean(to)
	fi, ok := m.files[from]
	if !ok {
		return fmt.Errorf("failed to rename: %w", os.ErrNotExist)
	}
	if m.existsLocked(to) {
		return fmt.Errorf("rename %s: %w: %s", from, ErrDestinationExists, to)
	}

	delete(m.files, from)
	fi.Path = to
	m.files[to] = fi
	return nil
}

// Chtimes sets the modification time of a file
func (m *Memory) Chtimes(ctx context.Context, path string, modTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fi, ok := m.files[filepath.Clean(path)]
	if !ok {
		return fmt.Errorf("failed to set modification time: %w", os.ErrNotExist)
	}
	fi.ModTime = modTime
	return nil
}

// Close does nothing
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) existsLocked(path string) bool {
	if _, ok := m.files[path]; ok {
		return true
	}
	prefix := path + string(filepath.Separator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
