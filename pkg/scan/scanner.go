// Package scan turns command line arguments into the timestamped file
// records a rename batch is planned from.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/metadata"
	"github.com/sdejongh/renamer/pkg/models"
	"github.com/sdejongh/renamer/pkg/storage"
)

// ProgressFunc is called once per scanned file
type ProgressFunc func(done, total int, path string)

// Options configures a Scanner
type Options struct {
	Recursive bool
	Exclude   []string
	Workers   int
	Progress  ProgressFunc
}

// Scanner collects input files and builds their records
type Scanner struct {
	backend   storage.Backend
	extractor metadata.Extractor
	resolver  *metadata.TimestampResolver
	matcher   *Matcher
	opts      Options
	logger    logging.Logger
}

// NewScanner creates a scanner
func NewScanner(backend storage.Backend, extractor metadata.Extractor, resolver *metadata.TimestampResolver, opts Options, logger logging.Logger) (*Scanner, error) {
	matcher, err := NewMatcher(opts.Exclude)
	if err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if resolver == nil {
		resolver = metadata.NewTimestampResolver(metadata.ModeAuto)
	}
	return &Scanner{
		backend:   backend,
		extractor: extractor,
		resolver:  resolver,
		matcher:   matcher,
		opts:      opts,
		logger:    logging.OrNull(logger),
	}, nil
}

// Collect expands args into absolute file paths. Directories are listed
// (recursively if configured), excluded paths dropped and duplicates removed;
// argument order is kept and directory contents are sorted.
func (s *Scanner) Collect(ctx context.Context, args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", arg, err)
		}

		info, err := s.backend.Stat(ctx, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}

		if !info.IsDir {
			if s.matcher.Match(filepath.Base(abs)) {
				s.logger.Debug(ctx, "excluded", logging.Fields{"path": abs})
				continue
			}
			add(abs)
			continue
		}

		entries, err := s.backend.List(ctx, abs, s.opts.Recursive)
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

		for _, e := range entries {
			if e.IsDir {
				continue
			}
			rel, err := filepath.Rel(abs, e.Path)
			if err != nil {
				rel = filepath.Base(e.Path)
			}
			if s.matcher.Match(rel) {
				s.logger.Debug(ctx, "excluded", logging.Fields{"path": e.Path})
				continue
			}
			add(e.Path)
		}
	}

	return paths, nil
}

// Scan builds one record per path, in path order. Files are processed by a
// bounded pool of workers; every record is complete when Scan returns.
// Metadata failures are logged and leave the record on its modification time.
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]models.FileRecord, error) {
	records := make([]models.FileRecord, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	var mu sync.Mutex
	semaphore := make(chan struct{}, s.opts.Workers)
	done := 0

	for i := range paths {
		// Acquire semaphore slot
		select {
		case semaphore <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		}
		wg.Add(1)

		go func(index int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			errs[index] = s.scanFile(ctx, paths[index], &records[index])

			if s.opts.Progress != nil {
				mu.Lock()
				done++
				s.opts.Progress(done, len(paths), paths[index])
				mu.Unlock()
			}
		}(i)
	}

	// Completion barrier
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info(ctx, "scan complete", logging.Fields{"files": len(records)})
	return records, nil
}

func (s *Scanner) scanFile(ctx context.Context, path string, rec *models.FileRecord) error {
	info, err := s.backend.Stat(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	rec.SourcePath = path
	rec.ModTime = info.ModTime
	rec.Size = info.Size

	if s.extractor != nil {
		data, err := s.extractor.Extract(ctx, path)
		if err != nil {
			s.logger.Warn(ctx, "metadata extraction failed", logging.Fields{"path": path, "error": err.Error()})
		}
		rec.Metadata = data
	}

	s.resolver.Apply(rec)

	if rec.Corrected() {
		s.logger.Debug(ctx, "timestamp taken from metadata", logging.Fields{
			"path":     path,
			"modified": rec.ModTime,
			"metadata": rec.Timestamp,
		})
	}
	return nil
}

// SortByTimestamp orders records by full timestamp, then path. The sort is
// stable so equal entries keep their scan order.
func SortByTimestamp(records []models.FileRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.SourcePath < b.SourcePath
	})
}
