// Package rename plans and applies batch renames: destination names are
// built from a naming template, numbered per calendar date and made unique
// against the filesystem and the rest of the batch.
package rename

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/models"
	"github.com/sdejongh/renamer/pkg/template"
)

// Planner computes destination paths for a batch of files
type Planner struct {
	resolver *Resolver
	logger   logging.Logger
	now      func() time.Time
}

// NewPlanner creates a planner resolving collisions with resolver
func NewPlanner(resolver *Resolver, logger logging.Logger) *Planner {
	return &Planner{
		resolver: resolver,
		logger:   logging.OrNull(logger),
		now:      time.Now,
	}
}

// Run returns one destination path per file, in input order. An empty
// string means the template rendered an empty name and the file keeps its
// name. Index numbers follow input order within each calendar date; the
// planner does not sort.
func (p *Planner) Run(ctx context.Context, files []models.FileRecord, tmpl models.NamingTemplate) ([]string, error) {
	// Grouping pass
	groupSizes := make(map[models.Date]int)
	for i := range files {
		groupSizes[files[i].Date()]++
	}

	expander := template.NewExpander(tmpl)
	indices := make(map[models.Date]int, len(groupSizes))
	reserved := make(map[string]bool, len(files))
	results := make([]string, len(files))

	// Naming pass
	for i := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f := &files[i]
		date := f.Date()
		indices[date]++

		indexText := ""
		if size := groupSizes[date]; size > 1 {
			indexText = expander.Index(indices[date], template.PadWidth(size))
		}

		name := expander.Expand(f.Timestamp, tmpl.People, tmpl.Event, indexText)
		if name == "" {
			p.logger.Debug(ctx, "empty name, keeping file", logging.Fields{"path": f.SourcePath})
			continue
		}

		dir := filepath.Dir(f.SourcePath)
		candidate := filepath.Join(dir, name+filepath.Ext(f.SourcePath))
		if filepath.Dir(candidate) != dir {
			// "." or ".." would leave the directory
			p.logger.Warn(ctx, "name leaves the directory, keeping file", logging.Fields{"path": f.SourcePath, "name": name})
			continue
		}
		dest, err := p.resolver.ResolveFor(ctx, candidate, f.SourcePath, reserved)
		if err != nil {
			return nil, err
		}

		reserved[dest] = true
		results[i] = dest
	}

	p.logger.Info(ctx, "batch planned", logging.Fields{
		"files":  len(files),
		"groups": len(groupSizes),
	})

	return results, nil
}

// Plan runs the planner and wraps the result with an operation ID and the
// per-file details needed to execute it
func (p *Planner) Plan(ctx context.Context, files []models.FileRecord, tmpl models.NamingTemplate) (*models.RenamePlan, error) {
	dests, err := p.Run(ctx, files, tmpl)
	if err != nil {
		return nil, err
	}

	plan := &models.RenamePlan{
		ID:        uuid.New().String(),
		Template:  tmpl,
		Entries:   make([]models.PlannedRename, len(files)),
		CreatedAt: p.now(),
	}

	for i := range files {
		f := &files[i]
		plan.Entries[i] = models.PlannedRename{
			SourcePath:      f.SourcePath,
			DestPath:        dests[i],
			Timestamp:       f.Timestamp,
			TimestampSource: f.TimestampSource,
			Touch:           f.Corrected(),
			ModTime:         f.ModTime,
		}
	}

	return plan, nil
}
