package rename

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/models"
)

// DefaultMaxAttempts bounds the collision loop
const DefaultMaxAttempts = 10000

// counterPattern matches a collision marker such as "(3)"
var counterPattern = regexp.MustCompile(`\((\d+)\)`)

// Checker reports whether a path is already taken on disk.
// storage.Backend satisfies it.
type Checker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// Resolver turns candidate paths into paths that are free both on disk and
// among the destinations already planned in the batch
type Resolver struct {
	checker     Checker
	maxAttempts int
	logger      logging.Logger
}

// NewResolver creates a resolver checking the disk through checker
func NewResolver(checker Checker, logger logging.Logger) *Resolver {
	return &Resolver{
		checker:     checker,
		maxAttempts: DefaultMaxAttempts,
		logger:      logging.OrNull(logger),
	}
}

// SetMaxAttempts changes the retry ceiling
func (r *Resolver) SetMaxAttempts(n int) {
	if n < 1 {
		n = 1
	}
	r.maxAttempts = n
}

// Resolve returns candidate, or the first free variant of it.
// reserved holds the destinations planned earlier in the batch; it is only read.
func (r *Resolver) Resolve(ctx context.Context, candidate string, reserved map[string]bool) (string, error) {
	return r.ResolveFor(ctx, candidate, "", reserved)
}

// ResolveFor is Resolve for a file currently at self: self counts as free
// unless another file already reserved it, so renaming a file to the name
// it already has is not a collision.
func (r *Resolver) ResolveFor(ctx context.Context, candidate, self string, reserved map[string]bool) (string, error) {
	path := candidate
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}

		if !r.taken(ctx, path, self, reserved) {
			if attempt > 0 {
				r.logger.Debug(ctx, "collision resolved", logging.Fields{
					"candidate": candidate,
					"path":      path,
					"attempts":  attempt,
				})
			}
			return path, nil
		}

		if attempt+1 >= r.maxAttempts {
			return "", &models.PlanningError{
				Kind:     models.ErrRetriesExhausted,
				Path:     candidate,
				Attempts: r.maxAttempts,
			}
		}
		path = NextCandidate(path)
	}
}

func (r *Resolver) taken(ctx context.Context, path, self string, reserved map[string]bool) bool {
	if reserved[path] {
		return true
	}
	if self != "" && path == self {
		return false
	}
	if r.checker == nil {
		return false
	}
	exists, err := r.checker.Exists(ctx, path)
	if err != nil {
		// Unknown state: never plan onto it
		r.logger.Warn(ctx, "existence check failed", logging.Fields{"path": path, "error": err.Error()})
		return true
	}
	return exists
}

// NextCandidate derives the next collision variant of path. The first
// "(N)" marker in the file name becomes "(N+1)"; without a marker " (1)" is
// inserted before the extension.
func NextCandidate(path string) string {
	dir, file := filepath.Split(path)

	loc := counterPattern.FindStringSubmatchIndex(file)
	if loc == nil {
		ext := filepath.Ext(file)
		return dir + file[:len(file)-len(ext)] + " (1)" + ext
	}

	digits := file[loc[2]:loc[3]]
	return dir + file[:loc[0]] + "(" + increment(digits) + ")" + file[loc[1]:]
}

// increment adds one to a decimal string of any length
func increment(digits string) string {
	b := []byte(strings.TrimLeft(digits, "0"))
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b)
		}
		b[i] = '0'
	}
	return "1" + string(b)
}
