package scan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Matcher decides whether a path is excluded from a batch.
// Patterns support:
//   - Simple glob patterns: *.tmp, *.xmp
//   - Directory patterns: .thumbnails/, @eaDir/
//   - Path patterns: raw/*, **/cache/*
type Matcher struct {
	patterns []string
}

// NewMatcher validates and stores exclusion patterns
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		p = filepath.ToSlash(p)
		glob := strings.TrimPrefix(strings.TrimSuffix(p, "/"), "**/")
		if _, err := filepath.Match(glob, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether relativePath matches any pattern
func (m *Matcher) Match(relativePath string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	path := filepath.ToSlash(relativePath)
	base := filepath.Base(relativePath)

	for _, pattern := range m.patterns {
		switch {
		case strings.HasSuffix(pattern, "/"):
			// Directory pattern: any path component
			dir := strings.TrimSuffix(pattern, "/")
			if path == dir || strings.HasPrefix(path, dir+"/") || strings.Contains(path, "/"+dir+"/") {
				return true
			}

		case strings.HasPrefix(pattern, "**/"):
			suffix := strings.TrimPrefix(pattern, "**/")
			if globMatch(suffix, base) || path == suffix || strings.HasSuffix(path, "/"+suffix) {
				return true
			}
			if anyComponentMatches(path, suffix) {
				return true
			}

		case strings.Contains(pattern, "/"):
			if globMatch(pattern, path) || strings.HasSuffix(path, pattern) {
				return true
			}

		default:
			if globMatch(pattern, base) {
				return true
			}
		}
	}

	return false
}

func globMatch(pattern, name string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}

func anyComponentMatches(path, pattern string) bool {
	for _, part := range strings.Split(path, "/") {
		if globMatch(pattern, part) {
			return true
		}
	}
	return false
}
