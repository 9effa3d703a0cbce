package metadata

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExiftoolExtractor runs an external exiftool binary and parses its
// "Key : Value" output
type ExiftoolExtractor struct {
	// resolved binary, empty when it was not found
	binary string
}

// NewExiftoolExtractor creates an extractor for the exiftool binary at path
// (or found on PATH when path is a bare name). The binary is looked up once.
func NewExiftoolExtractor(path string) *ExiftoolExtractor {
	e := &ExiftoolExtractor{}
	if path != "" {
		if resolved, err := exec.LookPath(path); err == nil {
			e.binary = resolved
		}
	}
	return e
}

// Available reports whether the exiftool binary was found
func (e *ExiftoolExtractor) Available() bool {
	return e.binary != ""
}

// Extract runs exiftool on path. A missing binary yields no data.
func (e *ExiftoolExtractor) Extract(ctx context.Context, path string) (Data, error) {
	if !e.Available() {
		return Data{}, nil
	}

	out, err := exec.CommandContext(ctx, e.binary, path).Output()
	if err != nil {
		return nil, fmt.Errorf("exiftool failed on %s: %w", path, err)
	}
	return ParseExiftool(out), nil
}

// ParseExiftool parses exiftool's default output. Keys and values are
// trimmed with inner whitespace collapsed; the first occurrence of a key wins.
func ParseExiftool(output []byte) Data {
	d := Data{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := simplify(line[:idx])
		if key == "" {
			continue
		}
		if _, exists := d[key]; !exists {
			d[key] = simplify(line[idx+1:])
		}
	}
	return d
}

func simplify(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
