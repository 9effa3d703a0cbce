package metadata

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
)

// TagExtractor reads audio/video container tags (ID3, MP4 atoms, FLAC,
// Ogg) with dhowden/tag
type TagExtractor struct{}

// NewTagExtractor creates a tag extractor
func NewTagExtractor() *TagExtractor {
	return &TagExtractor{}
}

// Extract reads the tags of path. Files without tags yield no data.
func (e *TagExtractor) Extract(ctx context.Context, path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	d := Data{}
	m, err := tag.ReadFrom(f)
	if err != nil {
		// No tags or an unsupported container: nothing to contribute
		return d, nil
	}

	add := func(key, val string) {
		if val != "" {
			d[key] = val
		}
	}

	add("Tag Format", string(m.Format()))
	add("File Type", string(m.FileType()))
	add("Title", m.Title())
	add("Artist", m.Artist())
	add("Album", m.Album())
	add("Genre", m.Genre())
	if m.Year() > 0 {
		add("Year", strconv.Itoa(m.Year()))
	}

	for k, v := range m.Raw() {
		if s, ok := v.(string); ok {
			if _, exists := d[k]; !exists {
				add(k, s)
			}
		}
	}
	return d, nil
}
