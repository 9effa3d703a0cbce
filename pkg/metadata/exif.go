package metadata

import (
	"context"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ExifExtractor reads EXIF tags from JPEG and TIFF based files
type ExifExtractor struct{}

// NewExifExtractor creates an EXIF extractor
func NewExifExtractor() *ExifExtractor {
	return &ExifExtractor{}
}

// Extract decodes the EXIF block of path. Files without EXIF yield no data.
func (e *ExifExtractor) Extract(ctx context.Context, path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	d := Data{}
	x, err := exif.Decode(f)
	if err != nil {
		return d, nil
	}

	if err := x.Walk(exifWalker{data: d}); err != nil {
		return nil, fmt.Errorf("failed to walk exif: %w", err)
	}
	return d, nil
}

type exifWalker struct {
	data Data
}

func (w exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	val := tag.String()
	// Remove surrounding quotes from string values
	if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
		val = val[1 : len(val)-1]
	}
	if _, exists := w.data[string(name)]; !exists {
		w.data[string(name)] = val
	}
	return nil
}
