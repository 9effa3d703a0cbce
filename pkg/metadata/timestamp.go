package metadata

import (
	"fmt"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
)

// Mode selects which timestamp a file is named after
type Mode string

const (
	// ModeAuto uses the metadata time when it disagrees with the
	// modification time by more than the tolerance
	ModeAuto Mode = "auto"
	// ModeModified always uses the modification time
	ModeModified Mode = "modified"
	// ModeMetadata uses the metadata time whenever one is found
	ModeMetadata Mode = "metadata"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeModified, ModeMetadata:
		return Mode(s), nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("invalid timestamp mode %q (must be auto, modified or metadata)", s)
}

// DefaultKeys are the metadata keys searched (fuzzily) for a capture time
var DefaultKeys = []string{"Create", "DateTimeOriginal", "DateTimeDigitized", "DateTime"}

// DefaultLayouts are the time layouts metadata values are parsed with
var DefaultLayouts = []string{
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// DefaultTolerance is how far metadata and modification time may differ
// before the metadata time wins in auto mode
const DefaultTolerance = 60 * time.Second

// TimestampResolver decides the naming timestamp of a file
type TimestampResolver struct {
	Keys      []string
	Layouts   []string
	Tolerance time.Duration
	Mode      Mode
	// Location is used for values without a zone. Nil means time.Local.
	Location *time.Location
}

// NewTimestampResolver creates a resolver with the default keys and layouts
func NewTimestampResolver(mode Mode) *TimestampResolver {
	return &TimestampResolver{
		Keys:      DefaultKeys,
		Layouts:   DefaultLayouts,
		Tolerance: DefaultTolerance,
		Mode:      mode,
	}
}

// MetadataTime returns the first parseable capture time found in d
func (r *TimestampResolver) MetadataTime(d Data) (time.Time, bool) {
	for _, key := range r.Keys {
		for _, val := range d.Matches(key) {
			if t, ok := r.parse(val); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func (r *TimestampResolver) parse(val string) (time.Time, bool) {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range r.Layouts {
		t, err := time.ParseInLocation(layout, val, loc)
		if err != nil {
			continue
		}
		// "0000:00:00 00:00:00" and friends
		if t.Year() < 1 {
			continue
		}
		return t.In(loc), true
	}
	return time.Time{}, false
}

// Apply fills the timestamp fields of rec from its ModTime and Metadata
func (r *TimestampResolver) Apply(rec *models.FileRecord) {
	rec.Timestamp = rec.ModTime
	rec.TimestampSource = models.SourceModified
	rec.MetadataTime = nil

	meta, ok := r.MetadataTime(Data(rec.Metadata))
	if !ok {
		return
	}
	rec.MetadataTime = &meta

	switch r.Mode {
	case ModeModified:
		return
	case ModeMetadata:
		rec.Timestamp = meta
		rec.TimestampSource = models.SourceMetadata
	default:
		diff := meta.Sub(rec.ModTime)
		if diff < 0 {
			diff = -diff
		}
		if diff > r.Tolerance {
			rec.Timestamp = meta
			rec.TimestampSource = models.SourceMetadata
		}
	}
}
