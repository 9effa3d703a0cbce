package models

import (
	"time"
)

// TimestampSource tells where a FileRecord's timestamp came from
type TimestampSource string

const (
	// SourceModified means the file's last-modified time was used
	SourceModified TimestampSource = "modified"
	// SourceMetadata means a time read from embedded metadata was used
	SourceMetadata TimestampSource = "metadata"
)

// FileRecord represents one input file of a rename batch
type FileRecord struct {
	// SourcePath is the absolute path of the file
	SourcePath string

	// Timestamp is the date/time used for naming and grouping
	Timestamp time.Time

	// ModTime is the file's last modification time
	ModTime time.Time

	// MetadataTime is the capture time found in embedded metadata, if any
	MetadataTime *time.Time

	// TimestampSource tells which of the two times Timestamp holds
	TimestampSource TimestampSource

	// Metadata is the raw key/value mapping produced by extraction
	Metadata map[string]string

	// Size in bytes
	Size int64
}

// Corrected reports whether the chosen timestamp differs from the file's
// modification time, i.e. the modification time should be fixed on rename
func (r *FileRecord) Corrected() bool {
	return r.TimestampSource == SourceMetadata && !r.Timestamp.Equal(r.ModTime)
}

// Date returns the calendar date of the record's timestamp
func (r *FileRecord) Date() Date {
	return DateOf(r.Timestamp)
}

// Date is a calendar date without time of day
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
