package models

import (
	"time"
)

// PlannedRename is one entry of a rename plan
type PlannedRename struct {
	// SourcePath is the file being renamed
	SourcePath string `json:"source"`

	// DestPath is the planned destination; empty means no rename
	DestPath string `json:"dest"`

	// Timestamp is the time the name was built from
	Timestamp time.Time `json:"timestamp"`

	// TimestampSource tells where Timestamp came from
	TimestampSource TimestampSource `json:"timestamp_source,omitempty"`

	// Touch is set when the file's modification time must be set to Timestamp
	Touch bool `json:"touch,omitempty"`

	// ModTime is the modification time before any correction
	ModTime time.Time `json:"mod_time"`
}

// IsNoop reports whether executing this entry would change nothing on disk
func (p *PlannedRename) IsNoop() bool {
	return !p.Touch && !p.Renames()
}

// Renames reports whether the file moves to a new path
func (p *PlannedRename) Renames() bool {
	return p.DestPath != "" && p.DestPath != p.SourcePath
}

// RenamePlan is the result of planning a batch
type RenamePlan struct {
	ID        string          `json:"id"`
	Template  NamingTemplate  `json:"template"`
	Entries   []PlannedRename `json:"entries"`
	CreatedAt time.Time       `json:"created_at"`
}

// Destinations returns the planned destination paths in input order
func (p *RenamePlan) Destinations() []string {
	dests := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		dests[i] = e.DestPath
	}
	return dests
}
