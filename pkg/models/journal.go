package models

import (
	"time"
)

// Batch is one executed rename plan as stored in the journal
type Batch struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Template  NamingTemplate `json:"template"`
	Renamed   int            `json:"renamed"`
	UndoneAt  *time.Time     `json:"undone_at,omitempty"`
}

// Undone reports whether the batch has been reverted
func (b *Batch) Undone() bool {
	return b.UndoneAt != nil
}

// JournalEntry is one applied rename of a batch
type JournalEntry struct {
	BatchID    string    `json:"batch_id"`
	Seq        int       `json:"seq"`
	SourcePath string    `json:"source"`
	DestPath   string    `json:"dest"`
	Touched    bool      `json:"touched"`
	OldModTime time.Time `json:"old_mod_time"`
	NewModTime time.Time `json:"new_mod_time"`
	AppliedAt  time.Time `json:"applied_at"`
}
