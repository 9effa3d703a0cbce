package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"
)

// MetadataView is what the metadata command shows for one file
type MetadataView struct {
	Path            string            `json:"path"`
	ModTime         time.Time         `json:"mod_time"`
	MetadataTime    *time.Time        `json:"metadata_time,omitempty"`
	Timestamp       time.Time         `json:"timestamp"`
	TimestampSource string            `json:"timestamp_source"`
	Metadata        map[string]string `json:"metadata"`
}

// WriteMetadata prints extracted metadata and the chosen timestamp
func WriteMetadata(w io.Writer, view MetadataView, format string) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(view)
	}

	keys := make([]string, 0, len(view.Metadata))
	width := 0
	for k := range view.Metadata {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "File:      %s\n", view.Path)
	fmt.Fprintf(w, "Modified:  %s\n", view.ModTime.Format(time.DateTime))
	if view.MetadataTime != nil {
		fmt.Fprintf(w, "Metadata:  %s\n", view.MetadataTime.Format(time.DateTime))
	} else {
		fmt.Fprintf(w, "Metadata:  (none)\n")
	}
	fmt.Fprintf(w, "Using:     %s (%s)\n", view.Timestamp.Format(time.DateTime), view.TimestampSource)

	if len(keys) > 0 {
		fmt.Fprintf(w, "\n")
		for _, k := range keys {
			fmt.Fprintf(w, "%-*s : %s\n", width, k, view.Metadata[k])
		}
	}
	return nil
}
