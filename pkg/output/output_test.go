package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
)

func testPlan() *models.RenamePlan {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &models.RenamePlan{
		ID:       "b7c1",
		Template: models.DefaultTemplate(),
		Entries: []models.PlannedRename{
			{SourcePath: "/p/IMG_1.jpg", DestPath: "/p/2024-05-01_1.jpg", Timestamp: ts, TimestampSource: models.SourceMetadata, Touch: true},
			{SourcePath: "/p/IMG_2.jpg", DestPath: "/p/2024-05-01_2.jpg", Timestamp: ts.Add(time.Hour), TimestampSource: models.SourceModified},
			{SourcePath: "/p/2024-05-02.jpg", DestPath: "/p/2024-05-02.jpg", Timestamp: ts.AddDate(0, 0, 1), TimestampSource: models.SourceModified},
		},
	}
}

func testReport() *models.RenameReport {
	return &models.RenameReport{
		OperationID: "b7c1",
		Duration:    1500 * time.Millisecond,
		Stats:       models.Statistics{FilesPlanned: 3, FilesRenamed: 1, FilesTouched: 1, FilesSkipped: 1, FilesErrored: 1},
		Status:      models.StatusPartial,
		Operations: []models.RenameOperation{
			{Entry: models.PlannedRename{SourcePath: "/p/a.jpg", DestPath: "/p/b.jpg"}, Action: models.ActionRename, Touched: true},
			{Entry: models.PlannedRename{SourcePath: "/p/c.jpg"}, Action: models.ActionSkip, Reason: "empty name"},
			{Entry: models.PlannedRename{SourcePath: "/p/d.jpg", DestPath: "/p/e.jpg"}, Action: models.ActionRename, Error: errors.New("permission denied")},
		},
		Errors: []models.RenameError{
			{FilePath: "/p/d.jpg", Operation: models.ActionRename, Error: "permission denied"},
		},
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "human", "json", "progress"} {
		f, err := New(name)
		if err != nil {
			t.Errorf("New(%q) error = %v", name, err)
			continue
		}
		want := name
		if want == "" {
			want = "human"
		}
		if f.Name() != want {
			t.Errorf("New(%q).Name() = %q", name, f.Name())
		}
	}

	if _, err := New("xml"); err == nil {
		t.Error("New(xml) should fail")
	}
}

func TestHumanFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewHumanFormatter()

	f.Start(&buf, "rename", 2)
	f.Progress(ProgressUpdate{Type: UpdateComplete, FilePath: "/p/a.jpg", DestPath: "/p/b.jpg", Touched: true, CurrentFile: 1})
	f.Progress(ProgressUpdate{Type: UpdateError, FilePath: "/p/d.jpg", CurrentFile: 2, Error: errors.New("permission denied")})
	f.Complete(testReport())

	out := buf.String()
	for _, want := range []string{
		"Renaming 2 files",
		"[1/2] ✓ /p/a.jpg -> /p/b.jpg (time fixed)",
		"[2/2] ✗ /p/d.jpg: permission denied",
		"Batch: b7c1",
		"Files renamed:  1",
		"Status: partial",
		"/p/d.jpg (rename): permission denied",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter()

	f.Start(&buf, "rename", 3)
	f.Progress(ProgressUpdate{Type: UpdateComplete, FilePath: "/p/a.jpg"})
	if buf.Len() != 0 {
		t.Fatalf("progress should not print, got %q", buf.String())
	}
	f.Complete(testReport())

	var data JSONReportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if data.BatchID != "b7c1" || data.Status != "partial" {
		t.Errorf("unexpected report header: %+v", data)
	}
	if data.Stats.FilesErrored != 1 || len(data.Errors) != 1 {
		t.Errorf("errors not reported: %+v", data)
	}
	if len(data.Operations) != 3 || data.Operations[2].Error != "permission denied" {
		t.Errorf("unexpected operations: %+v", data.Operations)
	}
	if data.Operations[1].Reason != "empty name" {
		t.Errorf("skip reason lost: %+v", data.Operations[1])
	}

	events := f.Events()
	if len(events) != 2 || events[0].Type != "start" || events[1].Type != "complete" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestWritePlan(t *testing.T) {
	t.Run("Human", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WritePlan(&buf, testPlan(), "human"); err != nil {
			t.Fatal(err)
		}
		out := buf.String()

		lines := strings.Split(strings.TrimSpace(out), "\n")
		if !strings.HasPrefix(lines[0], "From") {
			t.Errorf("missing header: %q", lines[0])
		}
		for _, want := range []string{
			"IMG_1.jpg",
			"2024-05-01_1.jpg",
			"metadata *",
			"(unchanged)",
			"3 files, 2 to rename, 1 modification times to fix (*)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}

		// Columns line up: "To" starts at the same offset on every row
		toCol := strings.Index(lines[0], "To")
		if !strings.HasPrefix(lines[2][toCol:], "2024-05-01_1.jpg") {
			t.Errorf("misaligned row: %q", lines[2])
		}
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WritePlan(&buf, testPlan(), "json"); err != nil {
			t.Fatal(err)
		}
		var plan models.RenamePlan
		if err := json.Unmarshal(buf.Bytes(), &plan); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if plan.ID != "b7c1" || len(plan.Entries) != 3 || !plan.Entries[0].Touch {
			t.Errorf("unexpected plan: %+v", plan)
		}
	})
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("short.jpg", 20); got != "short.jpg" {
		t.Errorf("truncateName() = %q", got)
	}
	got := truncateName("a-very-long-file-name.jpg", 10)
	if got != "...ame.jpg" {
		t.Errorf("truncateName() = %q, want ...ame.jpg", got)
	}
}

func TestWriteBatches(t *testing.T) {
	undone := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	batches := []models.Batch{
		{ID: "b2", CreatedAt: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), Renamed: 4},
		{ID: "b1", CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), Renamed: 2, UndoneAt: &undone},
	}

	var buf bytes.Buffer
	if err := WriteBatches(&buf, batches, "human"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "applied") || !strings.Contains(out, "undone 2024-06-01 12:00") {
		t.Errorf("unexpected output:\n%s", out)
	}

	buf.Reset()
	WriteBatches(&buf, nil, "human")
	if !strings.Contains(buf.String(), "No rename batches recorded") {
		t.Errorf("empty history message missing: %q", buf.String())
	}
}

func TestWriteMetadata(t *testing.T) {
	view := MetadataView{
		Path:            "/p/IMG_1.jpg",
		ModTime:         time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC),
		Timestamp:       time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC),
		TimestampSource: "modified",
		Metadata:        map[string]string{"Model": "X100", "Make": "Fuji"},
	}

	var buf bytes.Buffer
	if err := WriteMetadata(&buf, view, "human"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Metadata:  (none)") {
		t.Errorf("missing metadata time line:\n%s", out)
	}
	if strings.Index(out, "Make") > strings.Index(out, "Model") {
		t.Errorf("keys not sorted:\n%s", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		42 * time.Second:              "42s",
		3*time.Minute + 5*time.Second: "3m5s",
		2*time.Hour + 30*time.Minute:  "2h30m",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%s) = %q, want %q", d, got, want)
		}
	}
}
