package rename

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/sdejongh/renamer/pkg/models"
	"github.com/sdejongh/renamer/pkg/output"
	"github.com/sdejongh/renamer/pkg/storage"
)

type memJournal struct {
	batches []models.Batch
	entries []models.JournalEntry
	undone  map[string]time.Time
}

func newMemJournal() *memJournal {
	return &memJournal{undone: make(map[string]time.Time)}
}

func (j *memJournal) Begin(ctx context.Context, batch models.Batch) error {
	j.batches = append(j.batches, batch)
	return nil
}

func (j *memJournal) Record(ctx context.Context, entry models.JournalEntry) error {
	j.entries = append(j.entries, entry)
	return nil
}

func (j *memJournal) MarkUndone(ctx context.Context, batchID string, at time.Time) error {
	j.undone[batchID] = at
	return nil
}

type recordingFormatter struct {
	output.HumanFormatter
	updates []output.ProgressUpdate
}

func (f *recordingFormatter) Progress(update output.ProgressUpdate) error {
	f.updates = append(f.updates, update)
	return nil
}

var (
	oldTime = time.Date(2023, 3, 3, 3, 3, 3, 0, time.UTC)
	shot    = time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
)

func testPlan(backend *storage.Memory) *models.RenamePlan {
	backend.AddFile("/p/a.jpg", 1, shot)
	backend.AddFile("/p/b.jpg", 1, oldTime)
	backend.AddFile("/p/c.jpg", 1, shot)
	backend.AddFile("/p/2020-01-01.jpg", 1, shot)

	return &models.RenamePlan{
		ID:        "batch-1",
		CreatedAt: shot,
		Template:  models.DefaultTemplate(),
		Entries: []models.PlannedRename{
			{SourcePath: "/p/a.jpg", DestPath: "/p/x_1.jpg", Timestamp: shot, ModTime: shot},
			{SourcePath: "/p/b.jpg", DestPath: "/p/x_2.jpg", Timestamp: shot, ModTime: oldTime, Touch: true, TimestampSource: models.SourceMetadata},
			{SourcePath: "/p/c.jpg", DestPath: ""},
			{SourcePath: "/p/2020-01-01.jpg", DestPath: "/p/2020-01-01.jpg"},
		},
	}
}

func TestExecutor_Execute(t *testing.T) {
	backend := storage.NewMemory()
	plan := testPlan(backend)
	journal := newMemJournal()
	formatter := &recordingFormatter{}

	report, err := NewExecutor(backend, journal, formatter, nil).Execute(context.Background(), plan, false)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if report.Status != models.StatusSuccess {
		t.Errorf("Status = %s, errors: %v", report.Status, report.Errors)
	}
	want := models.Statistics{FilesPlanned: 4, FilesRenamed: 2, FilesTouched: 1, FilesSkipped: 2}
	if report.Stats != want {
		t.Errorf("Stats = %+v, want %+v", report.Stats, want)
	}

	wantPaths := []string{"/p/2020-01-01.jpg", "/p/c.jpg", "/p/x_1.jpg", "/p/x_2.jpg"}
	if got := backend.Paths(); !reflect.DeepEqual(got, wantPaths) {
		t.Errorf("paths after run = %v, want %v", got, wantPaths)
	}

	info, err := backend.Stat(context.Background(), "/p/x_2.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime.Equal(shot) {
		t.Errorf("b.jpg modification time = %v, want %v", info.ModTime, shot)
	}

	if len(journal.batches) != 1 || journal.batches[0].ID != "batch-1" {
		t.Errorf("journal batches = %+v", journal.batches)
	}
	if len(journal.entries) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(journal.entries))
	}
	if e := journal.entries[1]; e.Seq != 2 || !e.Touched || !e.OldModTime.Equal(oldTime) {
		t.Errorf("second journal entry = %+v", e)
	}

	if len(formatter.updates) != 4 {
		t.Errorf("expected 4 progress updates, got %d", len(formatter.updates))
	}
}

func TestExecutor_DryRun(t *testing.T) {
	backend := storage.NewMemory()
	plan := testPlan(backend)
	before := backend.Paths()
	journal := newMemJournal()

	report, err := NewExecutor(backend, journal, nil, nil).Execute(context.Background(), plan, true)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !report.DryRun || report.Status != models.StatusSuccess {
		t.Errorf("unexpected report: dry=%v status=%s", report.DryRun, report.Status)
	}
	if report.Stats.FilesRenamed != 2 || report.Stats.FilesTouched != 1 {
		t.Errorf("dry run should count would-be changes: %+v", report.Stats)
	}
	if !reflect.DeepEqual(backend.Paths(), before) {
		t.Error("dry run changed files")
	}
	if len(journal.batches) != 0 {
		t.Error("dry run must not write the journal")
	}
}

func TestExecutor_DestinationTaken(t *testing.T) {
	backend := storage.NewMemory()
	plan := testPlan(backend)
	// Appeared between planning and execution
	backend.AddFile("/p/x_2.jpg", 1, shot)

	report, err := NewExecutor(backend, nil, nil, nil).Execute(context.Background(), plan, false)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if report.Status != models.StatusPartial {
		t.Errorf("Status = %s, want partial", report.Status)
	}
	if report.Stats.FilesErrored != 1 || len(report.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", report.Errors)
	}
	if report.Errors[0].FilePath != "/p/b.jpg" {
		t.Errorf("error for %s", report.Errors[0].FilePath)
	}

	info, err := backend.Stat(context.Background(), "/p/b.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime.Equal(oldTime) {
		t.Errorf("failed rename should leave the modification time alone, got %v", info.ModTime)
	}
	if report.Operations[1].Touched {
		t.Error("operation should not be reported as touched")
	}
}

func TestExecutor_Cancelled(t *testing.T) {
	backend := storage.NewMemory()
	plan := testPlan(backend)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewExecutor(backend, nil, nil, nil).Execute(ctx, plan, false)
	if err != nil {
		t.Fatal(err)
	}
	if report.Status != models.StatusCancelled || report.Status.ExitCode() != 3 {
		t.Errorf("Status = %s", report.Status)
	}
}

func TestExecutor_Undo(t *testing.T) {
	backend := storage.NewMemory()
	plan := testPlan(backend)
	journal := newMemJournal()
	executor := NewExecutor(backend, journal, nil, nil)
	original := backend.Paths()

	if _, err := executor.Execute(context.Background(), plan, false); err != nil {
		t.Fatal(err)
	}

	report, err := executor.Undo(context.Background(), journal.batches[0], journal.entries)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if report.Status != models.StatusSuccess {
		t.Fatalf("Status = %s, errors: %v", report.Status, report.Errors)
	}
	if report.Stats.FilesRenamed != 2 || report.Stats.FilesTouched != 1 {
		t.Errorf("Stats = %+v", report.Stats)
	}

	if !reflect.DeepEqual(backend.Paths(), original) {
		t.Errorf("paths after undo = %v, want %v", backend.Paths(), original)
	}
	info, err := backend.Stat(context.Background(), "/p/b.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime.Equal(oldTime) {
		t.Errorf("modification time not restored: %v", info.ModTime)
	}

	// Reverse order
	if report.Operations[0].Entry.DestPath != "/p/b.jpg" {
		t.Errorf("undo should start with the last rename, got %+v", report.Operations[0].Entry)
	}

	if _, ok := journal.undone["batch-1"]; !ok {
		t.Error("batch not marked undone")
	}

	// A second undo finds everything in place
	again, err := executor.Undo(context.Background(), journal.batches[0], journal.entries)
	if err != nil {
		t.Fatal(err)
	}
	if again.Stats.FilesSkipped != 2 || again.Status != models.StatusSuccess {
		t.Errorf("repeated undo: %+v status=%s", again.Stats, again.Status)
	}
}

func TestExecutor_UndoBlocked(t *testing.T) {
	backend := storage.NewMemory()
	backend.AddFile("/p/new.jpg", 1, shot)
	backend.AddFile("/p/old.jpg", 1, shot)
	journal := newMemJournal()

	entries := []models.JournalEntry{{BatchID: "b", Seq: 1, SourcePath: "/p/old.jpg", DestPath: "/p/new.jpg"}}
	// old.jpg was recreated after the batch; new.jpg still exists, so the
	// original name is taken
	report, err := NewExecutor(backend, journal, nil, nil).Undo(context.Background(), models.Batch{ID: "b"}, entries)
	if err != nil {
		t.Fatal(err)
	}
	if report.Status != models.StatusFailed {
		t.Errorf("Status = %s, want failed", report.Status)
	}
	if _, ok := journal.undone["b"]; ok {
		t.Error("failed undo must not mark the batch undone")
	}
}
