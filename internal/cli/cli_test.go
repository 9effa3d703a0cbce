package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sdejongh/renamer/pkg/config"
	"github.com/sdejongh/renamer/pkg/logging"
	"github.com/sdejongh/renamer/pkg/models"
)

func TestApplyFlagsToConfig(t *testing.T) {
	t.Cleanup(func() {
		renameFlags = RenameFlags{}
		globalFlags = GlobalFlags{}
	})

	t.Run("UnchangedFlagsKeepConfig", func(t *testing.T) {
		renameFlags = RenameFlags{}
		globalFlags = GlobalFlags{}

		cfg := config.Default()
		cfg.Template.People = "Alice"
		cfg.Rename.Recursive = true

		applyFlagsToConfig(cfg, func(string) bool { return false })

		if cfg.Template.People != "Alice" {
			t.Errorf("people = %q, want Alice", cfg.Template.People)
		}
		if !cfg.Rename.Recursive {
			t.Error("recursive from config should be kept")
		}
		if cfg.Performance.MaxWorkers != 5 {
			t.Errorf("workers = %d, want 5", cfg.Performance.MaxWorkers)
		}
	})

	t.Run("ChangedFlagsOverride", func(t *testing.T) {
		renameFlags = RenameFlags{
			People:     "",
			Event:      "Trip",
			Timestamp:  "modified",
			Parallel:   8,
			Exclude:    []string{"*.raw"},
			NoFixTimes: true,
			Output:     "json",
			LogFile:    "/tmp/renamer.log",
		}
		globalFlags = GlobalFlags{}

		changed := map[string]bool{"people": true, "event": true}
		cfg := config.Default()
		cfg.Template.People = "Alice"

		applyFlagsToConfig(cfg, func(name string) bool { return changed[name] })

		if cfg.Template.People != "" {
			t.Errorf("explicit empty --people should clear the section, got %q", cfg.Template.People)
		}
		if cfg.Template.Event != "Trip" {
			t.Errorf("event = %q, want Trip", cfg.Template.Event)
		}
		if cfg.Metadata.Timestamp != "modified" {
			t.Errorf("timestamp = %q, want modified", cfg.Metadata.Timestamp)
		}
		if cfg.Performance.MaxWorkers != 8 {
			t.Errorf("workers = %d, want 8", cfg.Performance.MaxWorkers)
		}
		if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*.raw" {
			t.Errorf("exclude = %v", cfg.Exclude)
		}
		if cfg.Rename.FixTimes {
			t.Error("--no-fix-times should disable time fixing")
		}
		if cfg.Output.Format != "json" {
			t.Errorf("output = %q, want json", cfg.Output.Format)
		}
		if !cfg.Logging.Enabled || cfg.Logging.File != "/tmp/renamer.log" {
			t.Errorf("log file should enable logging: %+v", cfg.Logging)
		}
	})

	t.Run("Quiet", func(t *testing.T) {
		renameFlags = RenameFlags{Progress: true}
		globalFlags = GlobalFlags{Quiet: true}

		cfg := config.Default()
		applyFlagsToConfig(cfg, func(name string) bool { return name == "progress" })

		if cfg.Output.Progress {
			t.Error("quiet should disable progress")
		}
		if !cfg.Output.Quiet {
			t.Error("quiet should be set")
		}
	})
}

func TestValidateRenameFlags(t *testing.T) {
	t.Cleanup(func() { renameFlags = RenameFlags{} })

	tests := []struct {
		name    string
		flags   RenameFlags
		args    []string
		wantErr bool
	}{
		{"Valid", RenameFlags{PlanFormat: "human"}, []string{"photos"}, false},
		{"NoArgs", RenameFlags{PlanFormat: "human"}, nil, true},
		{"BadTimestamp", RenameFlags{Timestamp: "exif", PlanFormat: "human"}, []string{"photos"}, true},
		{"BadOutput", RenameFlags{Output: "xml", PlanFormat: "human"}, []string{"photos"}, true},
		{"BadPlanFormat", RenameFlags{PlanFormat: "csv"}, []string{"photos"}, true},
		{"SlashDatePattern", RenameFlags{DatePattern: "dd/MM/yyyy", PlanFormat: "human"}, []string{"photos"}, true},
		{"SeparatorInEvent", RenameFlags{Event: "a/b", PlanFormat: "human"}, []string{"photos"}, true},
		{"NegativeTolerance", RenameFlags{Tolerance: -time.Second, PlanFormat: "human"}, []string{"photos"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renameFlags = tt.flags
			err := validateRenameFlags(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateRenameFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExitFor(t *testing.T) {
	if err := exitFor(models.StatusSuccess); err != nil {
		t.Errorf("success should not fail, got %v", err)
	}

	var exitErr *ExitError
	if err := exitFor(models.StatusPartial); !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("partial should exit 1, got %v", err)
	}
}

func TestCreateLoggerDisabled(t *testing.T) {
	cfg := config.Default()
	logger, err := createLogger(cfg)
	if err != nil {
		t.Fatalf("createLogger() error = %v", err)
	}
	if _, ok := logger.(*logging.NullLogger); !ok {
		t.Errorf("expected NullLogger, got %T", logger)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format   string
		progress bool
		want     string
	}{
		{"", false, "human"},
		{"human", true, "progress"},
		{"json", true, "json"},
		{"json", false, "json"},
	}

	for _, tt := range tests {
		cfg := config.Default()
		cfg.Output.Format = tt.format
		cfg.Output.Progress = tt.progress

		f, err := newFormatter(cfg)
		if err != nil {
			t.Fatalf("newFormatter(%q) error = %v", tt.format, err)
		}
		if f.Name() != tt.want {
			t.Errorf("newFormatter(%q, progress=%v) = %s, want %s", tt.format, tt.progress, f.Name(), tt.want)
		}
	}

	cfg := config.Default()
	cfg.Output.Format = "xml"
	if _, err := newFormatter(cfg); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestOpenJournal(t *testing.T) {
	cfg := config.Default()
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	var buf bytes.Buffer
	logger := logging.NewStreamLogger(&buf, logging.FormatText, logging.DebugLevel)

	j, err := openJournal(cfg, logger)
	if err != nil {
		t.Fatalf("openJournal() error = %v", err)
	}
	defer j.Close()

	if j.Path() != cfg.Journal.Path {
		t.Errorf("Path() = %q, want %q", j.Path(), cfg.Journal.Path)
	}
	if !strings.Contains(buf.String(), "journal opened path="+cfg.Journal.Path) {
		t.Errorf("open not logged: %q", buf.String())
	}
}

// setupCLI writes a config file pointing the journal into a temp dir and a
// photo directory with three files over two days
func setupCLI(t *testing.T) (photos string, stamps []time.Time) {
	t.Helper()

	root := t.TempDir()
	photos = filepath.Join(root, "photos")
	if err := os.MkdirAll(photos, 0755); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(root, "config.toml")
	cfgText := "exclude = []\n\n" +
		"[template]\n" +
		"separator = \"_\"\n" +
		"date_pattern = \"yyyy-MM-dd\"\n" +
		"event = \"Trip\"\n" +
		"index_pattern = \"$00$\"\n\n" +
		"[metadata]\n" +
		"timestamp = \"modified\"\n" +
		"extractors = [\"exif\"]\n\n" +
		"[journal]\n" +
		"enabled = true\n" +
		"path = '" + filepath.ToSlash(filepath.Join(root, "journal.db")) + "'\n"
	if err := os.WriteFile(cfgPath, []byte(cfgText), 0644); err != nil {
		t.Fatal(err)
	}

	globalFlags = GlobalFlags{ConfigFile: cfgPath, Quiet: true}
	t.Cleanup(func() { globalFlags = GlobalFlags{} })

	stamps = []time.Time{
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local),
		time.Date(2024, 5, 1, 11, 0, 0, 0, time.Local),
		time.Date(2024, 5, 2, 9, 0, 0, 0, time.Local),
	}
	for i, name := range []string{"IMG_0003.jpg", "IMG_0001.jpg", "IMG_0002.jpg"} {
		path := filepath.Join(photos, name)
		if err := os.WriteFile(path, []byte("not really a jpeg"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, stamps[i], stamps[i]); err != nil {
			t.Fatal(err)
		}
	}

	return photos, stamps
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlanCommandWritesPlanFile(t *testing.T) {
	photos, _ := setupCLI(t)
	planFile := filepath.Join(t.TempDir(), "plan.json")

	cmd := NewPlanCommand()
	cmd.SetArgs([]string{photos, "--plan-file", planFile, "--plan-format", "json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("plan failed: %v", err)
	}

	data, err := os.ReadFile(planFile)
	if err != nil {
		t.Fatal(err)
	}
	var plan models.RenamePlan
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatalf("plan file is not valid JSON: %v", err)
	}

	want := []string{"2024-05-01_Trip_1.jpg", "2024-05-01_Trip_2.jpg", "2024-05-02_Trip.jpg"}
	if len(plan.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(plan.Entries), len(want))
	}
	for i, e := range plan.Entries {
		if got := filepath.Base(e.DestPath); got != want[i] {
			t.Errorf("entry %d: dest = %q, want %q", i, got, want[i])
		}
	}

	// Planning never touches the files
	if got := listNames(t, photos); !equalNames(got, []string{"IMG_0001.jpg", "IMG_0002.jpg", "IMG_0003.jpg"}) {
		t.Errorf("files changed by plan: %v", got)
	}
}

func TestRunAndUndo(t *testing.T) {
	photos, _ := setupCLI(t)
	original := []string{"IMG_0001.jpg", "IMG_0002.jpg", "IMG_0003.jpg"}
	renamed := []string{"2024-05-01_Trip_1.jpg", "2024-05-01_Trip_2.jpg", "2024-05-02_Trip.jpg"}

	t.Run("DryRun", func(t *testing.T) {
		cmd := NewRunCommand()
		cmd.SetArgs([]string{photos, "--dry-run"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("dry run failed: %v", err)
		}
		if got := listNames(t, photos); !equalNames(got, original) {
			t.Errorf("dry run renamed files: %v", got)
		}
	})

	t.Run("Run", func(t *testing.T) {
		cmd := NewRunCommand()
		cmd.SetArgs([]string{photos})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if got := listNames(t, photos); !equalNames(got, renamed) {
			t.Errorf("after run: %v, want %v", got, renamed)
		}
	})

	t.Run("RerunIsStable", func(t *testing.T) {
		cmd := NewRunCommand()
		cmd.SetArgs([]string{photos})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("second run failed: %v", err)
		}
		if got := listNames(t, photos); !equalNames(got, renamed) {
			t.Errorf("second run changed names: %v", got)
		}
	})

	t.Run("History", func(t *testing.T) {
		cmd := NewHistoryCommand()
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("history failed: %v", err)
		}
	})

	t.Run("Undo", func(t *testing.T) {
		cmd := NewUndoCommand()
		cmd.SetArgs([]string{})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("undo failed: %v", err)
		}
		if got := listNames(t, photos); !equalNames(got, original) {
			t.Errorf("after undo: %v, want %v", got, original)
		}
	})
}

func TestConfigShowTemplate(t *testing.T) {
	setupCLI(t)

	var buf bytes.Buffer
	cmd := NewConfigCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"show", "--template"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config show failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	for i, want := range []string{
		`DatePattern:  "yyyy-MM-dd"`,
		`Event:        "Trip"`,
		`IndexPattern: "$00$"`,
		`People:       ""`,
		`Separator:    "_"`,
	} {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}
