package config

import (
	"time"

	"github.com/sdejongh/renamer/pkg/metadata"
	"github.com/sdejongh/renamer/pkg/models"
	"github.com/sdejongh/renamer/pkg/template"
)

// Config represents the application configuration
type Config struct {
	Template    models.NamingTemplate `yaml:"template" toml:"template"`
	Metadata    MetadataConfig        `yaml:"metadata" toml:"metadata"`
	Rename      RenameConfig          `yaml:"rename" toml:"rename"`
	Performance PerformanceConfig     `yaml:"performance" toml:"performance"`
	Output      OutputConfig          `yaml:"output" toml:"output"`
	Logging     LoggingConfig         `yaml:"logging" toml:"logging"`
	Journal     JournalConfig         `yaml:"journal" toml:"journal"`
	Exclude     []string              `yaml:"exclude" toml:"exclude"`
}

// MetadataConfig holds timestamp and extraction settings
type MetadataConfig struct {
	Timestamp  string        `yaml:"timestamp" toml:"timestamp"`   // "auto", "modified" or "metadata"
	Tolerance  time.Duration `yaml:"tolerance" toml:"tolerance"`   // Max metadata/mtime drift in auto mode
	Keys       []string      `yaml:"keys" toml:"keys"`             // Metadata keys searched for a capture time
	Extractors []string      `yaml:"extractors" toml:"extractors"` // "exif", "tag", "exiftool"
	Exiftool   string        `yaml:"exiftool" toml:"exiftool"`     // exiftool binary
}

// RenameConfig holds rename-related settings
type RenameConfig struct {
	Recursive   bool `yaml:"recursive" toml:"recursive"`
	FixTimes    bool `yaml:"fix_times" toml:"fix_times"` // Set mtime to the metadata time when it wins
	MaxAttempts int  `yaml:"max_attempts" toml:"max_attempts"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	MaxWorkers int `yaml:"max_workers" toml:"max_workers"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" toml:"format"`     // "human" or "json"
	Progress bool   `yaml:"progress" toml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet" toml:"quiet"`       // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled" toml:"enabled"`
	Format     string `yaml:"format" toml:"format"` // "json" or "text"
	Level      string `yaml:"level" toml:"level"`   // "debug", "info", "warn", "error"
	File       string `yaml:"file" toml:"file"`     // Log file path (empty = stderr)
	MaxSize    int64  `yaml:"max_size" toml:"max_size"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

// JournalConfig holds undo journal settings
type JournalConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Path     string `yaml:"path" toml:"path"`           // Empty = journal.db in ConfigDir()
	KeepDays int    `yaml:"keep_days" toml:"keep_days"` // 0 = keep forever
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Template: models.DefaultTemplate(),
		Metadata: MetadataConfig{
			Timestamp:  string(metadata.ModeAuto),
			Tolerance:  metadata.DefaultTolerance,
			Keys:       append([]string(nil), metadata.DefaultKeys...),
			Extractors: []string{"exif", "tag", "exiftool"},
			Exiftool:   "exiftool",
		},
		Rename: RenameConfig{
			Recursive:   false,
			FixTimes:    true,
			MaxAttempts: 10000,
		},
		Performance: PerformanceConfig{
			MaxWorkers: 5,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
		Journal: JournalConfig{
			Enabled:  true,
			Path:     "",
			KeepDays: 0,
		},
		Exclude: []string{
			"*.tmp",
			"*.xmp",
			"*.thm",
			".thumbnails/",
			"@eaDir/",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	if c.Rename.MaxAttempts < 1 {
		return &models.ValidationError{
			Field:   "rename.max_attempts",
			Message: "must be at least 1",
		}
	}

	if _, err := metadata.ParseMode(c.Metadata.Timestamp); err != nil {
		return &models.ValidationError{
			Field:   "metadata.timestamp",
			Message: "must be 'auto', 'modified', or 'metadata'",
		}
	}

	if c.Metadata.Tolerance < 0 {
		return &models.ValidationError{
			Field:   "metadata.tolerance",
			Message: "must not be negative",
		}
	}

	validExtractors := map[string]bool{"exif": true, "tag": true, "exiftool": true}
	for _, e := range c.Metadata.Extractors {
		if !validExtractors[e] {
			return &models.ValidationError{
				Field:   "metadata.extractors",
				Message: "unknown extractor '" + e + "' (must be 'exif', 'tag', or 'exiftool')",
			}
		}
	}

	for _, field := range []struct{ name, value string }{
		{"template.separator", c.Template.Separator},
		{"template.people", c.Template.People},
		{"template.event", c.Template.Event},
		{"template.index_pattern", c.Template.IndexPattern},
	} {
		if template.ContainsSeparator(field.value) {
			return &models.ValidationError{
				Field:   field.name,
				Message: "must not contain a path separator",
			}
		}
	}

	if template.ContainsSeparator(template.SampleDate(c.Template.DatePattern)) {
		return &models.ValidationError{
			Field:   "template.date_pattern",
			Message: "must not render a path separator",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Journal.KeepDays < 0 {
		return &models.ValidationError{
			Field:   "journal.keep_days",
			Message: "must not be negative",
		}
	}

	return nil
}
