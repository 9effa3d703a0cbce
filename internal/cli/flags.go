package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/renamer/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (logs to stderr unless --log-file is set)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
}

// RenameFlags holds the flags shared by the plan and run commands
type RenameFlags struct {
	// Template
	Separator    string
	DatePattern  string
	People       string
	Event        string
	IndexPattern string

	// Input
	Timestamp string
	Tolerance time.Duration
	Exiftool  string
	Exclude   []string
	Recursive bool
	Parallel  int

	// Execution
	DryRun     bool
	NoFixTimes bool
	NoJournal  bool

	// Output
	Output     string
	Progress   bool
	PlanFile   string
	PlanFormat string

	// Logging
	LogFile   string
	LogFormat string
	LogLevel  string
}

var renameFlags RenameFlags

// addRenameFlags registers the template, input, output and logging flags
func addRenameFlags(cmd *cobra.Command) {
	renameFlags = RenameFlags{}
	flags := cmd.Flags()

	flags.StringVar(&renameFlags.Separator, "separator", "", "string placed between name sections")
	flags.StringVar(&renameFlags.DatePattern, "date-pattern", "", "date section pattern (e.g. \"yyyy-MM-dd\")")
	flags.StringVar(&renameFlags.People, "people", "", "people section")
	flags.StringVar(&renameFlags.Event, "event", "", "event section")
	flags.StringVar(&renameFlags.IndexPattern, "index-pattern", "", "index section; $00$ is the padded index, $0$ the plain one")

	flags.StringVar(&renameFlags.Timestamp, "timestamp", "", "timestamp source: auto, modified, metadata")
	flags.DurationVar(&renameFlags.Tolerance, "tolerance", 0, "metadata/modified time drift tolerated in auto mode (e.g. \"1m\")")
	flags.StringVar(&renameFlags.Exiftool, "exiftool", "", "exiftool binary")
	flags.StringSliceVar(&renameFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	flags.BoolVarP(&renameFlags.Recursive, "recursive", "r", false, "descend into subdirectories")
	flags.IntVarP(&renameFlags.Parallel, "parallel", "p", 0, "number of parallel metadata workers (default: 5)")
	flags.BoolVar(&renameFlags.NoFixTimes, "no-fix-times", false, "keep modification times even when the metadata time wins")

	flags.StringVarP(&renameFlags.Output, "output", "o", "", "output format: human, json")
	flags.BoolVar(&renameFlags.Progress, "progress", false, "show progress bars")
	flags.StringVar(&renameFlags.PlanFile, "plan-file", "", "write the rename plan to file")
	flags.StringVar(&renameFlags.PlanFormat, "plan-format", "human", "plan file format: human, json")

	flags.StringVar(&renameFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	flags.StringVar(&renameFlags.LogFormat, "log-format", "", "log format: text, json")
	flags.StringVar(&renameFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}
