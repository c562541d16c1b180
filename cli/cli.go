package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sokinpui/focus/internal/transform"
)

// DefaultFile is the test file worked on when --file is not given.
const DefaultFile = "lib/bigint.test.js"

// ErrInvalidFlags wraps parse errors that pflag has already printed.
var ErrInvalidFlags = errors.New("invalid flags")

// Config holds all the command-line flag values.
type Config struct {
	File          string
	Backup        string
	RestoreBackup bool
	Name          string
	Marker        string
	Anchor        string
	Keyword       string
	Scan          string
	DryRun        bool
	List          bool
	Nvim          bool
	LookupDirs    []string
	Undo          bool
	Redo          bool
	Report        string
	ReportOut     string
	Format        string
	Copy          bool
	NoAnimation   bool
	ConfigPath    string
}

// BackupPath returns the explicit backup path or the conventional sibling
// of the resolved target.
func (c *Config) BackupPath(target string) string {
	if c.Backup != "" {
		return c.Backup
	}
	return target + ".backup"
}

// TransformOptions converts the flag values for the transformer.
func (c *Config) TransformOptions() transform.Options {
	return transform.Options{
		Marker:  c.Marker,
		Anchor:  c.Anchor,
		Keyword: c.Keyword,
		Name:    c.Name,
		Scan:    transform.ScanMode(c.Scan),
	}
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg, err := ParseArgs(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	return cfg, err
}

// ParseArgs parses args, then fills flags that were not set from the
// project file.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	flags := pflag.NewFlagSet("focus", pflag.ContinueOnError)

	// Target
	flags.StringVarP(&cfg.File, "file", "f", DefaultFile, "Test file containing the disabled region.")
	flags.StringVarP(&cfg.Backup, "backup", "B", "", "Backup restored on failure (default: <file>.backup).")
	flags.BoolVar(&cfg.RestoreBackup, "restore-backup", false, "On failure restore the file from the backup, which must exist, instead of its content before this run.")
	flags.StringSliceVarP(&cfg.LookupDirs, "lookup-dir", "l", []string{}, "Directories to look for the test file in (default: current directory).")

	// Region and group
	flags.StringVarP(&cfg.Name, "name", "n", transform.DefaultName, "Group to activate.")
	flags.StringVarP(&cfg.Marker, "marker", "m", transform.DefaultMarker, "Literal text that opens the disabled region.")
	flags.StringVarP(&cfg.Anchor, "anchor", "a", transform.DefaultAnchor, "Group that directly follows the disabled region.")
	flags.StringVarP(&cfg.Keyword, "keyword", "k", transform.DefaultKeyword, "Call that introduces a group.")
	flags.StringVarP(&cfg.Scan, "scan", "s", string(transform.ScanBalanced), "How to find a group's end: 'balanced' or 'heuristic'.")

	// Modes
	flags.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Print the change as a unified diff without writing.")
	flags.BoolVarP(&cfg.List, "list", "L", false, "List the groups in the disabled region.")
	flags.BoolVar(&cfg.Nvim, "nvim", false, "Write through Neovim so open buffers are updated.")
	flags.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last activation.")
	flags.BoolVarP(&cfg.Redo, "redo", "R", false, "Redo the last undone activation.")

	// Report
	flags.StringVarP(&cfg.Report, "report", "r", "", "Print failed tests from a Vitest JSON report ('-' for stdin).")
	flags.StringVarP(&cfg.ReportOut, "report-out", "o", "", "Save failed test details to this file instead of printing.")
	flags.StringVar(&cfg.Format, "format", "text", "Report format: 'text', 'markdown' or 'html'.")
	flags.BoolVarP(&cfg.Copy, "copy", "c", false, "Copy the formatted report to the clipboard.")

	flags.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the spinner and interactive summary.")
	flags.StringVar(&cfg.ConfigPath, "config", "", "Project file with default flag values (default: ./"+ProjectFileName+").")

	flags.Usage = func() {
		fmt.Println("Usage: focus [flags]")
		fmt.Println("\nActivate one group of a comment-disabled block of tests and re-disable the rest.")
		fmt.Println("\nExample: focus -f lib/bigint.test.js -n add")
		fmt.Println("         focus -r test-results.json -o failed_tests_details.txt")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	if err := applyProjectFile(cfg, flags); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// Validate mutually exclusive flags
	if c.Undo && c.Redo {
		return fmt.Errorf("error: --undo and --redo are mutually exclusive")
	}
	modes := 0
	for _, set := range []bool{c.Undo || c.Redo, c.DryRun, c.List, c.Report != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("error: --undo/--redo, --dry-run, --list and --report are mutually exclusive")
	}
	if c.ReportOut != "" && c.Report == "" {
		return fmt.Errorf("error: --report-out requires --report")
	}
	if c.File == "" {
		return fmt.Errorf("error: --file is empty")
	}

	switch c.Format {
	case "text", "markdown", "html":
	default:
		return fmt.Errorf("error: unknown --format %q", c.Format)
	}

	if c.Report == "" {
		if err := c.TransformOptions().Validate(); err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}
