package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// ProjectFileName is the project file looked up in the working directory.
const ProjectFileName = ".focus.yaml"

// projectFile mirrors the flags that make sense to pin per project.
type projectFile struct {
	File          *string  `yaml:"file"`
	Backup        *string  `yaml:"backup"`
	Name          *string  `yaml:"name"`
	Marker        *string  `yaml:"marker"`
	Anchor        *string  `yaml:"anchor"`
	Keyword       *string  `yaml:"keyword"`
	Scan          *string  `yaml:"scan"`
	LookupDirs    []string `yaml:"lookup_dirs"`
	Report        *string  `yaml:"report"`
	Format        *string  `yaml:"format"`
	Nvim          *bool    `yaml:"nvim"`
	RestoreBackup *bool    `yaml:"restore_backup"`
}

// applyProjectFile fills every flag the user did not set from the project
// file. A missing default project file is not an error.
func applyProjectFile(cfg *Config, flags *pflag.FlagSet) error {
	path := cfg.ConfigPath
	if path == "" {
		path = ProjectFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && cfg.ConfigPath == "" {
			return nil
		}
		return fmt.Errorf("failed to read project file: %w", err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("failed to parse project file %s: %w", path, err)
	}

	setString := func(flag string, dst *string, v *string) {
		if v != nil && !flags.Changed(flag) {
			*dst = *v
		}
	}
	setString("file", &cfg.File, pf.File)
	setString("backup", &cfg.Backup, pf.Backup)
	setString("name", &cfg.Name, pf.Name)
	setString("marker", &cfg.Marker, pf.Marker)
	setString("anchor", &cfg.Anchor, pf.Anchor)
	setString("keyword", &cfg.Keyword, pf.Keyword)
	setString("scan", &cfg.Scan, pf.Scan)
	setString("format", &cfg.Format, pf.Format)

	// The report path only applies when --report-out asks for a report.
	if cfg.ReportOut != "" {
		setString("report", &cfg.Report, pf.Report)
	}
	if len(pf.LookupDirs) > 0 && !flags.Changed("lookup-dir") {
		cfg.LookupDirs = pf.LookupDirs
	}
	setBool := func(flag string, dst *bool, v *bool) {
		if v != nil && !flags.Changed(flag) {
			*dst = *v
		}
	}
	setBool("nvim", &cfg.Nvim, pf.Nvim)
	setBool("restore-backup", &cfg.RestoreBackup, pf.RestoreBackup)
	return nil
}
