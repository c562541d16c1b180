package focus

import (
	"fmt"

	"github.com/sokinpui/focus/cli"
	"github.com/sokinpui/focus/internal/transform"
	"github.com/sokinpui/focus/model"
)

// Config for using focus as a library. Empty fields take the CLI defaults.
type Config struct {
	// Test file containing the disabled region.
	File string
	// Backup restored on failure. Defaults to File + ".backup".
	Backup string
	// Group to activate.
	Name string
	// Group that directly follows the disabled region.
	Anchor string
	// Either "balanced" or "heuristic".
	Scan string
}

func (c Config) cliConfig() *cli.Config {
	cfg := &cli.Config{
		File:    cli.DefaultFile,
		Backup:  c.Backup,
		Name:    transform.DefaultName,
		Marker:  transform.DefaultMarker,
		Anchor:  transform.DefaultAnchor,
		Keyword: transform.DefaultKeyword,
		Scan:    string(transform.ScanBalanced),
		Format:  "text",
	}
	if c.File != "" {
		cfg.File = c.File
	}
	if c.Name != "" {
		cfg.Name = c.Name
	}
	if c.Anchor != "" {
		cfg.Anchor = c.Anchor
	}
	if c.Scan != "" {
		cfg.Scan = c.Scan
	}
	return cfg
}

// Activate uncomments the configured group in the test file and re-comments
// the others. On a structural mismatch the file is restored from its backup
// and the returned summary carries the diagnostic lines.
func Activate(config Config) (model.Summary, error) {
	cfg := config.cliConfig()
	if err := cfg.TransformOptions().Validate(); err != nil {
		return model.Summary{}, err
	}

	app, err := New(cfg)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize focus app: %w", err)
	}
	return app.activate()
}
