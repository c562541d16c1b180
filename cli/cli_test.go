package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/focus/internal/transform"
)

// chdirTemp changes the working directory to a fresh temp dir for the
// duration of a test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
	return dir
}

func TestParseArgsDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := ParseArgs(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultFile, cfg.File)
	assert.Equal(t, DefaultFile+".backup", cfg.BackupPath(cfg.File))
	assert.Equal(t, transform.DefaultOptions(), cfg.TransformOptions())
	assert.Equal(t, "text", cfg.Format)
}

func TestParseArgsFlags(t *testing.T) {
	chdirTemp(t)

	cfg, err := ParseArgs([]string{"-f", "test/math.test.js", "-n", "add", "-B", "/tmp/pristine.js", "-s", "heuristic", "-d"})
	require.NoError(t, err)

	assert.Equal(t, "test/math.test.js", cfg.File)
	assert.Equal(t, "/tmp/pristine.js", cfg.BackupPath(cfg.File))
	assert.Equal(t, "add", cfg.Name)
	assert.Equal(t, transform.ScanHeuristic, cfg.TransformOptions().Scan)
	assert.True(t, cfg.DryRun)
}

func TestParseArgsValidation(t *testing.T) {
	chdirTemp(t)

	tests := [][]string{
		{"--undo", "--redo"},
		{"--list", "--dry-run"},
		{"--report", "r.json", "--undo"},
		{"--report-out", "out.txt"},
		{"--format", "pdf"},
		{"--scan", "greedy"},
		{"--marker", "// not a block comment"},
		{"--name", ""},
	}
	for _, args := range tests {
		_, err := ParseArgs(args)
		assert.Error(t, err, "%v", args)
	}

	_, err := ParseArgs([]string{"--no-such-flag"})
	assert.ErrorIs(t, err, ErrInvalidFlags)
}

func TestProjectFile(t *testing.T) {
	dir := chdirTemp(t)
	content := `file: src/bigint.test.js
name: sub
anchor: Rounding
lookup_dirs: [lib, src]
report: results.json
nvim: true
restore_backup: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0644))

	cfg, err := ParseArgs([]string{"-n", "add"})
	require.NoError(t, err)

	assert.Equal(t, "src/bigint.test.js", cfg.File)
	assert.Equal(t, "add", cfg.Name, "explicit flags win over the project file")
	assert.Equal(t, "Rounding", cfg.Anchor)
	assert.Equal(t, []string{"lib", "src"}, cfg.LookupDirs)
	assert.True(t, cfg.Nvim)
	assert.True(t, cfg.RestoreBackup)
	assert.Empty(t, cfg.Report, "report path only applies with --report-out")

	cfg, err = ParseArgs([]string{"-o", "details.txt"})
	require.NoError(t, err)
	assert.Equal(t, "results.json", cfg.Report)
}

func TestExplicitProjectFileMustExist(t *testing.T) {
	chdirTemp(t)

	_, err := ParseArgs([]string{"--config", "missing.yaml"})
	assert.Error(t, err)
}

func TestProjectFileMalformed(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("name: [unclosed"), 0644))

	_, err := ParseArgs(nil)
	assert.Error(t, err)
}
