package focus

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/focus/cli"
	"github.com/sokinpui/focus/internal/fs"
	"github.com/sokinpui/focus/internal/state"
	"github.com/sokinpui/focus/internal/transform"
	"github.com/sokinpui/focus/internal/ui"
)

const disabledFile = `import { describe, it, expect } from 'vitest';

/* // Comment out ALL other describe blocks
describe('constructor', () => {
  it('creates', () => {
    expect(1).toBe(1);
  });
});

describe('add', () => {
  it('adds', () => {
    expect(1 + 1).toBe(2);
  });
});
*/
describe('Precision Methods', () => {
  it('rounds', () => {
    expect(1).toBe(1);
  });
});
`

const activatedFile = `import { describe, it, expect } from 'vitest';

// // Comment out ALL other describe blocks
describe('constructor', () => {
  it('creates', () => {
    expect(1).toBe(1);
  });
});
/*

describe('add', () => {
  it('adds', () => {
    expect(1 + 1).toBe(2);
  });
});
*/
describe('Precision Methods', () => {
  it('rounds', () => {
    expect(1).toBe(1);
  });
});
`

func init() {
	ui.Quiet = true
}

type fixture struct {
	dir  string
	file string
	app  *App
	cfg  *cli.Config
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "bigint.test.js")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	cfg := Config{File: file}.cliConfig()
	sm, err := state.NewAt(dir)
	require.NoError(t, err)
	return &fixture{dir: dir, file: file, app: newApp(cfg, sm), cfg: cfg}
}

func (f *fixture) read(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.file)
	require.NoError(t, err)
	return string(data)
}

func TestActivate(t *testing.T) {
	f := newFixture(t, disabledFile)

	summary, err := f.app.Execute()
	require.NoError(t, err)

	assert.Equal(t, activatedFile, f.read(t))
	assert.Equal(t, "constructor", summary.Activated)
	assert.Equal(t, []string{"add"}, summary.Disabled)
	assert.Equal(t, []string{"Successfully uncommented 'constructor' test suite and re-commented others."}, summary.Messages)

	backup, err := os.ReadFile(f.file + ".backup")
	require.NoError(t, err)
	assert.Equal(t, disabledFile, string(backup))
}

func TestActivateTwiceLeavesFileUnchanged(t *testing.T) {
	f := newFixture(t, disabledFile)

	_, err := f.app.Execute()
	require.NoError(t, err)

	summary, err := f.app.Execute()
	require.ErrorIs(t, err, transform.ErrRegionNotFound)
	assert.Equal(t, activatedFile, f.read(t))
	assert.Equal(t, []string{
		"Could not find the main comment block pattern.",
		"Restored backup.",
	}, summary.Messages)

	backup, err := os.ReadFile(f.file + ".backup")
	require.NoError(t, err)
	assert.Equal(t, disabledFile, string(backup), "the first backup is kept")
}

func TestActivateLeavesExistingBackup(t *testing.T) {
	const pristine = "// pristine copy kept by the caller\n"

	for _, name := range []string{"constructor", "multiply"} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, disabledFile)
			f.cfg.Name = name
			require.NoError(t, os.WriteFile(f.file+".backup", []byte(pristine), 0644))

			_, _ = f.app.Execute()

			backup, err := os.ReadFile(f.file + ".backup")
			require.NoError(t, err)
			assert.Equal(t, pristine, string(backup))
		})
	}
}

func TestActivateMissingGroup(t *testing.T) {
	f := newFixture(t, disabledFile)
	f.cfg.Name = "multiply"

	summary, err := f.app.Execute()
	require.ErrorIs(t, err, transform.ErrSubBlockNotFound)

	assert.Equal(t, disabledFile, f.read(t))
	assert.Equal(t, []string{
		"Could not find the 'multiply' describe block within the main comment block.",
		"Restored backup.",
	}, summary.Messages)
	assert.Len(t, summary.Failed, 1)

	op, err := f.app.stateManager.GetOperationToUndo()
	require.NoError(t, err)
	assert.Nil(t, op, "failed activations must not be recorded")
}

func TestActivateRestoreBackup(t *testing.T) {
	t.Run("missing backup", func(t *testing.T) {
		f := newFixture(t, disabledFile)
		f.cfg.RestoreBackup = true

		_, err := f.app.Execute()
		require.ErrorIs(t, err, fs.ErrBackupMissing)
		assert.Equal(t, disabledFile, f.read(t))
	})

	t.Run("restores existing backup", func(t *testing.T) {
		f := newFixture(t, strings.Replace(disabledFile, "'constructor'", "'ctor'", 1))
		f.cfg.RestoreBackup = true
		require.NoError(t, os.WriteFile(f.file+".backup", []byte(disabledFile), 0644))

		_, err := f.app.Execute()
		require.ErrorIs(t, err, transform.ErrSubBlockNotFound)
		assert.Equal(t, disabledFile, f.read(t))
	})
}

func TestDryRunWritesNothing(t *testing.T) {
	f := newFixture(t, disabledFile)
	f.cfg.DryRun = true

	summary, err := f.app.Execute()
	require.NoError(t, err)

	assert.Contains(t, summary.Output, "-/* // Comment out ALL other describe blocks")
	assert.Contains(t, summary.Output, "+// // Comment out ALL other describe blocks")
	assert.Equal(t, disabledFile, f.read(t))
	assert.NoFileExists(t, f.file+".backup")
}

func TestListGroups(t *testing.T) {
	f := newFixture(t, disabledFile)
	f.cfg.List = true

	summary, err := f.app.Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"constructor", "add"}, summary.Messages)
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t, disabledFile)

	_, err := f.app.Execute()
	require.NoError(t, err)

	f.cfg.Undo = true
	summary, err := f.app.Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"Undid activation of 'constructor'."}, summary.Messages)
	assert.Equal(t, disabledFile, f.read(t))

	summary, err = f.app.Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"No operation to undo."}, summary.Messages)

	f.cfg.Undo, f.cfg.Redo = false, true
	summary, err = f.app.Execute()
	require.NoError(t, err)
	assert.Equal(t, "constructor", summary.Activated)
	assert.Equal(t, activatedFile, f.read(t))
}

func TestUndoRefusesEditedFile(t *testing.T) {
	f := newFixture(t, disabledFile)

	_, err := f.app.Execute()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(f.file, []byte(activatedFile+"// edited\n"), 0644))

	f.cfg.Undo = true
	_, err = f.app.Execute()
	require.Error(t, err)
	assert.Equal(t, activatedFile+"// edited\n", f.read(t))

	// The failed undo keeps the entry current.
	f.cfg.Undo, f.cfg.Redo = false, true
	summary, err := f.app.Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"No operation to redo."}, summary.Messages)
}

const resultsJSON = `{
  "numFailedTests": 2,
  "testResults": [
    {
      "name": "/repo/lib/bigint.test.js",
      "status": "failed",
      "assertionResults": [
        {"title": "creates", "status": "failed", "failureMessages": ["expected 1 to be 2"]},
        {"title": "adds", "status": "passed", "failureMessages": []},
        {"title": "rounds", "status": "failed", "failureMessages": ["\u001b[31mboom\u001b[39m"]}
      ]
    }
  ]
}`

func TestReportPrint(t *testing.T) {
	f := newFixture(t, disabledFile)
	results := filepath.Join(f.dir, "test-results.json")
	require.NoError(t, os.WriteFile(results, []byte(resultsJSON), 0644))
	f.cfg.Report = results

	summary, err := f.app.Execute()
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(summary.Output, "Test: "))
	assert.Contains(t, summary.Output, "Error Message 1: boom\n")
	assert.Contains(t, summary.Output, "Total failed tests reported by Vitest: 2\n")
	assert.Contains(t, summary.Output, "Total failed assertions parsed from details: 2\n")
}

func TestReportSave(t *testing.T) {
	f := newFixture(t, disabledFile)
	results := filepath.Join(f.dir, "test-results.json")
	require.NoError(t, os.WriteFile(results, []byte(resultsJSON), 0644))
	f.cfg.Report = results
	f.cfg.ReportOut = filepath.Join(f.dir, "failed.txt")

	summary, err := f.app.Execute()
	require.NoError(t, err)
	assert.Equal(t, []string{"Failed test details saved to " + f.cfg.ReportOut}, summary.Messages)

	saved, err := os.ReadFile(f.cfg.ReportOut)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(saved), "Test: "))
	assert.NotContains(t, string(saved), "Location:")
}

func TestReportMissingResults(t *testing.T) {
	f := newFixture(t, disabledFile)
	missing := filepath.Join(f.dir, "nope.json")
	f.cfg.Report = missing
	f.cfg.ReportOut = filepath.Join(f.dir, "failed.txt")

	_, err := f.app.Execute()
	require.Error(t, err)

	saved, err := os.ReadFile(f.cfg.ReportOut)
	require.NoError(t, err)
	assert.Equal(t, "Error: Test results file not found at "+missing+"\n", string(saved))
}

type failingWriter struct{}

func (failingWriter) Write(string, string) error {
	return errors.New("disk full")
}

// truncatingWriter leaves a partial file behind before failing.
type truncatingWriter struct{}

func (truncatingWriter) Write(path, content string) error {
	if err := os.WriteFile(path, []byte(content[:10]), 0644); err != nil {
		return err
	}
	return errors.New("disk full")
}

func TestActivateRestoresOnWriteFailure(t *testing.T) {
	f := newFixture(t, disabledFile)
	f.app.openWriter = func() (Writer, func(), error) {
		return failingWriter{}, func() {}, nil
	}

	summary, err := f.app.Execute()
	require.Error(t, err)
	assert.Equal(t, disabledFile, f.read(t))
	assert.Equal(t, "Restored backup.", summary.Messages[len(summary.Messages)-1])
}

func TestActivateRollsBackPartialWrite(t *testing.T) {
	f := newFixture(t, disabledFile)
	require.NoError(t, os.WriteFile(f.file+".backup", []byte("// older pristine copy\n"), 0644))
	f.app.openWriter = func() (Writer, func(), error) {
		return truncatingWriter{}, func() {}, nil
	}

	_, err := f.app.Execute()
	require.Error(t, err)
	assert.Equal(t, disabledFile, f.read(t), "content before the run is put back")
}
