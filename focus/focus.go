package focus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/sokinpui/focus/cli"
	"github.com/sokinpui/focus/internal/fs"
	"github.com/sokinpui/focus/internal/nvim"
	"github.com/sokinpui/focus/internal/patcher"
	"github.com/sokinpui/focus/internal/report"
	"github.com/sokinpui/focus/internal/source"
	"github.com/sokinpui/focus/internal/state"
	"github.com/sokinpui/focus/internal/transform"
	"github.com/sokinpui/focus/internal/ui"
	"github.com/sokinpui/focus/model"
)

// Writer persists new file content.
type Writer interface {
	Write(path, content string) error
}

// fileWriter writes straight to disk.
type fileWriter struct{}

func (fileWriter) Write(path, content string) error {
	return fs.WriteFile(path, []byte(content), fs.FileMode(path))
}

// App orchestrates the entire application logic.
type App struct {
	cfg            *cli.Config
	stateManager   *state.Manager
	pathResolver   *fs.PathResolver
	sourceProvider *source.SourceProvider
	openWriter     func() (Writer, func(), error)
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	stateManager, err := state.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}
	return newApp(cfg, stateManager), nil
}

func newApp(cfg *cli.Config, stateManager *state.Manager) *App {
	a := &App{
		cfg:            cfg,
		stateManager:   stateManager,
		pathResolver:   fs.NewPathResolver(cfg.LookupDirs),
		sourceProvider: source.New(),
	}
	a.openWriter = a.defaultWriter
	return a
}

func (a *App) defaultWriter() (Writer, func(), error) {
	if !a.cfg.Nvim {
		return fileWriter{}, func() {}, nil
	}
	manager, err := nvim.New()
	if err != nil {
		return nil, nil, err
	}
	return manager, manager.Close, nil
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Undo:
		return a.undoLastOperation()
	case a.cfg.Redo:
		return a.redoLastOperation()
	case a.cfg.Report != "":
		return a.processReport()
	case a.cfg.List:
		return a.listGroups()
	case a.cfg.DryRun:
		return a.printDiff()
	default:
		return a.activate()
	}
}

func (a *App) targetPath() string {
	return a.pathResolver.Resolve(a.cfg.File)
}

func (a *App) readTarget(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read test file: %w", err)
	}
	return string(content), nil
}

// activate moves the configured group out of the disabled region and
// persists the file, restoring the backup if the structure does not match.
func (a *App) activate() (model.Summary, error) {
	path := a.targetPath()
	backup := a.cfg.BackupPath(path)
	summary := model.Summary{Path: a.relativize(path)}

	if _, err := os.Stat(path); err != nil {
		summary.Failed = append(summary.Failed, summary.Path)
		return summary, fmt.Errorf("test file %s: %w", path, err)
	}

	created, err := fs.EnsureBackup(path, backup, !a.cfg.RestoreBackup)
	if err != nil {
		summary.Failed = append(summary.Failed, summary.Path)
		return summary, err
	}
	if created {
		ui.Info("Created backup %s", a.relativize(backup))
	}

	content, err := a.readTarget(path)
	if err != nil {
		return summary, err
	}
	rollback := func(err error) (model.Summary, error) {
		return a.restore(summary, path, backup, content, err)
	}

	opts := a.cfg.TransformOptions()
	ui.Header("--- Activating '%s' in %s ---", opts.Name, summary.Path)
	res, err := transform.Transform(content, opts)
	if err != nil {
		return rollback(err)
	}

	if err := a.write(path, res.Text); err != nil {
		return rollback(err)
	}

	op := state.Operation{
		Path:       path,
		Backup:     backup,
		Name:       opts.Name,
		Marker:     opts.Marker,
		Anchor:     opts.Anchor,
		Keyword:    opts.Keyword,
		Scan:       string(opts.Scan),
		HashBefore: fs.HashString(content),
		HashAfter:  fs.HashString(res.Text),
	}
	if err := a.stateManager.Write(op, content); err != nil {
		ui.Warning("Could not record history, undo will not be available: %v", err)
	}

	summary.Add(fmt.Sprintf("Successfully uncommented '%s' test suite and re-commented others.", opts.Name))
	summary.Activated = opts.Name
	summary.Disabled = res.Disabled
	summary.Modified = []string{summary.Path}
	return summary, nil
}

func (a *App) write(path, content string) error {
	w, closeFn, err := a.openWriter()
	if err != nil {
		return err
	}
	defer closeFn()
	return w.Write(path, content)
}

// restore reports err on stdout and puts the file back as it was before the
// run, or as the backup holds it with --restore-backup.
func (a *App) restore(summary model.Summary, path, backup, before string, err error) (model.Summary, error) {
	summary.Add(a.diagnostic(err))
	summary.Failed = append(summary.Failed, summary.Path)

	var rerr error
	if a.cfg.RestoreBackup {
		rerr = fs.Restore(backup, path)
	} else {
		rerr = fs.RestoreContent(path, before)
	}
	if rerr != nil {
		summary.Add(fmt.Sprintf("Could not restore backup: %v", rerr))
		return summary, errors.Join(err, rerr)
	}
	summary.Add("Restored backup.")
	return summary, err
}

// diagnostic names the stage that failed.
func (a *App) diagnostic(err error) string {
	name, keyword := a.cfg.Name, a.cfg.Keyword
	switch {
	case errors.Is(err, transform.ErrRegionNotFound):
		return "Could not find the main comment block pattern."
	case errors.Is(err, transform.ErrAmbiguousRegion):
		return "Found more than one main comment block pattern."
	case errors.Is(err, transform.ErrSubBlockNotFound):
		return fmt.Sprintf("Could not find the '%s' %s block within the main comment block.", name, keyword)
	case errors.Is(err, transform.ErrAmbiguousSubBlock):
		return fmt.Sprintf("Found more than one '%s' %s block within the main comment block.", name, keyword)
	case errors.Is(err, transform.ErrUnbalancedSubBlock):
		return fmt.Sprintf("Could not find the end of the '%s' %s block within the main comment block.", name, keyword)
	default:
		return fmt.Sprintf("Failed to update %s: %v", a.cfg.File, err)
	}
}

// printDiff shows what activate would change without writing anything.
func (a *App) printDiff() (model.Summary, error) {
	path := a.targetPath()
	summary := model.Summary{Path: a.relativize(path)}

	content, err := a.readTarget(path)
	if err != nil {
		return summary, err
	}

	res, err := transform.Transform(content, a.cfg.TransformOptions())
	if err != nil {
		summary.Add(a.diagnostic(err))
		return summary, err
	}

	diff, err := patcher.UnifiedDiff(filepath.ToSlash(summary.Path), content, res.Text)
	if err != nil {
		return summary, err
	}
	summary.Output = diff
	summary.Disabled = res.Disabled
	return summary, nil
}

// listGroups prints the groups inside the disabled region.
func (a *App) listGroups() (model.Summary, error) {
	path := a.targetPath()
	summary := model.Summary{Path: a.relativize(path)}

	content, err := a.readTarget(path)
	if err != nil {
		return summary, err
	}

	names, err := transform.List(content, a.cfg.TransformOptions())
	if err != nil {
		summary.Add(a.diagnostic(err))
		return summary, err
	}
	for _, name := range names {
		summary.Add(name)
	}
	return summary, nil
}

// processReport formats the failed tests of a results file, printing them or
// saving them to --report-out.
func (a *App) processReport() (model.Summary, error) {
	var summary model.Summary
	path := a.cfg.Report

	results, err := a.loadResults(path)
	if err != nil {
		diag := report.Diagnostic(err, path)
		if a.cfg.ReportOut != "" {
			if werr := os.WriteFile(a.cfg.ReportOut, []byte(diag+"\n"), 0644); werr != nil {
				return summary, errors.Join(err, werr)
			}
			return summary, err
		}
		summary.Add(diag)
		return summary, err
	}

	format, err := report.ParseFormat(a.cfg.Format)
	if err != nil {
		return summary, err
	}
	layout := report.LayoutPrint
	if a.cfg.ReportOut != "" {
		layout = report.LayoutSave
	}
	text, failed, err := report.Render(results, format, layout)
	if err != nil {
		return summary, err
	}

	if a.cfg.Copy {
		if err := a.sourceProvider.CopyToClipboard(text); err != nil {
			ui.Warning("%v", err)
		} else {
			ui.Success("Copied %d failed test(s) to the clipboard.", failed)
		}
	}

	if a.cfg.ReportOut == "" {
		summary.Output = text
		return summary, nil
	}
	if err := os.WriteFile(a.cfg.ReportOut, []byte(text), 0644); err != nil {
		return summary, fmt.Errorf("failed to write %s: %w", a.cfg.ReportOut, err)
	}
	summary.Add(fmt.Sprintf("Failed test details saved to %s", a.cfg.ReportOut))
	return summary, nil
}

func (a *App) loadResults(path string) (*report.Results, error) {
	if path != source.Stdin {
		return report.Load(path)
	}
	data, err := a.sourceProvider.GetContent(path)
	if err != nil {
		return nil, err
	}
	return report.Parse(data, "stdin")
}

// undoLastOperation puts back the file as it was before the last activation.
func (a *App) undoLastOperation() (model.Summary, error) {
	op, err := a.stateManager.GetOperationToUndo()
	if err != nil {
		return model.Summary{}, err
	}
	if op == nil {
		return model.Summary{Messages: []string{"No operation to undo."}}, nil
	}

	summary := model.Summary{Path: a.relativize(op.Path)}
	fail := func(err error) (model.Summary, error) {
		summary.Failed = append(summary.Failed, summary.Path)
		if aerr := a.stateManager.Advance(); aerr != nil {
			err = errors.Join(err, aerr)
		}
		return summary, err
	}

	current, err := fs.GetFileSHA256(op.Path)
	if err != nil {
		return fail(err)
	}
	if current != op.HashAfter {
		return fail(fmt.Errorf("%s changed since '%s' was activated, refusing to undo", summary.Path, op.Name))
	}
	pristine, err := a.stateManager.Snapshot(op)
	if err != nil {
		return fail(err)
	}
	if fs.HashString(pristine) != op.HashBefore {
		return fail(fmt.Errorf("snapshot for %s does not match the file before activation", summary.Path))
	}

	if err := a.write(op.Path, pristine); err != nil {
		return fail(err)
	}

	summary.Add(fmt.Sprintf("Undid activation of '%s'.", op.Name))
	summary.Modified = []string{summary.Path}
	return summary, nil
}

// redoLastOperation repeats the last undone activation.
func (a *App) redoLastOperation() (model.Summary, error) {
	op, err := a.stateManager.GetOperationToRedo()
	if err != nil {
		return model.Summary{}, err
	}
	if op == nil {
		return model.Summary{Messages: []string{"No operation to redo."}}, nil
	}

	summary := model.Summary{Path: a.relativize(op.Path)}
	fail := func(err error) (model.Summary, error) {
		summary.Failed = append(summary.Failed, summary.Path)
		if rerr := a.stateManager.Rewind(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return summary, err
	}

	content, err := a.readTarget(op.Path)
	if err != nil {
		return fail(err)
	}
	if fs.HashString(content) != op.HashBefore {
		return fail(fmt.Errorf("%s changed since '%s' was undone, refusing to redo", summary.Path, op.Name))
	}

	res, err := transform.Transform(content, transform.Options{
		Marker:  op.Marker,
		Anchor:  op.Anchor,
		Keyword: op.Keyword,
		Name:    op.Name,
		Scan:    transform.ScanMode(op.Scan),
	})
	if err != nil {
		return fail(err)
	}
	if fs.HashString(res.Text) != op.HashAfter {
		return fail(fmt.Errorf("redoing '%s' produced different content than recorded", op.Name))
	}
	if err := a.write(op.Path, res.Text); err != nil {
		return fail(err)
	}

	summary.Add(fmt.Sprintf("Redid activation of '%s'.", op.Name))
	summary.Activated = op.Name
	summary.Disabled = res.Disabled
	summary.Modified = []string{summary.Path}
	return summary, nil
}

// relativize converts an absolute path to be relative to the current
// working directory for cleaner display.
func (a *App) relativize(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}
