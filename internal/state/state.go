package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/google/uuid"
)

const (
	stateDirName    = ".focus"
	stateFileName   = "state.json"
	SnapshotDirName = "snapshots"
)

// Operation records one activation so it can be undone or redone.
type Operation struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Path      string `json:"path"`
	Backup    string `json:"backup"`
	Name      string `json:"name"`
	Marker    string `json:"marker"`
	Anchor    string `json:"anchor"`
	Keyword   string `json:"keyword"`
	Scan      string `json:"scan"`
	// HashBefore and HashAfter are SHA256 hashes of the file around the activation.
	HashBefore string `json:"hash_before"`
	HashAfter  string `json:"hash_after"`
}

// State represents the entire state file.
type State struct {
	History      []Operation `json:"history"`
	CurrentIndex int         `json:"current_index"`
}

// Manager handles the lifecycle of the state file.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// findRepoRoot returns the root of the git worktree containing dir.
func findRepoRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// New creates and loads a state manager rooted at the enclosing git
// repository, or at the working directory outside of one.
func New() (*Manager, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get current working directory: %w", err)
	}
	rootDir, err := findRepoRoot(wd)
	if err != nil {
		rootDir = wd
	}
	return NewAt(rootDir)
}

// NewAt creates and loads a state manager whose state lives under rootDir.
func NewAt(rootDir string) (*Manager, error) {
	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	m.state = &State{CurrentIndex: -1, History: []Operation{}}

	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid state file %s: %w", m.statePath, err)
	}
	if s.CurrentIndex < -1 || s.CurrentIndex >= len(s.History) {
		return fmt.Errorf("invalid state file %s: index %d out of range", m.statePath, s.CurrentIndex)
	}
	m.state = &s
	return nil
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.statePath, data, 0644)
}

// Write adds a new operation to the history, dropping any undone entries.
// before is the file content prior to the operation and is kept as a
// snapshot for undo.
func (m *Manager) Write(op Operation, before string) error {
	if m.state.CurrentIndex < len(m.state.History)-1 {
		for _, dropped := range m.state.History[m.state.CurrentIndex+1:] {
			os.Remove(m.snapshotPath(dropped.ID))
		}
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}

	if op.ID == "" {
		op.ID = uuid.NewString()
	}
	if op.Timestamp == 0 {
		op.Timestamp = time.Now().UTC().Unix()
	}

	if err := os.MkdirAll(filepath.Join(m.StateDir, SnapshotDirName), 0755); err != nil {
		return fmt.Errorf("could not create snapshot directory: %w", err)
	}
	if err := os.WriteFile(m.snapshotPath(op.ID), []byte(before), 0644); err != nil {
		return fmt.Errorf("could not write snapshot: %w", err)
	}

	m.state.History = append(m.state.History, op)
	m.state.CurrentIndex++
	return m.save()
}

// Snapshot returns the file content recorded before op.
func (m *Manager) Snapshot(op *Operation) (string, error) {
	data, err := os.ReadFile(m.snapshotPath(op.ID))
	if err != nil {
		return "", fmt.Errorf("could not read snapshot for %s: %w", op.Path, err)
	}
	return string(data), nil
}

func (m *Manager) snapshotPath(id string) string {
	return filepath.Join(m.StateDir, SnapshotDirName, id)
}

// GetOperationToUndo gets the last operation and moves the history pointer back.
func (m *Manager) GetOperationToUndo() (*Operation, error) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	op := m.state.History[m.state.CurrentIndex]
	m.state.CurrentIndex--
	return &op, m.save()
}

// GetOperationToRedo gets the next operation and moves the history pointer forward.
func (m *Manager) GetOperationToRedo() (*Operation, error) {
	nextIndex := m.state.CurrentIndex + 1
	if nextIndex >= len(m.state.History) {
		return nil, nil
	}
	m.state.CurrentIndex = nextIndex
	op := m.state.History[m.state.CurrentIndex]
	return &op, m.save()
}

// Rewind moves the history pointer back after a failed redo.
func (m *Manager) Rewind() error {
	if m.state.CurrentIndex < 0 {
		return nil
	}
	m.state.CurrentIndex--
	return m.save()
}

// Advance moves the history pointer forward after a failed undo.
func (m *Manager) Advance() error {
	if m.state.CurrentIndex+1 >= len(m.state.History) {
		return nil
	}
	m.state.CurrentIndex++
	return m.save()
}
