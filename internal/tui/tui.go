package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/focus/focus"
	"github.com/sokinpui/focus/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Executor runs one focus operation.
type Executor interface {
	Execute() (model.Summary, error)
}

// --- Messages ---
type resultMsg struct {
	summary model.Summary
	err     error
}

// --- Model ---
type Model struct {
	app     Executor
	spinner spinner.Model
	state   state
	summary model.Summary
	err     error
}

type state int

const (
	stateProcessing state = iota
	stateDone
)

func New(app Executor) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:     app,
		spinner: s,
		state:   stateProcessing,
	}
}

// Err returns the error of the finished operation.
func (m Model) Err() error {
	return m.err
}

// Summary returns the outcome of the finished operation. Its Output and
// Messages are not part of the view; print them after the program exits.
func (m Model) Summary() model.Summary {
	return m.summary
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case resultMsg:
		m.state = stateDone
		m.summary = msg.summary
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	case stateDone:
		// Printed by the caller once the program has exited.
		return ""
	default:
		return ""
	}
}

// Render styles the status of an operation: what was activated, modified
// or failed. Output and Messages are printed separately, before it.
func Render(summary model.Summary, err error) string {
	var b strings.Builder

	hasContent := summary.Output != "" || len(summary.Messages) > 0
	if summary.Activated != "" {
		hasContent = true
		b.WriteString(headerStyle.Render(fmt.Sprintf("Activated '%s' in %s", summary.Activated, summary.Path)))
		b.WriteString("\n")
	}
	if len(summary.Disabled) > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("Still disabled: %s", strings.Join(summary.Disabled, ", "))))
		b.WriteString("\n")
	}
	if len(summary.Modified) > 0 {
		hasContent = true
		b.WriteString(successStyle.Render("Modified:"))
		b.WriteString("\n")
		for _, f := range summary.Modified {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	// Diagnostics already explain the failure.
	if err != nil && len(summary.Messages) == 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Error: ", err.Error()))
		b.WriteString("\n")
	}

	if !hasContent {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) runApp() tea.Msg {
	summary, err := m.app.Execute()
	var detailed *focus.DetailedError
	if errors.As(err, &detailed) {
		// The TUI will exit, so we can print to stderr here for the stack trace.
		fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
	}
	return resultMsg{summary: summary, err: err}
}
