package tui

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/focus/model"
)

type stubApp struct {
	summary model.Summary
	err     error
}

func (s stubApp) Execute() (model.Summary, error) {
	return s.summary, s.err
}

// gatedApp finishes only once release is closed.
type gatedApp struct {
	stubApp
	release chan struct{}
}

func (g gatedApp) Execute() (model.Summary, error) {
	<-g.release
	return g.stubApp.Execute()
}

func run(t *testing.T, app Executor) Model {
	t.Helper()
	m := New(app)
	updated, cmd := m.Update(m.runApp())
	require.NotNil(t, cmd)
	return updated.(Model)
}

func TestRenderSummary(t *testing.T) {
	m := run(t, stubApp{summary: model.Summary{
		Path:      "lib/bigint.test.js",
		Activated: "add",
		Disabled:  []string{"constructor"},
		Modified:  []string{"lib/bigint.test.js"},
		Messages:  []string{"Successfully uncommented 'add' test suite and re-commented others."},
	}})

	assert.NoError(t, m.Err())
	assert.Empty(t, m.View())

	out := Render(m.Summary(), m.Err())
	assert.Contains(t, out, "Activated 'add' in lib/bigint.test.js")
	assert.Contains(t, out, "constructor")
	assert.NotContains(t, out, "Successfully uncommented")
}

func TestRenderError(t *testing.T) {
	m := run(t, stubApp{err: errors.New("boom")})
	assert.EqualError(t, m.Err(), "boom")
	assert.Contains(t, Render(m.Summary(), m.Err()), "boom")
}

func TestDiagnosticsReplaceError(t *testing.T) {
	m := run(t, stubApp{
		summary: model.Summary{Messages: []string{"Could not find the main comment block pattern.", "Restored backup."}},
		err:     errors.New("region not found"),
	})
	assert.Error(t, m.Err())
	assert.NotContains(t, Render(m.Summary(), m.Err()), "region not found")
	assert.Equal(t, []string{"Could not find the main comment block pattern.", "Restored backup."}, m.Summary().Messages)
}

func TestLongOutputSurvivesSmallTerminal(t *testing.T) {
	var lines []string
	for i := 1; i <= 40; i++ {
		lines = append(lines, fmt.Sprintf("  Test: case %02d %s", i, strings.Repeat("x", 120)))
	}
	report := strings.Join(lines, "\n") + "\n"

	app := gatedApp{stubApp: stubApp{summary: model.Summary{Output: report}}, release: make(chan struct{})}
	var screen bytes.Buffer
	p := tea.NewProgram(New(app), tea.WithOutput(&screen), tea.WithInput(nil))

	go func() {
		p.Send(tea.WindowSizeMsg{Width: 80, Height: 10})
		close(app.release)
	}()

	final, err := p.Run()
	require.NoError(t, err)
	m := final.(Model)

	assert.Equal(t, report, m.Summary().Output, "output is handed back whole")
	assert.NotContains(t, screen.String(), "case 01", "output must not go through the renderer")
}

func TestQuitKey(t *testing.T) {
	m := New(stubApp{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
