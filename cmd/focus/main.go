package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/sokinpui/focus/cli"
	"github.com/sokinpui/focus/focus"
	"github.com/sokinpui/focus/internal/tui"
	"github.com/sokinpui/focus/internal/ui"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		// pflag already prints parse errors.
		if !errors.Is(err, cli.ErrInvalidFlags) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	app, err := focus.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Piped output goes out as plain text.
	if cfg.NoAnimation || !term.IsTerminal(int(os.Stdout.Fd())) {
		summary, err := app.Execute()
		ui.PrintSummary(os.Stdout, summary)
		if err != nil {
			var detailed *focus.DetailedError
			if errors.As(err, &detailed) {
				fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
			}
			if len(summary.Messages) == 0 {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		return
	}

	ui.Quiet = true
	p := tea.NewProgram(tui.New(app))
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	m, ok := final.(tui.Model)
	if !ok {
		return
	}
	// Long reports and diffs would be clipped by the renderer, so everything
	// is printed once the program has exited.
	ui.PrintOutput(os.Stdout, m.Summary())
	fmt.Print(tui.Render(m.Summary(), m.Err()))
	if m.Err() != nil {
		os.Exit(1)
	}
}
