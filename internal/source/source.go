package source

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// SourceProvider retrieves report content and hands formatted output to the clipboard.
type SourceProvider struct {
	stdin io.Reader
}

// New creates a new SourceProvider reading "-" from os.Stdin.
func New() *SourceProvider {
	return &SourceProvider{stdin: os.Stdin}
}

// NewWithStdin creates a SourceProvider reading "-" from r.
func NewWithStdin(r io.Reader) *SourceProvider {
	return &SourceProvider{stdin: r}
}

// GetContent reads path, or standard input when path is "-".
func (sp *SourceProvider) GetContent(path string) ([]byte, error) {
	if path == Stdin {
		content, err := io.ReadAll(sp.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, nil
	}
	return os.ReadFile(path)
}

// CopyToClipboard places text on the system clipboard.
func (sp *SourceProvider) CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write to clipboard: %w", err)
	}
	return nil
}
