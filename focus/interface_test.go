package focus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/focus/internal/transform"
)

func TestActivateLibrary(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	file := filepath.Join(dir, "bigint.test.js")
	require.NoError(t, os.WriteFile(file, []byte(disabledFile), 0644))

	summary, err := Activate(Config{File: file, Name: "add"})
	require.NoError(t, err)
	assert.Equal(t, "add", summary.Activated)
	assert.Equal(t, []string{"constructor"}, summary.Disabled)
	assert.DirExists(t, filepath.Join(dir, ".focus"))
}

func TestActivateLibraryRejectsScan(t *testing.T) {
	_, err := Activate(Config{File: "x.test.js", Scan: "fuzzy"})
	require.ErrorIs(t, err, transform.ErrInvalidOptions)
}
