package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sokinpui/focus/internal/ui"
)

// ErrBackupMissing is returned when a required backup does not exist.
var ErrBackupMissing = errors.New("backup file not found")

// PathResolver finds absolute paths for files.
type PathResolver struct {
	lookupDirs []string
}

// NewPathResolver creates a new PathResolver.
func NewPathResolver(lookupDirs []string) *PathResolver {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			// This is unlikely to fail, but if it does, it's a critical error.
			panic(fmt.Sprintf("could not get current working directory: %v", err))
		}
		return &PathResolver{lookupDirs: []string{wd}}
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			ui.Warning("Invalid lookup directory '%s', ignoring: %v", dir, err)
			continue
		}
		absDirs = append(absDirs, abs)
	}
	return &PathResolver{lookupDirs: absDirs}
}

// Resolve finds an absolute path, falling back to the first lookup directory
// if the file doesn't exist anywhere.
func (r *PathResolver) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if existing := r.ResolveExisting(path); existing != "" {
		return existing
	}
	return filepath.Join(r.lookupDirs[0], path)
}

// ResolveExisting finds an absolute path only if the file exists.
func (r *PathResolver) ResolveExisting(path string) string {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, path)
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	return ""
}

// GetFileSHA256 returns the hex SHA256 of a file's content.
func GetFileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashString returns the hex SHA256 of s.
func HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// CopyFile copies src to dst, preserving src's permissions.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return WriteFile(dst, data, info.Mode().Perm())
}

// EnsureBackup makes sure a backup exists at backupPath. An existing backup
// is never overwritten. When it is missing and create is set, path is copied
// there and created is true; otherwise ErrBackupMissing is returned.
func EnsureBackup(path, backupPath string, create bool) (created bool, err error) {
	_, err = os.Stat(backupPath)
	switch {
	case err == nil:
		return false, nil
	case !os.IsNotExist(err):
		return false, err
	case !create:
		return false, fmt.Errorf("%w: %s", ErrBackupMissing, backupPath)
	}

	if err := CopyFile(path, backupPath); err != nil {
		return false, fmt.Errorf("could not create backup %s: %w", backupPath, err)
	}
	return true, nil
}

// RestoreContent puts content back at path unless the file already holds it.
func RestoreContent(path, content string) error {
	if sum, err := GetFileSHA256(path); err == nil && sum == HashString(content) {
		return nil
	}
	return WriteFile(path, []byte(content), FileMode(path))
}

// Restore overwrites path with the content of backupPath. The backup is left in place.
func Restore(backupPath, path string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrBackupMissing, backupPath)
	}
	return CopyFile(backupPath, path)
}

// WriteFile replaces path with data in one step by writing a sibling
// temporary file and renaming it over the target.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".focus-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// FileMode returns the permissions of path, or 0644 if it cannot be read.
func FileMode(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0644
	}
	return info.Mode().Perm()
}
