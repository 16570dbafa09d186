// Package fileutil provides common file operations.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ErrNotText indicates a file is not valid UTF-8 text.
var ErrNotText = errors.New("not a UTF-8 text file")

// defaultMode is used for files that do not exist yet.
const defaultMode os.FileMode = 0644

// ReadText reads a whole file and checks that it is UTF-8 text.
// Not-exist errors are returned unwrapped so os.IsNotExist keeps working.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}
	return string(data), nil
}

// WriteFile replaces path with data.
// It creates parent directories if needed and keeps the permissions of an
// existing file. Uses atomic write via temp file to prevent partial writes on
// failure. A symlinked path is written through to its target.
func WriteFile(path string, data []byte) error {
	mode := defaultMode
	info, err := os.Lstat(path)
	switch {
	case err == nil:
		if info.Mode()&os.ModeSymlink != 0 {
			if path, err = filepath.EvalSymlinks(path); err != nil {
				return fmt.Errorf("resolve symlink: %w", err)
			}
			if info, err = os.Stat(path); err != nil {
				return fmt.Errorf("stat destination: %w", err)
			}
		}
		mode = info.Mode().Perm()
	case !os.IsNotExist(err):
		return fmt.Errorf("stat destination: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create parent directories: %w", err)
	}

	// Create temp file in the same directory for atomic rename
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Ensure cleanup on any failure
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	// Sync to ensure data is written to disk
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename to destination: %w", err)
	}

	success = true
	return nil
}
