// Package sandbox confines file access to a project root and writes files
// atomically.
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path resolves outside the project root.
var ErrOutsideRoot = errors.New("outside the project root")

const (
	defaultFilePerm = 0o644
	defaultDirPerm  = 0o755
)

// ValidatePath resolves targetPath against projectRoot, following symlinks
// for the part of the path that exists, and returns the absolute path.
// It fails if the result is not inside the root.
func ValidatePath(projectRoot, targetPath string) (string, error) {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving project root symlinks: %w", err)
	}

	// Build the candidate path.
	candidate := filepath.Clean(filepath.Join(realRoot, filepath.FromSlash(targetPath)))

	// The path may not exist yet, so resolve as much as we can.
	resolved, err := resolveExisting(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}

	// Trailing separator so "root2" does not match the prefix "root".
	if resolved != realRoot && !strings.HasPrefix(resolved, realRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path '%s' resolves to '%s': %w '%s'", targetPath, resolved, ErrOutsideRoot, realRoot)
	}
	return resolved, nil
}

// resolveExisting evaluates symlinks on the longest existing prefix of path
// and re-attaches the missing remainder.
func resolveExisting(path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved, nil
	}
	// Walk up to the longest existing prefix.
	dir, base := filepath.Dir(path), filepath.Base(path)
	if dir == path {
		return path, nil
	}
	resolvedDir, err := resolveExisting(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}

// SafeWrite writes content to relPath inside projectRoot through a temp file
// and a rename, so readers see either the old content or the new content.
// An existing file keeps its permissions; new files get perm.
func SafeWrite(projectRoot, relPath string, content []byte, perm os.FileMode) error {
	resolved, err := ValidatePath(projectRoot, relPath)
	if err != nil {
		return err
	}
	if info, err := os.Stat(resolved); err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", relPath)
		}
		perm = info.Mode().Perm()
	}

	// Create parent directories.
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, defaultDirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	// Temp file in the same directory keeps the rename on one filesystem.
	tmp, err := os.CreateTemp(dir, ".opsx-one-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up temp file on any failure.
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	// Atomic rename.
	if err := os.Rename(tmpPath, resolved); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", resolved, err)
	}

	committed = true
	return nil
}

// SafeMkdirAll creates relPath and its parents inside the sandbox.
func SafeMkdirAll(projectRoot, relPath string, perm os.FileMode) error {
	resolved, err := ValidatePath(projectRoot, relPath)
	if err != nil {
		return err
	}
	return os.MkdirAll(resolved, perm)
}

// OSFS is the operating system filesystem rooted at Root. Every path is
// relative to Root and validated against it.
type OSFS struct {
	Root string
}

// Exists reports whether path exists. A path that escapes the root is an
// error, not a missing file.
func (o OSFS) Exists(path string) (bool, error) {
	resolved, err := ValidatePath(o.Root, path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(resolved)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (o OSFS) ReadFile(path string) (string, error) {
	resolved, err := ValidatePath(o.Root, path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (o OSFS) WriteFile(path, content string) error {
	return SafeWrite(o.Root, path, []byte(content), defaultFilePerm)
}

func (o OSFS) EnsureDir(path string) error {
	return SafeMkdirAll(o.Root, path, defaultDirPerm)
}
