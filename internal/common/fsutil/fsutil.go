// Package fsutil resolves on-disk locations for the service.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// executable is replaced in tests.
var executable = os.Executable

// InstallDir returns the directory holding the running executable, with
// symlinks resolved.
func InstallDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ResolveFromInstallDir expands "~" and anchors relative paths at
// InstallDir, so the result does not depend on the working directory.
func ResolveFromInstallDir(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("empty path")
	}
	p, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	dir, err := InstallDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p), nil
}
