// Package ioutils provides file system utilities for bing-wallpaper.
//
// This package contains functions for:
//   - Counting and creating numbered wallpaper backups
//   - Directory creation
package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// BackupPattern matches backup files: at least one digit, ending in ".jpg".
const BackupPattern = "*[0-9]*.jpg"

// CountBackups counts regular files in dir whose name matches BackupPattern.
//
// Only the file name is matched, so directory names containing glob
// metacharacters are safe.
//
// Example:
//
//	// dir contains 1.jpg, 2.jpg, wallpaper.jpg, notes.txt
//	n, _ := CountBackups(dir) // n == 2
func CountBackups(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := filepath.Match(BackupPattern, entry.Name())
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// BackupName returns the file name for backup number n, e.g. "3.jpg".
func BackupName(n int) string {
	return strconv.Itoa(n) + ".jpg"
}

// RenameToBackup renames path to dir/<n>.jpg.
//
// It returns the backup file name, or "" when path does not exist.
// An existing file at the target name is not checked for; on most systems
// the rename replaces it.
func RenameToBackup(path, dir string, n int) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}

	name := BackupName(n)
	if err := os.Rename(path, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("backup %s: %w", filepath.Base(path), err)
	}
	return name, nil
}

// FileExists reports whether path exists.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
