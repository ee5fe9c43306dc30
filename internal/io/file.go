// Package ioutils provides file system utilities for svgfetch.
package ioutils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
)

// ErrInvalidFileName is returned by ValidateFileName for names that cannot be
// written as a single file inside the output directory.
var ErrInvalidFileName = errors.New("invalid file name")

// ErrNotDirectory is returned by EnsureDir when the path exists but is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

var invalidFileNameChars = regexp.MustCompile(`[/\\\x00-\x1f\x7f]`)

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x). An existing directory
// is not an error. Any other outcome is returned to the caller:
//   - the path exists but is a file (wraps ErrNotDirectory)
//   - creation fails, e.g. permission denied
//
// Example:
//
//	if err := EnsureDir("./download"); err != nil {
//	    return fmt.Errorf("creating output directory: %w", err)
//	}
func EnsureDir(path string) error {
	err := os.Mkdir(path, 0755)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrExist):
		info, statErr := os.Stat(path)
		if statErr != nil {
			return statErr
		}
		if !info.IsDir() {
			return fmt.Errorf("%s: %w", path, ErrNotDirectory)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		// Missing parent.
		return os.MkdirAll(path, 0755)
	default:
		return err
	}
}

// ValidateFileName checks that name is usable as a single path element.
//
// Rejected names:
//   - empty, "." and ".."
//   - names containing a path separator (/ or \)
//   - names containing control characters (0x00-0x1f, 0x7f)
//
// The returned error wraps ErrInvalidFileName.
//
// Example:
//
//	ValidateFileName("icon_bus.svg")     // nil
//	ValidateFileName("../etc/passwd")    // error
func ValidateFileName(name string) error {
	switch name {
	case "":
		return fmt.Errorf("%w: empty", ErrInvalidFileName)
	case ".", "..":
		return fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}
	if invalidFileNameChars.MatchString(name) {
		return fmt.Errorf("%w: %q contains a path separator or control character", ErrInvalidFileName, name)
	}
	return nil
}

// RemovePartial deletes a file left behind by a failed write. A missing file
// is not an error.
func RemovePartial(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
