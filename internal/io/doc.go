// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - Output directory creation
//   - Validation of downloaded file names
//   - Cleanup of partially written files
//
// # Directory Creation
//
// EnsureDir treats an existing directory as success and reports every other
// failure, including a regular file sitting where the directory should be:
//
//	if err := ioutils.EnsureDir("./download"); err != nil {
//	    // fatal: nothing can be downloaded
//	}
//
// # File Names
//
// File names come from a remote manifest and are joined to the output
// directory, so they must be a single path element:
//
//	err := ioutils.ValidateFileName("icon_bus.svg")     // nil
//	err := ioutils.ValidateFileName("../icon_bus.svg")  // wraps ErrInvalidFileName
package ioutils
