// Package fsutil provides the small set of filesystem helpers used
// to manage summary folders, and the error type that reports their
// failures.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Error is returned when a filesystem operation on a summary folder
// or output file fails.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// RemoveIfExists deletes path and everything below it. A missing
// path is not an error.
func RemoveIfExists(path string) error {
	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return &Error{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// CreateDir creates a single directory. An existing directory is
// left untouched.
func CreateDir(path string) error {
	if IsDir(path) {
		return nil
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		return &Error{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

// SizeKB returns the size of the file at path in kilobytes, rounded
// up to the next whole KB. A missing file has size 0.
func SizeKB(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return (info.Size() + 1023) / 1024
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// WriteFile writes data to path, replacing any existing file.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &Error{Op: "write", Path: path, Err: err}
	}
	return nil
}
