// Package lockfile writes generated files under an exclusive advisory lock
// so that concurrent build invocations cannot interleave partial writes.
package lockfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockSuffix is appended to a filename to derive its lock file.
const LockSuffix = ".lock"

// WriteFailureError reports a write that did not take effect.
type WriteFailureError struct {
	Filename string
	Err      error
}

func (e *WriteFailureError) Error() string {
	return fmt.Sprintf("%s: write failed: %v", e.Filename, e.Err)
}

func (e *WriteFailureError) Unwrap() error {
	return e.Err
}

// ErrContentMismatch is reported when a file reads back differently from
// what was written.
var ErrContentMismatch = errors.New("content mismatch after write")

// WriteFile creates the parent directory if needed, takes an exclusive lock
// and writes data to filename. The file is read back to confirm the write.
// All failures are *WriteFailureError.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return withLock(filename, func() error {
		return write(filename, data, perm)
	})
}

// WriteFileIfModified is like WriteFile but leaves filename untouched when
// its current content equals data. It reports whether a write happened.
func WriteFileIfModified(filename string, data []byte, perm os.FileMode) (written bool, err error) {
	err = withLock(filename, func() error {
		if current, err := os.ReadFile(filename); err == nil && bytes.Equal(current, data) {
			return nil
		}
		written = true
		return write(filename, data, perm)
	})
	return
}

// Remove deletes filename and its lock file. A missing file is not an
// error. It reports whether filename existed.
func Remove(filename string) (bool, error) {
	err := os.Remove(filename)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := os.Remove(filename + LockSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return true, err
	}
	return true, nil
}

func withLock(filename string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return &WriteFailureError{Filename: filename, Err: err}
	}

	fileLock := flock.New(filename + LockSuffix)
	if err := fileLock.Lock(); err != nil {
		return &WriteFailureError{Filename: filename, Err: fmt.Errorf("acquire lock: %w", err)}
	}
	defer func() { _ = fileLock.Unlock() }()

	return fn()
}

func write(filename string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(filename, data, perm); err != nil {
		return &WriteFailureError{Filename: filename, Err: err}
	}
	got, err := os.ReadFile(filename)
	if err != nil {
		return &WriteFailureError{Filename: filename, Err: err}
	}
	if !bytes.Equal(got, data) {
		return &WriteFailureError{Filename: filename, Err: ErrContentMismatch}
	}
	return nil
}
