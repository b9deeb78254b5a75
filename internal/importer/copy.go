// internal/importer/copy.go
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Shared-storage modes. Files land on NAS-style shares, so everything is
// world-readable and writable.
const (
	DirMode  os.FileMode = 0o777
	FileMode os.FileMode = 0o666
)

// CopyFile copies a file from src to dst, replacing dst if it exists.
// Creates destination directory if it doesn't exist.
func CopyFile(src, dst string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FileMode)
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		// Clean up partial file on error
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}

	if err := dstFile.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync: %v", ErrCopyFailed, err)
	}

	return size, nil
}

// MoveFile moves src to dst. A rename is tried first; when that fails (for
// example across devices) the file is copied and the source removed.
// An existing dst is replaced.
func MoveFile(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), DirMode); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrMoveFailed, err)
	}

	if renameErr := os.Rename(src, dst); renameErr != nil {
		if _, err := CopyFile(src, dst); err != nil {
			return fmt.Errorf("%w: rename: %v: %w", ErrMoveFailed, renameErr, err)
		}
		_ = os.Remove(src)
	}

	if err := os.Chmod(dst, FileMode); err != nil {
		return fmt.Errorf("%w: chmod: %v", ErrMoveFailed, err)
	}
	return nil
}

// EnsureDir creates dir (which must live under root) and opens up the mode of
// every directory between root and dir, since MkdirAll is subject to umask.
func EnsureDir(root, dir string) error {
	if err := ValidatePath(dir, root); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(dir))
	if err != nil || rel == "." {
		return nil
	}
	current := filepath.Clean(root)
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		if err := os.Chmod(current, DirMode); err != nil {
			return fmt.Errorf("chmod %s: %w", current, err)
		}
	}
	return nil
}
