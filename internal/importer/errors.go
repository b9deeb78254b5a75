// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrMoveFailed indicates the file could not be moved into the library.
	ErrMoveFailed = errors.New("failed to move file")

	// ErrSourceMissing indicates the extracted file does not exist.
	ErrSourceMissing = errors.New("source file missing")

	// ErrPathTraversal indicates a path traversal attack was detected.
	ErrPathTraversal = errors.New("path traversal detected")
)
