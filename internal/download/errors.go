package download

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindExtraction Kind = "extraction_failed"
	KindStorage    Kind = "storage_failed"
)

// Sentinel errors matched by Error.Is for each Kind.
var (
	// ErrValidation is returned when a request is malformed.
	ErrValidation = errors.New("invalid request")

	// ErrExtractionFailed is returned when the media could not be fetched or decoded.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrStorageFailed is returned when the file could not be placed in the download tree.
	ErrStorageFailed = errors.New("storage failed")
)

// Error is returned by Pipeline.Download.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.sentinel(), e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindStorage:
		return ErrStorageFailed
	default:
		return ErrExtractionFailed
	}
}
