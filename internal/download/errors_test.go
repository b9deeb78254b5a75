package download

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	assert.NotErrorIs(t, ErrValidation, ErrExtractionFailed)
	assert.NotErrorIs(t, ErrExtractionFailed, ErrStorageFailed)

	for _, err := range []error{ErrValidation, ErrExtractionFailed, ErrStorageFailed} {
		assert.NotEmpty(t, err.Error())
	}
}

func TestError_Is(t *testing.T) {
	cause := errors.New("ERROR: Unsupported URL")
	err := error(&Error{Kind: KindExtraction, URL: "https://x.test/v", Err: cause})

	assert.ErrorIs(t, err, ErrExtractionFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStorageFailed)
	assert.Equal(t, "extraction failed: https://x.test/v: ERROR: Unsupported URL", err.Error())

	var dlErr *Error
	assert.ErrorAs(t, err, &dlErr)
	assert.Equal(t, KindExtraction, dlErr.Kind)

	assert.ErrorIs(t, &Error{Kind: KindStorage, Err: cause}, ErrStorageFailed)
	assert.ErrorIs(t, &Error{Kind: KindValidation, Err: cause}, ErrValidation)
}
