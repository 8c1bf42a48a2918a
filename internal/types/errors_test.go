package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPonderErrorFormat(t *testing.T) {
	err := NewError(PROCESS_FAILED, "orchestration aborted")
	assert.Equal(t, "[PROCESS_FAILED] orchestration aborted", err.Error())

	wrapped := WrapError(PLAN_GENERATION_FAILED, "pattern table failed", errors.New("boom"))
	assert.Equal(t, "[PLAN_GENERATION_FAILED] pattern table failed: boom", wrapped.Error())
}

func TestPonderErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := WrapError(VALIDATION_FAILED, "bad action", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestPonderErrorIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(PROCESS_CANCELLED, "cancelled"))

	assert.ErrorIs(t, err, NewError(PROCESS_CANCELLED, "different message"))
	assert.NotErrorIs(t, err, NewError(PROCESS_FAILED, "cancelled"))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewRetryableError(ARCHIVE_QUERY_FAILED, "busy")))
	assert.False(t, IsRetryable(NewError(ARCHIVE_QUERY_FAILED, "corrupt")))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, SESSION_INVALID, CodeOf(NewError(SESSION_INVALID, "x")))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
