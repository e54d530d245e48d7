package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "validation failed: owner is required", NewValidationError("owner", "is required").Error())
	assert.Equal(t, "validation failed: bad payload", NewValidationError("", "bad payload").Error())
}

func TestRejectedError_Reasons(t *testing.T) {
	assert.Contains(t, NewRejectedError(AlreadyReposted).Error(), "already reposted")
	assert.Contains(t, NewRejectedError(SelfRepost).Error(), "own fun")
	assert.Equal(t, "other", NewRejectedError(RejectReason("other")).Error())
}

func TestErrorPredicates_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("repost: %w", NewRejectedError(SelfRepost))
	assert.True(t, IsRejected(wrapped, SelfRepost))
	assert.False(t, IsRejected(wrapped, AlreadyReposted))

	notFound := fmt.Errorf("load: %w", NewNotFoundError("fun", int64(7)))
	assert.True(t, IsNotFound(notFound))
	assert.Equal(t, "load: fun 7 not found", notFound.Error())

	assert.True(t, IsValidation(fmt.Errorf("create: %w", NewValidationError("type", "is invalid"))))
	assert.False(t, IsValidation(errors.New("plain")))
}

func TestConflictError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := NewConflictError("repost", cause)

	assert.True(t, IsConflict(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "repost conflict")
}
