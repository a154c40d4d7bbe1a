package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	plain := NewValidationError("title is required")
	assert.Equal(t, "title is required", plain.Error())
	assert.Equal(t, CodeValidation, CodeOf(plain))

	wrapped := NewFormatError("backup payload is not valid JSON", errors.New("unexpected end of input"))
	assert.Contains(t, wrapped.Error(), "unexpected end of input")
	assert.Equal(t, "unexpected end of input", wrapped.Unwrap().Error())

	notFound := NewNotFoundError("post", "abc123")
	assert.Equal(t, "post with ID abc123 not found", notFound.Error())
	assert.Equal(t, CodeNotFound, CodeOf(notFound))
}

func TestCodeOf(t *testing.T) {
	assert.Empty(t, CodeOf(nil))
	assert.Empty(t, CodeOf(errors.New("plain error")))

	// codes survive wrapping
	err := fmt.Errorf("while saving: %w", NewAuthorizationError("admin role required"))
	assert.Equal(t, CodeAuthorization, CodeOf(err))
}
