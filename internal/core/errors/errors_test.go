package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "resource not found")
		assert.Equal(t, "[NOT_FOUND] resource not found", err.Error())
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		assert.Equal(t, "[INTERNAL_ERROR] internal failure: original error", err.Error())
		assert.ErrorIs(t, err, original)
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		assert.True(t, IsCode(err, CodeValidationError))
		assert.False(t, IsCode(err, CodeNotFound))
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		err := Wrap(errors.New("original error"), CodeParse, "parse failure")
		assert.True(t, IsCode(err, CodeParse))
		assert.Equal(t, CodeParse, CodeOf(err))
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeNotSupported, "unsupported language"), CtxPath, "main.go")
		var de *DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "main.go", de.Context[CtxPath])
		assert.Contains(t, err.Error(), "main.go")
	})

	t.Run("AddContextOnForeignError", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxOffset, 12)
		assert.True(t, IsCode(err, CodeInternal))
	})

	t.Run("CodeOfForeignError", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}
