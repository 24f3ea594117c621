package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalError_Error(t *testing.T) {
	err := NewInvalidThreshold("items.price", "must be in [0,1]")
	assert.Contains(t, err.Error(), "items.price")
	assert.Contains(t, err.Error(), "must be in [0,1]")
}

func TestEvalError_DefaultPath(t *testing.T) {
	err := New(ErrorTypeDuplicateField, "")
	assert.Contains(t, err.Error(), "<root>")
}

func TestAt_AnnotatesEmptyPath(t *testing.T) {
	base := NewMissingComparator("")
	annotated := At("name", base)
	require.NotNil(t, annotated)
	assert.Equal(t, "name", annotated.FieldPath)
}

func TestAt_PreservesDeepestPath(t *testing.T) {
	base := NewMissingComparator("age")
	annotated := At("outer", base)
	require.NotNil(t, annotated)
	assert.Equal(t, "age", annotated.FieldPath, "the deepest offending field should win")
}

func TestAt_WrapsPlainError(t *testing.T) {
	plain := errors.New("boom")
	annotated := At("x", plain)
	require.NotNil(t, annotated)
	assert.Equal(t, ErrorTypeKindMismatch, annotated.Type)
	assert.ErrorIs(t, annotated, annotated)
}

func TestEvalError_Is(t *testing.T) {
	a := NewDuplicateField("x")
	b := NewDuplicateField("x")
	c := NewDuplicateField("y")
	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestEvalError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := &EvalError{Type: ErrorTypeKindMismatch, Cause: cause}
	assert.Equal(t, cause, errors.Unwrap(wrapped))
}

func TestErrorType_String(t *testing.T) {
	cases := map[ErrorType]string{
		ErrorTypeInvalidThreshold: "INVALID_THRESHOLD",
		ErrorTypeKindMismatch:     "KIND_MISMATCH",
		ErrorType(999):            "UNKNOWN",
	}
	for in, want := range cases {
		assert.Equal(t, want, in.String())
	}
}
