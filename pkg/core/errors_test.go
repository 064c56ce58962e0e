package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ExplicitErrorPassesThrough(t *testing.T) {
	in := &Error{Code: CodeValidationFailed, Message: "title required"}
	out := Normalize(in)

	assert.Same(t, in, out)
	assert.Equal(t, CodeValidationFailed, out.Code)
	assert.Equal(t, "title required", out.Message)
}

func TestNormalize_WrappedErrorPassesThrough(t *testing.T) {
	in := &Error{Code: CodeValidationFailed, Message: "no"}
	wrapped := fmt.Errorf("hook rejected: %w", in)

	out := Normalize(wrapped)
	assert.Equal(t, CodeValidationFailed, out.Code)
	assert.Equal(t, "no", out.Message)
}

func TestNormalize_GenericError(t *testing.T) {
	out := Normalize(errors.New("boom"))

	assert.Equal(t, CodeScriptFailed, out.Code)
	assert.Equal(t, "boom", out.Message)
}

func TestNormalize_PlainString(t *testing.T) {
	out := Normalize("something went wrong")

	assert.Equal(t, CodeScriptFailed, out.Code)
	assert.Equal(t, "something went wrong", out.Message)
}

func TestNormalize_Fallbacks(t *testing.T) {
	tests := []struct {
		name   string
		raised any
	}{
		{"nil", nil},
		{"empty string", ""},
		{"number", 42},
		{"map", map[string]any{"weird": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.raised)
			assert.Equal(t, CodeScriptFailed, out.Code)
			assert.Equal(t, "script failed", out.Message)
		})
	}
}

func TestError_ErrorString(t *testing.T) {
	e := &Error{Code: CodeTimeout, Message: "handler timed out after 5ms"}
	assert.Contains(t, e.Error(), "143")
	assert.Contains(t, e.Error(), "handler timed out")
}

func TestErrorf_UsesValidationCode(t *testing.T) {
	e := Errorf("invalid function: %q", "nope")
	assert.Equal(t, CodeValidationFailed, e.Code)
	assert.Contains(t, e.Message, "nope")
}

func TestErrorVariables(t *testing.T) {
	assert.NotNil(t, ErrInvalidHandler)
	assert.NotNil(t, ErrInvalidClassName)
	assert.NotNil(t, ErrInvalidName)
	assert.NotNil(t, ErrInvalidEventKind)
	assert.NotNil(t, ErrRunNotFound)
	assert.NotNil(t, ErrRunFinished)

	assert.Contains(t, ErrInvalidHandler.Error(), "unrecognized shape")
	assert.Contains(t, ErrRunNotFound.Error(), "not found")
}
