package core

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers. The set is closed and the values are
// stable; callers branch on Code, not on Message.
const (
	// CodeScriptFailed is the generic failure code for handlers that
	// raised an unstructured error.
	CodeScriptFailed = 141

	// CodeValidationFailed is the abort-by-design code: a handler (or a
	// lookup) deliberately rejected the operation.
	CodeValidationFailed = 142

	// CodeTimeout indicates the handler did not settle within the
	// configured deadline.
	CodeTimeout = 143
)

// scriptFailedMessage is the fallback message when a handler failed
// without any usable payload.
const scriptFailedMessage = "script failed"

// Registration and lookup errors
var (
	ErrInvalidHandler   = errors.New("triggers: handler has an unrecognized shape")
	ErrInvalidClassName = errors.New("triggers: invalid class name (must be alphanumeric, start with letter)")
	ErrClassNameTooLong = errors.New("triggers: class name too long")
	ErrInvalidName      = errors.New("triggers: invalid handler name (must be alphanumeric, start with letter)")
	ErrNameTooLong      = errors.New("triggers: handler name too long")
	ErrInvalidEventKind = errors.New("triggers: event kind is not a hook kind")
	ErrParamsTooLarge   = errors.New("triggers: params exceed size limit")
	ErrRunNotFound      = errors.New("triggers: job run not found")
	ErrRunFinished      = errors.New("triggers: job run already reached a terminal status")
)

// Error is the normalized failure shape. It is the only error type that
// crosses the invocation pipeline boundary.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("triggers: [%d] %s", e.Code, e.Message)
}

// NewError creates a normalized error with an explicit code. Handlers use
// this to abort an operation with a code the caller can branch on.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a validation-coded error from a format string.
func Errorf(format string, args ...any) *Error {
	return &Error{Code: CodeValidationFailed, Message: fmt.Sprintf(format, args...)}
}

// Normalize canonicalizes whatever a handler failed with into an *Error.
// Rules, in order: an *Error (possibly wrapped) passes through unchanged;
// any other error keeps its message under the generic code; a plain string
// becomes the message under the generic code; anything else, including a
// nil payload, gets the generic code with a fixed message.
func Normalize(raised any) *Error {
	switch v := raised.(type) {
	case nil:
		return &Error{Code: CodeScriptFailed, Message: scriptFailedMessage}
	case *Error:
		return v
	case error:
		var ne *Error
		if errors.As(v, &ne) {
			return ne
		}
		return &Error{Code: CodeScriptFailed, Message: v.Error()}
	case string:
		if v == "" {
			return &Error{Code: CodeScriptFailed, Message: scriptFailedMessage}
		}
		return &Error{Code: CodeScriptFailed, Message: v}
	default:
		return &Error{Code: CodeScriptFailed, Message: scriptFailedMessage}
	}
}
