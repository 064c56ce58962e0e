package security

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cloudcore-io/triggers/pkg/core"
)

// Security limits and configuration
const (
	// MaxNameLength is the maximum length for class, function, and job names
	MaxNameLength = 255

	// MaxParamsSize is the maximum size in bytes for caller-supplied params (1MB)
	MaxParamsSize = 1 << 20

	// MaxConcurrency is the hard limit for concurrent detached runs
	MaxConcurrency = 1000

	// MaxErrorMessageLength is the maximum length for stored error messages
	MaxErrorMessageLength = 4096

	// MaxProgressMessageLength is the maximum length for progress log entries
	MaxProgressMessageLength = 4096
)

// validName matches alphanumeric, hyphens, underscores, and dots
var validName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-\.]*$`)

// ValidateClassName validates an entity class name
func ValidateClassName(name string) error {
	if name == "" {
		return core.ErrInvalidClassName
	}
	if len(name) > MaxNameLength {
		return core.ErrClassNameTooLong
	}
	if !validName.MatchString(name) {
		return core.ErrInvalidClassName
	}
	return nil
}

// ValidateName validates a function or job name
func ValidateName(name string) error {
	if name == "" {
		return core.ErrInvalidName
	}
	if len(name) > MaxNameLength {
		return core.ErrNameTooLong
	}
	if !validName.MatchString(name) {
		return core.ErrInvalidName
	}
	return nil
}

// SanitizeMessage truncates and sanitizes a message for storage
func SanitizeMessage(msg string, maxLen int) string {
	if msg == "" {
		return ""
	}

	// Remove any null bytes or control characters (except newlines)
	var sanitized strings.Builder
	sanitized.Grow(len(msg))

	for _, r := range msg {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			sanitized.WriteRune(r)
		}
	}

	result := sanitized.String()
	if len(result) > maxLen {
		// Truncate on a rune boundary
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(result[cut]) {
			cut--
		}
		result = result[:cut]
	}
	return result
}

// SanitizeErrorMessage truncates and sanitizes error messages for storage
func SanitizeErrorMessage(msg string) string {
	return SanitizeMessage(msg, MaxErrorMessageLength)
}

// SanitizeProgressMessage truncates and sanitizes progress messages for storage
func SanitizeProgressMessage(msg string) string {
	return SanitizeMessage(msg, MaxProgressMessageLength)
}

// ClampConcurrency ensures concurrency is within limits
func ClampConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}
