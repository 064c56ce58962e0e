// Package security provides validation, sanitization, and limits for the triggers package.
package security
