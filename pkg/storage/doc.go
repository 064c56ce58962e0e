// Package storage provides RunStore implementations for the triggers package.
package storage
