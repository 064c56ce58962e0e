// Package handler provides reflection-based handler normalization for the triggers package.
//
// It accepts handlers in any of the supported calling conventions and wraps
// them into one uniform contract: Invoke(ctx, eventContext) -> (value, error).
// Shape detection happens once, at registration time; invocation never
// branches on calling convention.
package handler
