// Package pipeline provides the invocation pipeline for the triggers package.
//
// This package includes:
//   - Execute: runs a normalized handler with a timeout race, panic
//     recovery, and error normalization
//   - RunBeforeHook / RunAfterHook / RunFunction trigger points with the
//     gating and notification semantics of before and after hooks
//
// Most users should import the root package github.com/cloudcore-io/triggers
// which wires the pipeline into an Engine.
package pipeline
