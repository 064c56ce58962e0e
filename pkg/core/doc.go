// Package core provides the fundamental types and interfaces for the triggers package.
//
// This package contains:
//   - EventContext and the handler-facing context API
//   - Error, the normalized (code, message) failure shape
//   - JobRun and ProgressEntry data models with GORM annotations
//   - RunStore interface defining the persistence contract for job runs
//   - Event types for run monitoring
//
// Most users should import the root package github.com/cloudcore-io/triggers
// instead of this package directly.
package core
