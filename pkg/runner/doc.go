// Package runner provides the Job Runner for the triggers package.
//
// This package includes:
//   - Runner: starts detached job runs, owns their progress logs and
//     terminal statuses
//   - Status snapshots for pollers
//   - A scheduler for recurring job starts
//   - Event subscription for run monitoring
//
// Most users should import the root package github.com/cloudcore-io/triggers
// which wires the runner into an Engine.
package runner
