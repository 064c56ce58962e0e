// Package schedule provides scheduling implementations for recurring jobs.
//
// This package includes:
//   - Schedule interface for defining when a job starts next
//   - Every() for fixed-interval schedules
//   - Daily() for daily schedules at a specific time
//   - Weekly() for weekly schedules on a specific day and time
//   - Cron() for cron expression-based schedules
//
// Most users should import the root package github.com/cloudcore-io/triggers
// which re-exports these functions.
package schedule
