// Package registry provides the handler registries for the triggers package.
//
// This package includes:
//   - Registry: flat mappings from (class, event kind) to hook handlers and
//     from names to function and job handlers
//   - Last-write-wins registration, pure lookups, no-op unregistration
//   - Registration options (timeout, fields to fetch)
//
// Most users should import the root package github.com/cloudcore-io/triggers
// which wires a Registry into the pipeline and runner.
package registry
