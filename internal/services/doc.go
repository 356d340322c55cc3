// Package services defines the shared error taxonomy used to classify
// failures across the update pipeline: validation errors, not-found lookups,
// malformed upstream data, and exhausted transient failures.
package services
