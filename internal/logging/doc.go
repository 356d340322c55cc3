// Package logging assembles the structured slog loggers used across the
// updater.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so component code tags log lines
// with a uniform shape. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
package logging
