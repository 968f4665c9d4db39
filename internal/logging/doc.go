// Package logging assembles the structured slog loggers used across the
// postshow pipeline.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code can
// automatically tag log lines with session IDs and stage names. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
