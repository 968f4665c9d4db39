// Package services defines shared utilities consumed by the processing
// workflow and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (configuration vs validation vs tool failure) uniform
//     across the pipeline.
//   - Thin abstractions that make command execution and progress streaming
//     from external tools testable.
package services
