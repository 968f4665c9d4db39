// Package lame mediates access to the LAME CLI used to encode WAV masters
// into CBR MP3s.
//
// It normalizes command invocation, parses the carriage-return progress
// display into structured updates, and exposes a testable interface for the
// encoding stage.
//
// Prefer this package over ad-hoc exec.Command usage when interacting with
// LAME so progress reporting and cancellation handling remain consistent.
package lame
