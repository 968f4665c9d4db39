// Package workflow drives one episode through the processing pipeline:
// encode the WAV capture to MP3 while the operator answers the metadata
// prompts, then rewrite the ID3 tag and record the session in history.
//
// Encoding and prompting run concurrently; tagging starts only after both
// finished, so an interrupted encode never leaves a tagged partial file.
// A per-directory lock keeps two runs from writing into the same output
// directory at once.
package workflow
