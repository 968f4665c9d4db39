// Package main hosts the postshow CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the whole episode lifecycle: process
// runs the encode-prompt-tag pipeline, chapters previews an Audacity label
// file, history lists past sessions, status checks the environment, and
// config scaffolds and inspects the show profiles. Configuration resolution
// and logger setup are centralized here so subcommands stay declarative;
// the pipeline itself lives in internal/workflow.
package main
