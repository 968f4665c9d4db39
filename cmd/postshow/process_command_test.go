package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manualmanul/XBN/internal/testsupport"
)

// stubLame puts a fake lame on PATH whose "encode" copies fixture to the
// output path, the last argument of the real invocation.
func stubLame(t *testing.T, fixture string) {
	t.Helper()
	binDir := t.TempDir()
	script := fmt.Sprintf("#!/bin/sh\nfor last; do :; done\ncp %q \"$last\"\n", fixture)
	if err := os.WriteFile(filepath.Join(binDir, "lame"), []byte(script), 0o755); err != nil {
		t.Fatalf("write lame stub: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestCLIProcessEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)

	fixture := filepath.Join(t.TempDir(), "encoded.mp3")
	if err := os.WriteFile(fixture, testsupport.MP3Stream(400), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	stubLame(t, fixture)

	src := filepath.Join(t.TempDir(), "raw_capture.wav")
	if err := os.WriteFile(src, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	labels := writeLabelsFile(t, "0.0\t5.0\tIntro\n5.0\t10.0\tNews\n")
	outDir := t.TempDir()

	out, _, err := runCLI(t, []string{
		"process", src, outDir,
		"--profile", "testshow",
		"--markers", labels,
		"--episode-number", "42",
		"--episode-name", "The Big One",
		"--comment", "show notes",
	}, env.configPath)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	outputPath := filepath.Join(outDir, "test42_The Big One.mp3")
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("expected output at %s: %v", outputPath, err)
	}
	requireContains(t, out, "42: The Big One")
	requireContains(t, out, "test42_The Big One.mp3")
	requireContains(t, out, "00:10")

	store := testsupport.MustOpenHistory(t, env.cfg)
	sessions, err := store.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one recorded session, got %d", len(sessions))
	}
	if sessions[0].EpisodeNumber != "42" || sessions[0].ChapterCount != 2 {
		t.Fatalf("unexpected session: %+v", sessions[0])
	}
}

func TestCLIProcessRequiresEpisodeFlagsWithoutTerminal(t *testing.T) {
	env := setupCLITestEnv(t)

	src := filepath.Join(t.TempDir(), "ep.wav")
	if err := os.WriteFile(src, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	_, _, err := runCLI(t, []string{
		"process", src, t.TempDir(),
		"--profile", "testshow",
	}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "stdin is not a terminal") {
		t.Fatalf("expected non-interactive gate error, got %v", err)
	}
}

func TestCLIProcessRejectsUnknownProfile(t *testing.T) {
	env := setupCLITestEnv(t)

	src := filepath.Join(t.TempDir(), "ep.wav")
	if err := os.WriteFile(src, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	_, _, err := runCLI(t, []string{
		"process", src, t.TempDir(),
		"--profile", "nope",
		"--episode-number", "1",
		"--episode-name", "X",
	}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), `unknown profile "nope"`) {
		t.Fatalf("expected unknown profile error, got %v", err)
	}
}

func TestCLIProcessFailsWhenEncoderMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Encoder.Binary = "lame-that-is-not-installed"
	writeTestConfig(t, env.configPath, env.cfg)

	src := filepath.Join(t.TempDir(), "ep.wav")
	if err := os.WriteFile(src, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	_, _, err := runCLI(t, []string{
		"process", src, t.TempDir(),
		"--profile", "testshow",
		"--episode-number", "1",
		"--episode-name", "X",
	}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "is not available") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestCLIProcessLeavesNoOutputWhenEncoderWritesNothing(t *testing.T) {
	env := setupCLITestEnv(t)

	src := filepath.Join(t.TempDir(), "ep.wav")
	if err := os.WriteFile(src, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	outDir := t.TempDir()

	// The default stub exits 0 without producing a file, which the
	// encoder client reports as a failed encode.
	_, _, err := runCLI(t, []string{
		"process", src, outDir,
		"--profile", "testshow",
		"--episode-number", "7",
		"--episode-name", "Ghost",
	}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "produced no output") {
		t.Fatalf("expected encode failure, got %v", err)
	}

	leftovers, err := filepath.Glob(filepath.Join(outDir, "*.mp3"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("expected no MP3s in output dir, found %v", leftovers)
	}
}
