package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/manualmanul/XBN/internal/config"
	"github.com/manualmanul/XBN/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	homeDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("POSTSHOW_CONFIG", "")

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	configPath := filepath.Join(homeDir, ".config", "postshow", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		homeDir:    homeDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, "[paths]\nlog_dir = %q\nstate_dir = %q\n\n", cfg.Paths.LogDir, cfg.Paths.StateDir)
	fmt.Fprintf(&sb, "[logging]\nlevel = %q\nformat = %q\n\n", cfg.Logging.Level, cfg.Logging.Format)
	fmt.Fprintf(&sb, "[encoder]\nbinary = %q\n", cfg.Encoder.Binary)
	for _, name := range cfg.ProfileNames() {
		profile := cfg.Profiles[name]
		fmt.Fprintf(&sb, "\n[profiles.%s]\n", name)
		fmt.Fprintf(&sb, "slug = %q\nfilename = %q\nbitrate = %d\n", profile.Slug, profile.Filename, profile.Bitrate)
		fmt.Fprintf(&sb, "title = %q\nalbum = %q\nartist = %q\n", profile.Title, profile.Album, profile.Artist)
		fmt.Fprintf(&sb, "season = %q\nlanguage = %q\ngenre = %q\n", profile.Season, profile.Language, profile.Genre)
		fmt.Fprintf(&sb, "write_date = %t\nwrite_trackno = %t\nlyrics_equals_comment = %t\n",
			profile.WriteDate, profile.WriteTrackNo, profile.LyricsEqualsComment)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeLabelsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write labels: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
