package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/manualmanul/XBN/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test
// plus one ready-to-use show profile named "testshow".
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Profiles = map[string]config.Profile{
		"testshow": {
			Slug:     "TEST",
			Filename: "{slug}{epnum}_{name}.{ext}",
			Bitrate:  128,
			Title:    "Test Show {epnum}: {name}",
			Album:    "Test Show",
			Artist:   "Test Network",
			Season:   "1",
			Language: "eng",
			Genre:    "Podcast",

			WriteDate:           true,
			WriteTrackNo:        true,
			LyricsEqualsComment: true,
		},
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithProfile adds or replaces a show profile on the test config.
func WithProfile(name string, profile config.Profile) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Profiles[name] = profile
	}
}

// WithEncoderBinary overrides the encoder binary on the test config.
func WithEncoderBinary(binary string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoder.Binary = binary
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default external binaries
// are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"lame"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}
