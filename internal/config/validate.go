package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateProfiles()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func (c *Config) validateProfiles() error {
	if len(c.Profiles) == 0 {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/postshow/config.toml"
		}
		return fmt.Errorf("no profiles configured. Add a [profiles.<name>] section to %s (create with 'postshow config init')", defaultPath)
	}
	for _, name := range c.ProfileNames() {
		if err := c.Profiles[name].validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (p Profile) validate(name string) error {
	required := []struct {
		key   string
		value string
	}{
		{"slug", p.Slug},
		{"filename", p.Filename},
		{"title", p.Title},
		{"album", p.Album},
		{"artist", p.Artist},
		{"language", p.Language},
		{"genre", p.Genre},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("profiles.%s.%s must be set", name, field.key)
		}
	}
	if !validCBRBitrate(p.Bitrate) {
		return fmt.Errorf("profiles.%s.bitrate %d is not a valid CBR rate (valid: %s)",
			name, p.Bitrate, bitrateList())
	}
	return nil
}

func validCBRBitrate(rate int) bool {
	for _, valid := range cbrBitrates {
		if rate == valid {
			return true
		}
	}
	return false
}

func bitrateList() string {
	parts := make([]string, len(cbrBitrates))
	for i, rate := range cbrBitrates {
		parts[i] = fmt.Sprintf("%d", rate)
	}
	return strings.Join(parts, ", ")
}
