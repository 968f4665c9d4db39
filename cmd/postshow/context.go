package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/manualmanul/XBN/internal/config"
)

// commandContext carries lazily loaded state shared by the subcommands.
// Config resolution runs at most once per invocation regardless of how many
// places ask for it.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

// resolvedConfigPath returns the path ensureConfig settled on. Valid only
// after a successful ensureConfig.
func (c *commandContext) resolvedConfigPath() string {
	return c.configPath
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
