package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manualmanul/XBN/internal/config"
	"github.com/manualmanul/XBN/internal/language"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cctx))
	configCmd.AddCommand(newConfigPathCommand(cctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Add a [profiles.<name>] section per show, then check with 'postshow status'.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing configuration")
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration and profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n\n", cctx.resolvedConfigPath())

			settings := [][]string{
				{"Log directory", cfg.Paths.LogDir},
				{"State directory", cfg.Paths.StateDir},
				{"History database", cfg.HistoryDBPath()},
				{"Log level", cfg.Logging.Level},
				{"Log format", cfg.Logging.Format},
				{"Encoder binary", cfg.EncoderBinary()},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, settings))

			rows := make([][]string, 0, len(cfg.Profiles))
			for _, name := range cfg.ProfileNames() {
				profile := cfg.Profiles[name]
				rows = append(rows, []string{
					name,
					profile.Slug,
					strconv.Itoa(profile.Bitrate),
					profile.Album,
					profile.Artist,
					language.DisplayName(profile.Language),
					yesNo(profile.WriteDate),
					yesNo(profile.WriteTrackNo),
					yesNo(profile.LyricsEqualsComment),
				})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable(
				[]string{"Profile", "Slug", "kbit/s", "Album", "Artist", "Language", "Date", "Track#", "Lyrics"},
				rows, 2))
			return nil
		},
	}
}

func newConfigPathCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the resolved configuration file path",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var flagged string
			if cctx.configFlag != nil {
				flagged = strings.TrimSpace(*cctx.configFlag)
			}
			path, exists, err := config.ResolveConfigPath(flagged)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, path)
			if !exists {
				fmt.Fprintln(out, "(file does not exist yet; create it with 'postshow config init')")
			}
			return nil
		},
	}
}
