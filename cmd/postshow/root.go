package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	cctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "postshow",
		Short:         "Post-process one recorded podcast episode",
		Long: `postshow turns a raw WAV capture into a released episode: it encodes the
recording to CBR MP3 with LAME, prompts for the episode metadata while the
encode runs, and rewrites the MP3's ID3 tag with the show profile's frames,
the exact play length, and chapters from an Audacity label file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newProcessCommand(cctx))
	rootCmd.AddCommand(newChaptersCommand())
	rootCmd.AddCommand(newConfigCommand(cctx))
	rootCmd.AddCommand(newHistoryCommand(cctx))
	rootCmd.AddCommand(newStatusCommand(cctx))

	return rootCmd
}
