package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/manualmanul/XBN/internal/episode"
	"github.com/manualmanul/XBN/internal/history"
	"github.com/manualmanul/XBN/internal/logging"
	"github.com/manualmanul/XBN/internal/preflight"
	"github.com/manualmanul/XBN/internal/workflow"
)

func newProcessCommand(cctx *commandContext) *cobra.Command {
	var (
		profileName   string
		markersPath   string
		episodeNumber string
		episodeName   string
		comment       string
	)

	cmd := &cobra.Command{
		Use:   "process <recording.wav> <output-dir>",
		Short: "Encode, tag, and file one episode",
		Long: `Process runs the full pipeline for one episode: encode the WAV capture to
CBR MP3, collect the episode number, name, and comment (prompting for
anything not passed as a flag), and rewrite the MP3's tag from the show
profile. Chapters come from an Audacity label file when --markers is given.

The encode and the prompts run at the same time; interrupting the run stops
the encoder and leaves no partial output behind.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			for _, status := range preflight.CheckSystemDeps(cfg) {
				if !status.Available && !status.Optional {
					return fmt.Errorf("%s is not available (%s); install it or adjust [encoder] in the config", status.Name, status.Detail)
				}
			}

			commentProvided := cmd.Flags().Changed("comment")
			if !episode.Interactive(os.Stdin) {
				if strings.TrimSpace(episodeNumber) == "" || strings.TrimSpace(episodeName) == "" {
					return errors.New("stdin is not a terminal; pass --episode-number and --episode-name")
				}
				// Without a terminal there is nobody to answer the
				// comment prompt either.
				commentProvided = true
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}

			opts := []workflow.Option{}
			store, err := history.Open(cfg)
			if err != nil {
				logger.Warn("session history unavailable", logging.Error(err))
			} else {
				defer store.Close()
				opts = append(opts, workflow.WithHistory(store))
			}

			runner, err := workflow.New(cfg, logger, opts...)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := runner.Run(ctx, workflow.Request{
				Profile:         profileName,
				SourcePath:      args[0],
				OutputDir:       args[1],
				MarkersPath:     markersPath,
				EpisodeNumber:   episodeNumber,
				EpisodeName:     episodeName,
				Comment:         comment,
				CommentProvided: commentProvided,
			})
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Output", result.OutputPath},
				{"Duration", formatPlayTime(result.DurationMS)},
				{"Chapters", strconv.Itoa(result.ChapterCount)},
				{"Tag", result.TagOrigin.String()},
				{"Elapsed", result.Elapsed.Round(time.Second).String()},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Episode", result.Episode.Number + ": " + result.Episode.Name}, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Show profile to process with (required)")
	_ = cmd.MarkFlagRequired("profile")
	cmd.Flags().StringVarP(&markersPath, "markers", "m", "", "Audacity label file to turn into chapters")
	cmd.Flags().StringVar(&episodeNumber, "episode-number", "", "Episode number (prompted for when omitted)")
	cmd.Flags().StringVar(&episodeName, "episode-name", "", "Episode name (prompted for when omitted)")
	cmd.Flags().StringVar(&comment, "comment", "", "Episode comment (prompted for when omitted)")

	return cmd
}
