package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manualmanul/XBN/internal/markers"
)

func newChaptersCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "chapters <labels-file>",
		Short:       "Preview the chapters an Audacity label file produces",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			chapters, err := markers.ParseFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(chapters) == 0 {
				fmt.Fprintln(out, "No labels found")
				return nil
			}

			rows := make([][]string, 0, len(chapters))
			for i, chapter := range chapters {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					formatTimestamp(chapter.Start),
					formatTimestamp(chapter.End),
					chapter.Text,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Start", "End", "Title"}, rows, 0))
			return nil
		},
	}
}
