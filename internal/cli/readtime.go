package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jotter/jotter/pkg/readtime"
)

func (c *CLI) readTimeCommand() *cobra.Command {
	var (
		title string
		wpm   int
	)

	cmd := &cobra.Command{
		Use:   "readtime [file]",
		Short: "Estimate how long a text takes to read",
		Long:  "Estimate the read time of a file, or of stdin when no file or - is given. No backend is needed.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("wpm") {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				wpm = cfg.WordsPerMinute
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			content, err := readFile(c.In, path)
			if err != nil {
				return err
			}

			r := readtime.Estimate(title, content, wpm)
			fmt.Fprintf(c.Out, "%s (%d words)\n", r.Label, r.Words)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "title counted with the content")
	cmd.Flags().IntVar(&wpm, "wpm", readtime.DefaultWordsPerMinute, "words per minute")
	return cmd
}
