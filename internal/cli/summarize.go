package cli

import (
	"github.com/spf13/cobra"
)

func newSummarizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Drain the queue: summarize and dispatch queued articles",
		Long:  "Consumes articles already committed to the queue (for example by an earlier scrape against the Redis backend), summarizes each, and dispatches the enriched records.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := baseDeps()
			if err != nil {
				return err
			}
			defer func() { _ = d.log.Sync() }()

			p, err := d.buildPipeline(0, false)
			if err != nil {
				return err
			}
			return p.Process(cmd.Context())
		},
	}
}
