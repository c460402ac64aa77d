package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/north-cloud/newsllm/internal/api"
	"github.com/north-cloud/newsllm/internal/logger"
)

func newRunCommand() *cobra.Command {
	var (
		limit    int
		verbose  bool
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: scrape, summarize, dispatch",
		Long:  "Scrapes every registered source onto the queue, then drains the queue through summarization and dispatch. With --schedule the pipeline runs repeatedly on a cron expression until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := baseDeps()
			if err != nil {
				return err
			}
			defer func() { _ = d.log.Sync() }()

			if limit == 0 {
				limit = d.cfg.NewsLimit
			}
			p, err := d.buildPipeline(limit, verbose)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			var statusAPI *api.Server
			if d.cfg.APIAddr != "" {
				statusAPI = api.New(d.cfg.APIAddr, d.queue, d.promReg, d.log)
				statusAPI.Start()
				defer func() { _ = statusAPI.Shutdown(context.Background()) }()
			}

			if schedule == "" {
				return p.Run(ctx)
			}

			c := cron.New()
			if _, err := c.AddFunc(schedule, func() {
				if err := p.Run(ctx); err != nil {
					d.log.Error("scheduled pipeline run failed", logger.Error(err))
				}
			}); err != nil {
				return fmt.Errorf("invalid schedule %q: %w", schedule, err)
			}

			d.log.Info("pipeline scheduled", logger.String("schedule", schedule))
			c.Start()
			defer c.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			select {
			case <-sig:
				d.log.Info("shutting down")
			case <-ctx.Done():
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "max articles kept per scraper (default from NEWS_LIMIT)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log each scraper as it starts")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron expression for repeated runs (e.g. \"0 * * * *\")")
	return cmd
}
