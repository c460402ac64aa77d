package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/north-cloud/newsllm/internal/scraper"
)

func newScrapeCommand() *cobra.Command {
	var (
		limit   int
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape all sources and enqueue the articles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := baseDeps()
			if err != nil {
				return err
			}
			defer func() { _ = d.log.Sync() }()

			if limit == 0 {
				limit = d.cfg.NewsLimit
			}

			articles := d.scraperRegistry().ScrapeAll(cmd.Context(), scraper.Options{
				Limit:   limit,
				Verbose: verbose,
			})
			size, err := d.queue.Size(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("scraped %d articles; queue %q now holds %d items\n", len(articles), d.queue.Name(), size)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "max articles kept per scraper (default from NEWS_LIMIT)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log each scraper as it starts")
	return cmd
}
