// Package cli implements the newsllm command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	cfgFile string
	debug   bool

	rootCmd = &cobra.Command{
		Use:   "newsllm",
		Short: "Scrape, summarize and dispatch news articles",
		Long:  "newsllm scrapes articles from configured sources, queues them, enriches each with an LLM-generated summary and tags, and dispatches the result to notification channels.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to config.
	_ = godotenv.Load()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; environment variables take precedence)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("newsllm version %s\n", version)
		},
	})
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newScrapeCommand())
	rootCmd.AddCommand(newSummarizeCommand())
}
