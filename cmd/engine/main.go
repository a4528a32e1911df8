package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remotejobs-engine/internal/config"
)

var (
	flagDataDir string
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Remote job listing and matching engine",
	Long: `engine serves the job listing API: filtered search over imported jobs,
related-job ranking, and bulk import for the site's ingest pipeline.

Configuration lives in <data-dir>/config.yml and is created on first run.
Environment variables (and a .env file in the working directory) override it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default $"+config.EnvDataDir+" or .)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default <data-dir>/config.yml)")
}

func main() {
	config.LoadDotEnv()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
