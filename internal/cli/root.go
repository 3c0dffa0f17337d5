// Command-line surface for the enrichment pipeline.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vacancy-enricher",
	Short: "Enrich scraped job listings with full descriptions",
	Long: `vacancy-enricher fetches full descriptions (or PDF vacancy notices)
for job listings produced by per-organization scrapers, with caching,
rate-limit circuit breaking and structured run logs.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "path to configuration file")
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(validateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
