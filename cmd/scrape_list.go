package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// scrapeListCmd represents the scrape-list command
var scrapeListCmd = &cobra.Command{
	Use:   "scrape-list [output]",
	Short: "Write the course codes the schedule scraper should visit",
	Long: `Orders every pensum course for scraping: shared courses first, the ones
in the most programs at the top, then the rest in the order they were
found. An output ending in .csv gets the full list with names and counts;
anything else gets a JSON array of codes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := filepath.Join(cfg.OutputDir, "scraping_list.json")
		if len(args) == 1 {
			out = args[0]
		}
		items, err := pipeline().ScrapeList(out)
		if err != nil {
			return err
		}
		shared := 0
		for _, item := range items {
			if item.Shared {
				shared++
			}
		}
		fmt.Printf("Wrote %d courses (%d shared) to %s\n", len(items), shared, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeListCmd)
}
