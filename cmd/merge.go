package cmd

import (
	"os"

	"github.com/openswoop/pensum/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	writeCsv bool
	bare     bool
	topN     int
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge [output]",
	Short: "Merge every pensum and schedule file into one catalog",
	Long: `Loads the curriculum of every configured program, folds in the schedule
files and writes one record per course code. Files that are missing or
malformed are skipped and listed in the summary. Without an output the
catalog is written to <output_dir>/merged_subjects_optimized.json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline()
		out := p.MergedPath()
		if len(args) == 1 {
			out = args[0]
		}

		res, err := p.Build()
		if err != nil {
			return err
		}
		meta, err := p.WriteCatalog(out, res.Records, cfg.Envelope && !bare)
		if err != nil {
			return err
		}
		if meta != nil {
			logger.Info("run", zap.String("runId", meta.RunID))
		}
		if writeCsv {
			if _, _, err := p.WriteCsvs(out, res.Records); err != nil {
				return err
			}
		}

		report.PrintSummary(os.Stdout, report.Summarize(res.Records), report.TopShared(res.Records, topN), res.Issues)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().BoolVar(&writeCsv, "csv", false, "Also write flat course and group CSV files (default: false)")
	mergeCmd.Flags().BoolVar(&bare, "bare", false, "Write a bare array without the metadata envelope (default: false)")
	mergeCmd.Flags().IntVar(&topN, "top", 10, "Number of most shared courses listed in the summary")
}
