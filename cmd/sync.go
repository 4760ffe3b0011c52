package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/openswoop/pensum/pkg/database"
	"github.com/openswoop/pensum/pkg/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRun bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the merged catalog to BigQuery",
	Long: `Merges the catalog into the BigQuery courses table by course code, then
publishes a catalog-refreshed event with the number of subjects and a run
id. Courses no longer in the catalog are removed from the table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.BigQueryProject == "" {
			return errors.New("bigquery_project is not set")
		}
		records, err := readCatalog()
		if err != nil {
			return err
		}
		meta := report.NewMetadata(records, len(cfg.Programs), pipeline().Now())

		if dryRun {
			fmt.Printf("Dry run: %d subjects will not be inserted\n", len(records))
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		// Connect to BigQuery
		bq, err := database.NewBigQuery(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
		if err != nil {
			return fmt.Errorf("failed to connect to bigquery: %w", err)
		}
		if err := pipeline().Save(ctx, bq, records); err != nil {
			return fmt.Errorf("failed to merge courses: %w", err)
		}

		// Connect to PubSub
		pub, err := database.NewPublisher(ctx, cfg.BigQueryProject, cfg.PubSubTopic)
		if err != nil {
			return err
		}
		defer pub.Close()

		id, err := pub.Publish(ctx, database.RefreshedEvent{TotalSubjects: len(records), RunID: meta.RunID})
		if err != nil {
			return err
		}
		logger.Info("event published", zap.String("topic", cfg.PubSubTopic), zap.String("id", id))

		fmt.Println("Done.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without modifying the database (default: false)")
	syncCmd.Flags().StringVarP(&input, "input", "i", "", "Catalog file to sync (default: the merge output)")
}
