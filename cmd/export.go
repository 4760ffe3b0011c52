package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/openswoop/pensum/pkg/app"
	"github.com/openswoop/pensum/pkg/catalog"
	"github.com/openswoop/pensum/pkg/database"
	"github.com/openswoop/pensum/pkg/load"
	"github.com/spf13/cobra"
)

var (
	input      string
	verifyFile string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a merged catalog to a database or migration file",
}

var changelogCmd = &cobra.Command{
	Use:   "changelog [output]",
	Short: "Write a Liquibase MongoDB changelog that inserts the catalog",
	Long: `Splits the catalog into change sets of changelog_batch_size documents,
each inserting into mongo_collection. The changelog is read back and the
documents it holds are written to a verification file; the command fails
when the counts differ.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readCatalog()
		if err != nil {
			return err
		}
		out := filepath.Join(cfg.OutputDir, app.ChangelogFile)
		if len(args) == 1 {
			out = args[0]
		}
		verify := verifyFile
		if verify == "" {
			verify = filepath.Join(cfg.OutputDir, "temp", app.VerifyFile)
		}

		res, err := pipeline().Changelog(records, out, verify)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d change sets to %s\n", res.ChangeSets, res.Path)
		fmt.Printf("Input: %d documents, changelog: %d documents (%s)\n", res.Input, res.Output, res.VerifyPath)
		if !res.Matches() {
			return fmt.Errorf("changelog holds %d documents, expected %d", res.Output, res.Input)
		}
		return nil
	},
}

var mongoCmd = &cobra.Command{
	Use:   "mongo",
	Short: "Upsert the catalog into MongoDB, one document per course code",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readCatalog()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		db, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.MongoBatchSize, logger.Named("mongo"))
		if err != nil {
			return err
		}
		if err := pipeline().Save(ctx, db, records); err != nil {
			return fmt.Errorf("failed to save to mongo: %w", err)
		}
		fmt.Printf("Upserted %d subjects into %s.%s\n", len(records), cfg.MongoDatabase, cfg.MongoCollection)
		return nil
	},
}

var sqliteCmd = &cobra.Command{
	Use:   "sqlite [file]",
	Short: "Replace the catalog snapshot in a local SQLite database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readCatalog()
		if err != nil {
			return err
		}
		file := filepath.Join(cfg.OutputDir, "pensum.db")
		if len(args) == 1 {
			file = args[0]
		}

		db, err := database.NewSqlite(file)
		if err != nil {
			return err
		}
		if err := pipeline().Save(context.Background(), db, records); err != nil {
			return fmt.Errorf("failed to save to sqlite: %w", err)
		}
		fmt.Println("Saved to database", file)
		return nil
	},
}

// readCatalog loads the catalog named by --input, or the default merge output.
func readCatalog() (catalog.Records, error) {
	path := input
	if path == "" {
		path = pipeline().MergedPath()
	}
	return load.Catalog(path)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(changelogCmd, mongoCmd, sqliteCmd)

	exportCmd.PersistentFlags().StringVarP(&input, "input", "i", "", "Catalog file to export (default: the merge output)")
	changelogCmd.Flags().StringVar(&verifyFile, "verify", "", "Verification file (default: <output_dir>/temp/subjects_reconstructed.json)")
}
