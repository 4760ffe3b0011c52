package cmd

import (
	"fmt"
	"os"

	"github.com/openswoop/pensum/pkg/app"
	"github.com/openswoop/pensum/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	envFile string
	verbose bool

	v      = viper.New()
	cfg    *config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pensum",
	Short: "Merge university curricula and class schedules into one course catalog",
	Long: `Reads the curriculum (pensum) of every academic program and the class
schedules scraped from the portal, and merges them into a single catalog
with one record per course code. The catalog can be written as JSON or CSV
and exported to SQLite, MongoDB or BigQuery.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if logger, err = newLogger(verbose); err != nil {
			return err
		}
		if cfg, err = config.Load(v, cfgFile, envFile); err != nil {
			return err
		}
		logger.Debug("configuration loaded", zap.String("file", v.ConfigFileUsed()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./pensum.yaml if present)")
	flags.StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before the environment is read")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log debug output (default: false)")

	flags.String("pensum-dir", "", "Directory holding the curriculum files")
	flags.String("schedule-dir", "", "Directory holding the schedule files")
	flags.String("output-dir", "", "Directory outputs are written to")
	flags.String("backfill", "", "Backfill policy: first-non-empty or overwrite")
	_ = v.BindPFlag("pensum_dir", flags.Lookup("pensum-dir"))
	_ = v.BindPFlag("schedule_dir", flags.Lookup("schedule-dir"))
	_ = v.BindPFlag("output_dir", flags.Lookup("output-dir"))
	_ = v.BindPFlag("backfill", flags.Lookup("backfill"))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	c.DisableStacktrace = true
	return c.Build()
}

func pipeline() *app.Pipeline {
	return app.New(cfg, logger)
}
