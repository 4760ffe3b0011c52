package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/openswoop/pensum/pkg/catalog"
	"github.com/openswoop/pensum/pkg/load"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to every key when read from the environment, so
// pensum_dir becomes PENSUM_PENSUM_DIR.
const EnvPrefix = "PENSUM"

// Config holds every setting of a run. Values come from flags, then the
// environment, then the config file, then the defaults.
type Config struct {
	PensumDir         string            `mapstructure:"pensum_dir"`
	ScheduleDir       string            `mapstructure:"schedule_dir"`
	OutputDir         string            `mapstructure:"output_dir"`
	ConsolidatedFiles []string          `mapstructure:"consolidated_files"`
	Backfill          string            `mapstructure:"backfill"`
	FanOutContext     bool              `mapstructure:"fan_out_context"`
	Envelope          bool              `mapstructure:"envelope"`
	Programs          []catalog.Program `mapstructure:"programs"`
	Aliases           load.Aliases      `mapstructure:"aliases"`
	Timeout           time.Duration     `mapstructure:"timeout"`

	BigQueryProject string `mapstructure:"bigquery_project"`
	BigQueryDataset string `mapstructure:"bigquery_dataset"`
	PubSubTopic     string `mapstructure:"pubsub_topic"`

	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDatabase   string `mapstructure:"mongo_database"`
	MongoCollection string `mapstructure:"mongo_collection"`
	MongoBatchSize  int    `mapstructure:"mongo_batch_size"`

	ChangelogAuthor    string `mapstructure:"changelog_author"`
	ChangelogBatchSize int    `mapstructure:"changelog_batch_size"`

	policy catalog.Backfill
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("pensum_dir", "materias/pensum-json")
	v.SetDefault("schedule_dir", "materias/horarios")
	v.SetDefault("output_dir", "materias")
	v.SetDefault("consolidated_files", []string{"general.json"})
	v.SetDefault("backfill", catalog.FirstNonEmpty.String())
	v.SetDefault("fan_out_context", true)
	v.SetDefault("envelope", true)
	v.SetDefault("timeout", 2*time.Minute)

	v.SetDefault("bigquery_project", "")
	v.SetDefault("bigquery_dataset", "pensum")
	v.SetDefault("pubsub_topic", "catalog-refreshed")

	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "uis")
	v.SetDefault("mongo_collection", "subjects")
	v.SetDefault("mongo_batch_size", 100)

	v.SetDefault("changelog_author", "pensum")
	v.SetDefault("changelog_batch_size", 100)
}

// Load reads envFile into the environment when it exists, then resolves the
// configuration through v. With an empty path, pensum.{yaml,json,toml} is
// looked up in the working directory and may be absent; an explicit path
// must exist.
func Load(v *viper.Viper, path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pensum")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	policy, err := catalog.ParseBackfill(c.Backfill)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}
	c.policy = policy

	if len(c.Programs) == 0 {
		c.Programs = append([]catalog.Program{}, catalog.DefaultPrograms...)
	}
	for i, p := range c.Programs {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("program %d has no name", i)
		}
		if p.PensumFile == "" {
			c.Programs[i].PensumFile = p.File
		}
		if catalog.IsNewPensum(p.Name) {
			c.Programs[i].NewPensum = true
		}
	}
	c.Aliases = c.Aliases.Merge(load.DefaultAliases)

	if c.MongoBatchSize < 1 {
		return fmt.Errorf("mongo_batch_size must be positive, got %d", c.MongoBatchSize)
	}
	if c.ChangelogBatchSize < 1 {
		return fmt.Errorf("changelog_batch_size must be positive, got %d", c.ChangelogBatchSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Policy is the parsed backfill setting.
func (c *Config) Policy() catalog.Backfill {
	return c.policy
}

// Loader returns a file loader using the configured aliases and policy.
func (c *Config) Loader(log *zap.Logger) *load.Loader {
	return load.NewLoader(c.Aliases, c.policy, log)
}
