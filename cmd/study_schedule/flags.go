package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jonathan/study-schedule/internal/config"
	"github.com/jonathan/study-schedule/internal/logging"
	"github.com/spf13/cobra"
)

// configFlags are the flags shared by every subcommand. Each command owns its
// own instance.
type configFlags struct {
	configPath        string
	childName         string
	birthDate         string
	startDate         string
	corpusPath        string
	dataType          string
	outputURL         string
	schedule          string
	scheduleParquet   bool
	checkpointBackend string
	checkpointDir     string
	databaseURL       string
	textAPIURL        string
	textField         string
	maxAttempts       int
	initialBackoff    string
	requestTimeout    string
	requestsPerSecond float64
	font              string
	logLevel          string
	logFormat         string
	verbose           bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	// Config file flag (processed first)
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")

	cmd.Flags().StringVarP(&f.childName, "name", "n", "", "Child's name")
	cmd.Flags().StringVarP(&f.birthDate, "birth-date", "b", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "Custom start date (YYYY-MM-DD, used when the child is at least 5)")
	cmd.Flags().StringVar(&f.corpusPath, "corpus", "", "Path to the tracking sheet CSV")
	cmd.Flags().StringVar(&f.dataType, "data-type", "", "Tracking sheet data type to schedule (default Bible)")
	cmd.Flags().StringVarP(&f.outputURL, "out", "o", "", "Output directory or bucket URL (file://, mem://, s3://, gs://)")
	cmd.Flags().StringVar(&f.schedule, "schedule", "", "Schedule key or CSV name to assemble (defaults to the latest schedule)")
	cmd.Flags().BoolVar(&f.scheduleParquet, "parquet", false, "Also write the schedule as Parquet")
	cmd.Flags().StringVar(&f.checkpointBackend, "checkpoint-backend", "", "Checkpoint backend: file or postgres")
	cmd.Flags().StringVar(&f.checkpointDir, "checkpoint-dir", "", "Directory for file checkpoints")
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().StringVar(&f.textAPIURL, "text-api", "", "Text API URL template containing {ref}")
	cmd.Flags().StringVar(&f.textField, "text-field", "", "Response field holding the text (he or text)")
	cmd.Flags().IntVar(&f.maxAttempts, "max-attempts", 0, "Attempts per reference before giving up")
	cmd.Flags().StringVar(&f.initialBackoff, "backoff", "", "Initial retry backoff (e.g. 1s)")
	cmd.Flags().StringVar(&f.requestTimeout, "timeout", "", "Per-request timeout (e.g. 10s)")
	cmd.Flags().Float64Var(&f.requestsPerSecond, "rps", 0, "Maximum text API requests per second (0 = unlimited)")
	cmd.Flags().StringVar(&f.font, "font", "", "Hebrew font family for the document")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "Log format: text or json")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed summaries")
}

// resolve loads the config file, applies explicitly set flags on top, fills
// defaults and validates the result.
func (f *configFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if f.configPath != "" {
		loadedCfg, err := config.LoadConfig(f.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setString("name", &cfg.ChildName, f.childName)
	setString("birth-date", &cfg.BirthDate, f.birthDate)
	setString("start-date", &cfg.StartDate, f.startDate)
	setString("corpus", &cfg.CorpusPath, f.corpusPath)
	setString("data-type", &cfg.DataType, f.dataType)
	setString("out", &cfg.OutputURL, f.outputURL)
	setString("schedule", &cfg.Schedule, f.schedule)
	setString("checkpoint-backend", &cfg.CheckpointBackend, f.checkpointBackend)
	setString("checkpoint-dir", &cfg.CheckpointDir, f.checkpointDir)
	setString("db-url", &cfg.DatabaseURL, f.databaseURL)
	setString("text-api", &cfg.TextAPIURL, f.textAPIURL)
	setString("text-field", &cfg.TextField, f.textField)
	setString("backoff", &cfg.InitialBackoff, f.initialBackoff)
	setString("timeout", &cfg.RequestTimeout, f.requestTimeout)
	setString("font", &cfg.Font, f.font)
	setString("log-level", &cfg.LogLevel, f.logLevel)
	setString("log-format", &cfg.LogFormat, f.logFormat)
	if changed("parquet") {
		cfg.ScheduleParquet = f.scheduleParquet
	}
	if changed("max-attempts") {
		cfg.MaxAttempts = f.maxAttempts
	}
	if changed("rps") {
		cfg.RequestsPerSecond = f.requestsPerSecond
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Verbose && f.configPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", f.configPath)
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return logging.New(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel})
}
