// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/study-schedule/internal/schemas"
	rootschemas "github.com/jonathan/study-schedule/schemas"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout for birth_date and start_date.
const DateLayout = "2006-01-02"

// Checkpoint backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or must be
// provided via CLI flags.
type Config struct {
	// Child
	ChildName string `json:"child_name,omitempty" yaml:"child_name,omitempty"`
	BirthDate string `json:"birth_date,omitempty" yaml:"birth_date,omitempty"` // YYYY-MM-DD
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"` // optional custom start

	// Inputs and outputs
	CorpusPath      string `json:"corpus_path,omitempty" yaml:"corpus_path,omitempty"`
	DataType        string `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	OutputURL       string `json:"output_url,omitempty" yaml:"output_url,omitempty"` // blob URL or local dir
	Schedule        string `json:"schedule,omitempty" yaml:"schedule,omitempty"`     // schedule key for document runs
	ScheduleParquet bool   `json:"schedule_parquet,omitempty" yaml:"schedule_parquet,omitempty"`

	// Checkpointing
	CheckpointBackend string `json:"checkpoint_backend,omitempty" yaml:"checkpoint_backend,omitempty"`
	CheckpointDir     string `json:"checkpoint_dir,omitempty" yaml:"checkpoint_dir,omitempty"`
	DatabaseURL       string `json:"database_url,omitempty" yaml:"database_url,omitempty"`

	// Text API
	TextAPIURL        string  `json:"text_api_url,omitempty" yaml:"text_api_url,omitempty"`
	TextField         string  `json:"text_field,omitempty" yaml:"text_field,omitempty"`
	MaxAttempts       int     `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	InitialBackoff    string  `json:"initial_backoff,omitempty" yaml:"initial_backoff,omitempty"`
	RequestTimeout    string  `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" yaml:"requests_per_second,omitempty"`

	// Behavior
	Font      string `json:"font,omitempty" yaml:"font,omitempty"`
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"`
	Verbose   bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// ValidationError reports a single invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config error: '%s' %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		DataType:          "Bible",
		OutputURL:         "./output",
		CheckpointBackend: BackendFile,
		CheckpointDir:     "./.checkpoints",
		TextAPIURL:        "https://www.sefaria.org/api/texts/{ref}?context=0",
		TextField:         "he",
		MaxAttempts:       5,
		InitialBackoff:    "1s",
		RequestTimeout:    "10s",
		Font:              "Ezra SIL",
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// LoadConfig loads configuration from a JSON or YAML file. The document is
// checked against the embedded config schema before it is decoded.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data, isYAML(path))
}

// Parse decodes configuration bytes. yamlDoc selects the YAML decoder.
func Parse(data []byte, yamlDoc bool) (*Config, error) {
	var doc map[string]any
	if yamlDoc {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}

	if err := schemas.ValidateDocument(rootschemas.Config, doc); err != nil {
		return nil, err
	}

	var cfg Config
	if yamlDoc {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config JSON: %w", err)
		}
	}
	return &cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them.
func (c *Config) Validate() error {
	if c.BirthDate != "" {
		if _, err := time.Parse(DateLayout, c.BirthDate); err != nil {
			return &ValidationError{Field: "birth_date", Message: "must be YYYY-MM-DD", Cause: err}
		}
	}
	if c.StartDate != "" {
		if _, err := time.Parse(DateLayout, c.StartDate); err != nil {
			return &ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD", Cause: err}
		}
	}
	if c.InitialBackoff != "" {
		if _, err := time.ParseDuration(c.InitialBackoff); err != nil {
			return &ValidationError{Field: "initial_backoff", Message: "is not a duration", Cause: err}
		}
	}
	if c.RequestTimeout != "" {
		if _, err := time.ParseDuration(c.RequestTimeout); err != nil {
			return &ValidationError{Field: "request_timeout", Message: "is not a duration", Cause: err}
		}
	}
	if c.MaxAttempts < 0 {
		return &ValidationError{Field: "max_attempts", Message: "must be at least 1"}
	}
	if c.RequestsPerSecond < 0 {
		return &ValidationError{Field: "requests_per_second", Message: "must be non-negative"}
	}
	if c.TextAPIURL != "" && !strings.Contains(c.TextAPIURL, "{ref}") {
		return &ValidationError{Field: "text_api_url", Message: "must contain {ref}"}
	}

	switch c.CheckpointBackend {
	case "", BackendFile:
	case BackendPostgres:
		if c.DSN() == "" {
			return &ValidationError{Field: "database_url", Message: "is required for the postgres checkpoint backend"}
		}
	default:
		return &ValidationError{Field: "checkpoint_backend", Message: fmt.Sprintf("unknown backend %q", c.CheckpointBackend)}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.ChildName, defaults.ChildName)
	fill(&result.BirthDate, defaults.BirthDate)
	fill(&result.StartDate, defaults.StartDate)
	fill(&result.CorpusPath, defaults.CorpusPath)
	fill(&result.DataType, defaults.DataType)
	fill(&result.OutputURL, defaults.OutputURL)
	fill(&result.Schedule, defaults.Schedule)
	fill(&result.CheckpointBackend, defaults.CheckpointBackend)
	fill(&result.CheckpointDir, defaults.CheckpointDir)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.TextAPIURL, defaults.TextAPIURL)
	fill(&result.TextField, defaults.TextField)
	fill(&result.InitialBackoff, defaults.InitialBackoff)
	fill(&result.RequestTimeout, defaults.RequestTimeout)
	fill(&result.Font, defaults.Font)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)

	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// DSN returns the configured database URL, falling back to DATABASE_URL.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return os.Getenv("DATABASE_URL")
}

// Birth parses BirthDate.
func (c *Config) Birth() (time.Time, error) {
	if c.BirthDate == "" {
		return time.Time{}, &ValidationError{Field: "birth_date", Message: "is required"}
	}
	t, err := time.Parse(DateLayout, c.BirthDate)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "birth_date", Message: "must be YYYY-MM-DD", Cause: err}
	}
	return t, nil
}

// CustomStart parses StartDate; nil when unset.
func (c *Config) CustomStart() (*time.Time, error) {
	if c.StartDate == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD", Cause: err}
	}
	return &t, nil
}

// Backoff returns InitialBackoff as a duration (zero when unset).
func (c *Config) Backoff() time.Duration {
	d, _ := time.ParseDuration(c.InitialBackoff)
	return d
}

// Timeout returns RequestTimeout as a duration (zero when unset).
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}
