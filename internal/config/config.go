package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/trendcli.log"`
}

// AnalysisConfig contains the trend-classification parameters. These
// mirror the screening tool's sidebar parameters.
type AnalysisConfig struct {
	Mode           string  `yaml:"mode" envconfig:"MODE" default:"strict" validate:"oneof=strict ma_above"`
	SlopeThreshold float64 `yaml:"slope_threshold" envconfig:"SLOPE_THRESHOLD" default:"1.0" validate:"gt=0"`
	CloseDays      int     `yaml:"close_days" envconfig:"CLOSE_DAYS" default:"5" validate:"min=2"`
	HeaderRows     int     `yaml:"header_rows" envconfig:"HEADER_ROWS" default:"1" validate:"min=1"`
	SkipRows       int     `yaml:"skip_rows" envconfig:"SKIP_ROWS" default:"0" validate:"min=0"`
	ConceptColumn  string  `yaml:"concept_column" envconfig:"CONCEPT_COLUMN" default:"所属概念"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir        string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir     string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports"`
	HistoryFile    string `yaml:"history_file" envconfig:"HISTORY_FILE" default:"stock_trend_history.csv"`
	LastBatchFile  string `yaml:"last_batch_file" envconfig:"LAST_BATCH_FILE" default:"last_batch.csv"`
	BatchTrendFile string `yaml:"batch_trend_file" envconfig:"BATCH_TREND_FILE" default:"batch_trend.csv"`
	ConceptFile    string `yaml:"concept_file" envconfig:"CONCEPT_FILE" default:"concept_ranking.csv"`
}

// Load loads configuration from environment variables and an optional
// config file (TRENDCLI_CONFIG or ./config.yaml). Defaults and
// environment variables are applied first; the file overrides them for
// the keys it sets.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("TREND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against the analysis parameter
// constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(&c.Analysis); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func configFilePath() string {
	if path := os.Getenv("TRENDCLI_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
