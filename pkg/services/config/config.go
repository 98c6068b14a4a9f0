package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/business-pulse/pkg/services/health"
	"github.com/de-tools/business-pulse/pkg/services/metrics"
	"github.com/de-tools/business-pulse/pkg/services/workflow"
	"github.com/spf13/viper"
)

const EnvPrefix = "PULSE"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DuckDB     DuckDBConfig     `mapstructure:"duckdb"`
	Benchmarks BenchmarksConfig `mapstructure:"benchmarks"`
	Redis      RedisConfig      `mapstructure:"redis"`
	S3         S3Config         `mapstructure:"s3"`
	Workflow   WorkflowConfig   `mapstructure:"workflow"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DuckDBConfig struct {
	Path string `mapstructure:"path"`
}

// BenchmarksConfig points at an optional INI file; the duckdb table is used when empty.
type BenchmarksConfig struct {
	File string `mapstructure:"file"`
}

// RedisConfig leaves caching and locking off when Addr is empty.
type RedisConfig struct {
	Addr       string        `mapstructure:"addr"`
	Password   string        `mapstructure:"password"`
	DB         int           `mapstructure:"db"`
	SummaryTTL time.Duration `mapstructure:"summary_ttl"`
}

// S3Config leaves publishing off when Bucket is empty.
type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

type WorkflowConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
}

type ScoringConfig struct {
	Weights health.Weights `mapstructure:"weights"`
}

type MetricsConfig struct {
	CLVMultiplier   float64 `mapstructure:"clv_multiplier"`
	GrossMarginRate float64 `mapstructure:"gross_margin_rate"`
}

func setDefaults(v *viper.Viper) {
	metricsDefaults := metrics.DefaultSettings()
	runnerDefaults := workflow.DefaultRunnerConfig()
	weights := health.DefaultWeights()

	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("duckdb.path", "business-pulse.db")
	v.SetDefault("benchmarks.file", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.summary_ttl", 5*time.Minute)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "reports")
	v.SetDefault("s3.region", "")
	v.SetDefault("workflow.concurrency", runnerDefaults.Concurrency)
	v.SetDefault("workflow.lock_ttl", runnerDefaults.LockTTL)
	v.SetDefault("scoring.weights.sales", weights.Sales)
	v.SetDefault("scoring.weights.marketing", weights.Marketing)
	v.SetDefault("scoring.weights.financial", weights.Financial)
	v.SetDefault("scoring.weights.customer", weights.Customer)
	v.SetDefault("scoring.weights.kpi", weights.KPI)
	v.SetDefault("metrics.clv_multiplier", metricsDefaults.CLVMultiplier)
	v.SetDefault("metrics.gross_margin_rate", metricsDefaults.GrossMarginRate)
}

// Load reads the optional config file at path and applies PULSE_* environment
// overrides, e.g. PULSE_DUCKDB_PATH for duckdb.path.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring.weights: %w", err)
	}
	if c.Workflow.Concurrency <= 0 {
		return fmt.Errorf("workflow.concurrency must be positive, got %d", c.Workflow.Concurrency)
	}
	if c.Metrics.CLVMultiplier <= 0 {
		return fmt.Errorf("metrics.clv_multiplier must be positive, got %v", c.Metrics.CLVMultiplier)
	}
	if c.Metrics.GrossMarginRate < 0 || c.Metrics.GrossMarginRate > 1 {
		return fmt.Errorf("metrics.gross_margin_rate must be within [0, 1], got %v", c.Metrics.GrossMarginRate)
	}
	return nil
}

func (c Config) HealthSettings() health.Settings {
	s := health.DefaultSettings()
	s.Weights = c.Scoring.Weights
	return s
}

func (c Config) MetricsSettings() metrics.Settings {
	s := metrics.DefaultSettings()
	s.CLVMultiplier = c.Metrics.CLVMultiplier
	s.GrossMarginRate = c.Metrics.GrossMarginRate
	return s
}

func (c Config) RunnerConfig() workflow.RunnerConfig {
	return workflow.RunnerConfig{
		Concurrency: c.Workflow.Concurrency,
		LockTTL:     c.Workflow.LockTTL,
	}
}
