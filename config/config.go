package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ZeroRevenuePolicy controls what the pipeline does with an assembled
// snapshot whose TTM revenue is zero.
const (
	ZeroRevenueWarn    = "warn"    // persist the snapshot, log a warning
	ZeroRevenueDiscard = "discard" // drop the snapshot
)

type Config struct {
	Fundflow FundflowConfig `yaml:"fundflow"`
	Provider ProviderConfig `yaml:"provider"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type FundflowConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type ProviderConfig struct {
	QuoteURL        string               `yaml:"quote_url"`
	FundamentalsURL string               `yaml:"fundamentals_url"`
	ChartURL        string               `yaml:"chart_url"`
	UserAgent       string               `yaml:"user_agent"`
	Timeout         time.Duration        `yaml:"timeout"`
	ConnectionPool  ConnectionPoolConfig `yaml:"connection_pool"`
}

type ConnectionPoolConfig struct {
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnsPerHost int           `yaml:"max_conns_per_host"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

type PipelineConfig struct {
	// FetchDelay is the fixed pause between securities, throttling the
	// outbound request rate against the provider.
	FetchDelay        time.Duration `yaml:"fetch_delay"`
	ReferenceCurrency string        `yaml:"reference_currency"`
	ZeroRevenuePolicy string        `yaml:"zero_revenue_policy"`
}

type StorageConfig struct {
	DataDir      string   `yaml:"data_dir"`
	ListsDir     string   `yaml:"lists_dir"`
	TickerFile   string   `yaml:"ticker_file"`
	ManifestFile string   `yaml:"manifest_file"`
	S3           S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

func LoadConfig(path string) (*Config, error) {
	path = resolveConfigPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{
		Provider: ProviderConfig{
			QuoteURL:        "https://query1.finance.yahoo.com/v10/finance/quoteSummary",
			FundamentalsURL: "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries",
			ChartURL:        "https://query1.finance.yahoo.com/v8/finance/chart",
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			Timeout:         10 * time.Second,
			ConnectionPool: ConnectionPoolConfig{
				MaxIdleConns:    4,
				MaxConnsPerHost: 4,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		Pipeline: PipelineConfig{
			FetchDelay:        1500 * time.Millisecond,
			ReferenceCurrency: "USD",
			ZeroRevenuePolicy: ZeroRevenueWarn,
		},
		Storage: StorageConfig{
			DataDir:      "data",
			ListsDir:     "lists",
			TickerFile:   "tickers.txt",
			ManifestFile: "_manifest.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override S3 settings from environment variables if available
	if config.Storage.S3.Enabled {
		if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
			config.Storage.S3.AccessKeyID = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
			config.Storage.S3.SecretAccessKey = strings.TrimSpace(v)
		}
		if v := os.Getenv("AWS_REGION"); v != "" {
			config.Storage.S3.Region = strings.TrimSpace(v)
		}
		if v := os.Getenv("S3_BUCKET"); v != "" {
			config.Storage.S3.Bucket = strings.TrimSpace(v)
		}
	}

	config.Storage.S3.Bucket = strings.TrimSpace(config.Storage.S3.Bucket)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Fundflow.Name == "" {
		return fmt.Errorf("fundflow.name is required")
	}

	if cfg.Fundflow.Version == "" {
		return fmt.Errorf("fundflow.version is required")
	}

	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout must be greater than 0")
	}

	if cfg.Pipeline.FetchDelay < 0 {
		return fmt.Errorf("pipeline.fetch_delay must not be negative")
	}
	if cfg.Pipeline.ReferenceCurrency == "" {
		return fmt.Errorf("pipeline.reference_currency is required")
	}
	switch cfg.Pipeline.ZeroRevenuePolicy {
	case ZeroRevenueWarn, ZeroRevenueDiscard:
	default:
		return fmt.Errorf("pipeline.zero_revenue_policy must be %q or %q", ZeroRevenueWarn, ZeroRevenueDiscard)
	}

	if cfg.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if cfg.Storage.ManifestFile == "" {
		return fmt.Errorf("storage.manifest_file is required")
	}

	if cfg.Storage.S3.Enabled {
		if cfg.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required when S3 is enabled")
		}
		if cfg.Storage.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required when S3 is enabled")
		}
		if !isValidS3Bucket(cfg.Storage.S3.Bucket) {
			return fmt.Errorf("storage.s3.bucket '%s' is invalid", cfg.Storage.S3.Bucket)
		}
	}

	return nil
}

var s3BucketRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidS3Bucket(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return false
	}
	return s3BucketRegexp.MatchString(name)
}
