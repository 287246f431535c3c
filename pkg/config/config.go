package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"MarketPulse/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Sources struct {
		CoinGeckoBaseURL   string        `yaml:"coingecko_base_url"`
		DefiLlamaBaseURL   string        `yaml:"defillama_base_url"`
		AlternativeBaseURL string        `yaml:"alternative_base_url"`
		APIKey             string        `yaml:"api_key"`
		RequestTimeout     time.Duration `yaml:"request_timeout"`
		MaxAttempts        int           `yaml:"max_attempts"`
		BaseDelay          time.Duration `yaml:"base_delay"`
	} `yaml:"sources"`
	ETF struct {
		CacheFile string   `yaml:"cache_file"`
		Assets    []string `yaml:"assets"`
	} `yaml:"etf"`
	Scanner struct {
		Enabled       bool          `yaml:"enabled"`
		Interval      time.Duration `yaml:"interval"`
		Exchanges     []string      `yaml:"exchanges"`
		Watchlist     []string      `yaml:"watchlist"`
		MaxSymbols    int           `yaml:"max_symbols"`
		MaxConcurrent int           `yaml:"max_concurrent"`
		ExchangePause time.Duration `yaml:"exchange_pause"`
		Cooldown      time.Duration `yaml:"cooldown"`
		CandleLimit   int           `yaml:"candle_limit"`
	} `yaml:"scanner"`
	Cache struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("SERVER_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.Sources.APIKey = v
	}
	if v := os.Getenv("ETF_CACHE_FILE"); v != "" {
		c.ETF.CacheFile = v
	}
	if v := os.Getenv("SCAN_EXCHANGES"); v != "" {
		c.Scanner.Exchanges = strings.Split(v, ",")
	}
	if v := os.Getenv("SCAN_WATCHLIST"); v != "" {
		c.Scanner.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Sources.CoinGeckoBaseURL == "" {
		return fmt.Errorf("sources.coingecko_base_url is required")
	}
	if c.Sources.MaxAttempts < 1 {
		return fmt.Errorf("sources.max_attempts must be >= 1, got %d", c.Sources.MaxAttempts)
	}
	if c.Sources.BaseDelay <= 0 {
		return fmt.Errorf("sources.base_delay must be > 0")
	}
	if c.ETF.CacheFile == "" {
		return fmt.Errorf("etf.cache_file is required")
	}
	if c.Scanner.Enabled && c.Scanner.MaxConcurrent < 1 {
		return fmt.Errorf("scanner.max_concurrent must be >= 1, got %d", c.Scanner.MaxConcurrent)
	}
	for _, ex := range c.Scanner.Exchanges {
		switch ex {
		case "binance", "bybit", "okx", "kucoin", "gate":
		default:
			return fmt.Errorf("unknown exchange '%s'", ex)
		}
	}
	return nil
}
