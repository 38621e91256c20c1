package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Storage struct {
		Type string `yaml:"type"` // clickhouse or memory
	} `yaml:"storage"`
	ClickHouse struct {
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
	Cache struct {
		Enabled   bool          `yaml:"enabled"`
		Redis     bool          `yaml:"redis"`
		Addr      string        `yaml:"addr"`
		Password  string        `yaml:"password"`
		DB        int           `yaml:"db"`
		ScreenTTL time.Duration `yaml:"screen_ttl"`
		IndexTTL  time.Duration `yaml:"index_ttl"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled       bool     `yaml:"enabled"`
		Brokers       []string `yaml:"brokers"`
		AnalysisTopic string   `yaml:"analysis_topic"`
		SyncTopic     string   `yaml:"sync_topic"`
		RequiredAcks  int      `yaml:"required_acks"`
		Compression   string   `yaml:"compression"`
	} `yaml:"kafka"`
	AlphaVantage struct {
		APIKey            string        `yaml:"api_key"`
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		RequestsPerMinute float64       `yaml:"requests_per_minute"`
	} `yaml:"alphavantage"`
	EastMoney struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"eastmoney"`
	Gemini struct {
		APIKey          string        `yaml:"api_key"`
		BaseURL         string        `yaml:"base_url"`
		Model           string        `yaml:"model"`
		Timeout         time.Duration `yaml:"timeout"`
		Temperature     float64       `yaml:"temperature"`
		MaxOutputTokens int           `yaml:"max_output_tokens"`
	} `yaml:"gemini"`
	Analysis struct {
		DailyLimit  int `yaml:"daily_limit"`
		HistoryBars int `yaml:"history_bars"`
		PromptBars  int `yaml:"prompt_bars"`
	} `yaml:"analysis"`
	Screener struct {
		UniverseSize int `yaml:"universe_size"`
		Concurrency  int `yaml:"concurrency"`
	} `yaml:"screener"`
	Scheduler struct {
		Enabled      bool   `yaml:"enabled"`
		IndexRefresh string `yaml:"index_refresh"` // cron spec
	} `yaml:"scheduler"`
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

	c.applyDefaults()

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

	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("STORAGE"); v != "" {
		c.Storage.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "clickhouse"
	}
	if c.AlphaVantage.BaseURL == "" {
		c.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	}
	if c.AlphaVantage.RequestsPerMinute <= 0 {
		c.AlphaVantage.RequestsPerMinute = 5
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-pro"
	}
	if c.Gemini.MaxOutputTokens == 0 {
		c.Gemini.MaxOutputTokens = 2048
	}
	if c.Analysis.DailyLimit == 0 {
		c.Analysis.DailyLimit = 10
	}
	if c.Analysis.HistoryBars == 0 {
		c.Analysis.HistoryBars = 30
	}
	if c.Analysis.PromptBars == 0 {
		c.Analysis.PromptBars = 10
	}
	if c.Screener.UniverseSize == 0 {
		c.Screener.UniverseSize = 20
	}
	if c.Screener.Concurrency == 0 {
		c.Screener.Concurrency = 5
	}
	if c.Cache.ScreenTTL == 0 {
		c.Cache.ScreenTTL = 60 * time.Second
	}
	if c.Cache.IndexTTL == 0 {
		c.Cache.IndexTTL = 30 * time.Second
	}
	if c.Scheduler.IndexRefresh == "" {
		c.Scheduler.IndexRefresh = "*/5 * * * *"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Storage.Type != "clickhouse" && c.Storage.Type != "memory" {
		return fmt.Errorf("storage.type must be 'clickhouse' or 'memory', got '%s'", c.Storage.Type)
	}
	if c.Storage.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.AlphaVantage.APIKey == "" {
		return fmt.Errorf("alphavantage.api_key is required")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required")
	}
	if c.Analysis.DailyLimit < 0 {
		return fmt.Errorf("analysis.daily_limit cannot be negative")
	}
	return nil
}
