package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultTickers is the watchlist used when no tickers are supplied.
const DefaultTickers = "PNLF, SCMA, BKSL, SMGR, HUMI, BBCA, ADRO, ANTM, BRMS, PANI"

// Data source providers.
const (
	ProviderYahoo = "yahoo"
	ProviderREST  = "rest"
	ProviderMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Server     Server     `yaml:"server"`
	DataSource DataSource `yaml:"data_source"`
	Scanner    Scanner    `yaml:"scanner"`
	Telegram   Telegram   `yaml:"telegram"`
	Log        Log        `yaml:"log"`
	Proxy      string     `yaml:"proxy" env:"HTTPS_PROXY"`
}

type Server struct {
	Port string `yaml:"port" env:"SERVER_PORT"`
}

type DataSource struct {
	Provider     string        `yaml:"provider" env:"DATA_PROVIDER"`
	BaseURL      string        `yaml:"base_url" env:"DATA_BASE_URL"`
	APIKey       string        `yaml:"api_key" env:"DATA_API_KEY"`
	LookbackDays int           `yaml:"lookback_days" env:"LOOKBACK_DAYS"`
	Timeout      time.Duration `yaml:"timeout" env:"DATA_TIMEOUT"`
}

type Scanner struct {
	MarketSuffix   string `yaml:"market_suffix" env:"MARKET_SUFFIX"`
	DefaultTickers string `yaml:"default_tickers" env:"DEFAULT_TICKERS"`
	Concurrency    int    `yaml:"concurrency" env:"SCAN_CONCURRENCY"`
}

type Telegram struct {
	BotToken   string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID     string `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	DigestCron string `yaml:"digest_cron" env:"CRON_DIGEST"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
}

// Enabled reports whether the Telegram digest and commands should run.
func (t Telegram) Enabled() bool { return t.BotToken != "" }

// Load reads config from a YAML file, then applies .env and environment
// variable overrides and finally defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env only fills variables that are not already set.
	_ = godotenv.Load()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.LookbackDays == 0 {
		c.DataSource.LookbackDays = 180
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.Scanner.MarketSuffix == "" {
		c.Scanner.MarketSuffix = ".JK"
	}
	if c.Scanner.DefaultTickers == "" {
		c.Scanner.DefaultTickers = DefaultTickers
	}
	if c.Scanner.Concurrency == 0 {
		c.Scanner.Concurrency = 1
	}
	if c.Telegram.DigestCron == "" {
		c.Telegram.DigestCron = "0 30 16 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderREST)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.LookbackDays <= 0 {
		return fmt.Errorf("data_source.lookback_days must be positive")
	}
	if c.Scanner.Concurrency < 1 {
		return fmt.Errorf("scanner.concurrency must be at least 1")
	}
	if c.Telegram.Enabled() && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}
