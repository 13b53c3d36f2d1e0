package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"StarTrade/internal/calculator"
)

// Provider names.
const (
	ProviderYahoo  = "yahoo"
	ProviderBarAPI = "barapi"
	ProviderMock   = "mock"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr" default:":8080" validate:"required"`
	} `yaml:"server"`
	DataSource struct {
		Provider string `yaml:"provider" default:"yahoo" validate:"oneof=yahoo barapi mock"`
		BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
		APIKey   string `yaml:"api_key"`
		Range    string `yaml:"range" default:"6mo"`
		Interval string `yaml:"interval" default:"1d"`
	} `yaml:"data_source"`
	Indicators []calculator.Spec `yaml:"indicators"`
	Board      struct {
		StateFile string   `yaml:"state_file" default:"data/board.json"`
		Groups    []string `yaml:"groups"`
	} `yaml:"board"`
	Schedule struct {
		DigestCron string `yaml:"digest_cron" default:"0 0 22 * * 1-5"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Agent struct {
		BaseURL string        `yaml:"base_url" default:"http://localhost:8000" validate:"url"`
		Timeout time.Duration `yaml:"timeout" default:"60s" validate:"gte=0"`
	} `yaml:"agent"`
	Log struct {
		Level       string `yaml:"level" default:"info"`
		Environment string `yaml:"environment" default:"production" validate:"oneof=production development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

var validate = validator.New()

// Load reads config from a YAML file, then a .env file, then applies environment
// variable overrides and defaults.
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

	// .env never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	applyEnv(cfg)
	if err := applyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"SERVER_ADDR", &cfg.Server.Addr},
		{"DATA_PROVIDER", &cfg.DataSource.Provider},
		{"DATA_BASE_URL", &cfg.DataSource.BaseURL},
		{"DATA_API_KEY", &cfg.DataSource.APIKey},
		{"DATA_RANGE", &cfg.DataSource.Range},
		{"DATA_INTERVAL", &cfg.DataSource.Interval},
		{"BOARD_STATE_FILE", &cfg.Board.StateFile},
		{"CRON_DIGEST", &cfg.Schedule.DigestCron},
		{"TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID},
		{"SQLITE_PATH", &cfg.Database.SQLitePath},
		{"AGENT_BASE_URL", &cfg.Agent.BaseURL},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"APP_ENV", &cfg.Log.Environment},
		{"HTTPS_PROXY", &cfg.Proxy},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("AGENT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Agent.Timeout = d
		}
	}
}

// applyDefaults fills zero fields from the struct tags.
func applyDefaults(cfg *Config) error {
	if err := defaults.Set(cfg); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Indicators) == 0 {
		cfg.Indicators = calculator.DefaultSpecs
	}
	return nil
}

// TelegramEnabled reports whether both bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DataSource.Provider == ProviderBarAPI && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for provider %q", ProviderBarAPI)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.DigestCron); err != nil {
		return fmt.Errorf("schedule.digest_cron: %w", err)
	}
	if _, err := calculator.Build(c.Indicators); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	return nil
}
