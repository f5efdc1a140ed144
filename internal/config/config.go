package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the application configuration. Values come from the YAML
// file named by CONFIG_PATH (if any) overlaid with environment variables.
type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	HTTP       HTTPConfig       `yaml:"http"`
	UseMockDB  bool             `yaml:"use_mock_db" env:"USE_MOCK_DB"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Cache      CacheConfig      `yaml:"cache"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Feed       FeedConfig       `yaml:"feed"`
	Broadcast  BroadcastConfig  `yaml:"broadcast"`
	Timeouts   TimeoutConfig    `yaml:"timeouts"`
}

// TelegramConfig configures the bot connection
type TelegramConfig struct {
	Token string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	// If true, use webhook mode; if false, use polling mode
	WebhookMode bool   `yaml:"webhook_mode" env:"WEBHOOK_MODE"`
	WebhookURL  string `yaml:"webhook_url" env:"WEBHOOK_URL"`
	// Telegram user ids allowed to moderate
	AdminIDs []int64 `yaml:"admin_ids" env:"ADMIN_IDS" env-separator:","`
}

// HTTPConfig configures the health, metrics and webhook server
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST"`
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
}

// Addr returns host:port
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type RedisConfig struct {
	URL string `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
}

// ClickHouseConfig configures the impression log. It is disabled while Host is empty.
type ClickHouseConfig struct {
	Host     string `yaml:"host" env:"CLICKHOUSE_HOST"`
	Port     int    `yaml:"port" env:"CLICKHOUSE_PORT" env-default:"9000"`
	Database string `yaml:"database" env:"CLICKHOUSE_DATABASE" env-default:"default"`
	User     string `yaml:"user" env:"CLICKHOUSE_USER" env-default:"default"`
	Password string `yaml:"password" env:"CLICKHOUSE_PASSWORD"`
	UseTLS   bool   `yaml:"use_tls" env:"CLICKHOUSE_USE_TLS"`
}

// Enabled reports whether impressions should be logged
func (c ClickHouseConfig) Enabled() bool {
	return c.Host != ""
}

type CacheConfig struct {
	CategoriesTTL time.Duration `yaml:"categories_ttl" env:"CACHE_CATEGORIES_TTL" env-default:"1h"`
	ListingsTTL   time.Duration `yaml:"listings_ttl" env:"CACHE_LISTINGS_TTL" env-default:"10m"`
}

type RateLimitConfig struct {
	Limit  int           `yaml:"limit" env:"RATE_LIMIT" env-default:"3"`
	Window time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"3s"`
}

type FeedConfig struct {
	PageSize int `yaml:"page_size" env:"FEED_PAGE_SIZE" env-default:"10"`
	// A listings ad follows every AdEvery-th listing
	AdEvery int `yaml:"ad_every" env:"FEED_AD_EVERY" env-default:"3"`
}

type BroadcastConfig struct {
	Interval time.Duration `yaml:"interval" env:"BROADCAST_INTERVAL" env-default:"1h"`
}

type TimeoutConfig struct {
	Startup  time.Duration `yaml:"startup" env:"STARTUP_TIMEOUT" env-default:"30s"`
	Shutdown time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load reads the YAML file at path, or at CONFIG_PATH when path is empty,
// and overlays environment variables. Without a file only the environment
// is used.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.Telegram.WebhookMode && c.Telegram.WebhookURL == "" {
		return errors.New("WEBHOOK_URL is required when WEBHOOK_MODE is true")
	}
	if !c.UseMockDB && c.Postgres.URL == "" {
		return errors.New("DATABASE_URL is required when USE_MOCK_DB is not set")
	}
	if c.Redis.URL == "" {
		return errors.New("REDIS_URL is required")
	}
	if c.Cache.CategoriesTTL <= 0 || c.Cache.ListingsTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}
	if c.RateLimit.Limit <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit and window must be positive")
	}
	if c.Feed.PageSize <= 0 || c.Feed.AdEvery <= 0 {
		return errors.New("feed page size and ad frequency must be positive")
	}
	if c.Broadcast.Interval < time.Minute {
		return errors.New("BROADCAST_INTERVAL must be at least 1m")
	}
	return nil
}
