// Package config provides configuration management for the premarket screener.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Screen        ScreenConfig       `mapstructure:"screen"`
	Scan          ScanConfig         `mapstructure:"scan"`
	Provider      ProviderConfig     `mapstructure:"provider"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Server        ServerConfig       `mapstructure:"server"`
	Journal       JournalConfig      `mapstructure:"journal"`
}

// ScreenConfig holds the screening thresholds. Every threshold is named
// configuration so boundary values can be exercised directly in tests.
type ScreenConfig struct {
	PriceCeiling             float64 `mapstructure:"price_ceiling"`
	GapPercentMin            float64 `mapstructure:"gap_percent_min"`
	VolumeMin                int64   `mapstructure:"volume_min"`
	MarketCapCeilingMillions float64 `mapstructure:"market_cap_ceiling_millions"`
	RelativeVolumeMin        float64 `mapstructure:"relative_volume_min"`
	ExtraFilter              string  `mapstructure:"extra_filter"` // "relative_volume" or "market_cap"
}

// ScanConfig holds scan timing and tracker policy configuration.
type ScanConfig struct {
	IntervalSeconds        int    `mapstructure:"interval_seconds"`
	SummaryWindowMinutes   int    `mapstructure:"summary_window_minutes"`
	EpochPolicy            string `mapstructure:"epoch_policy"` // "monotonic" or "rolling"
	WindowOpenHour         int    `mapstructure:"window_open_hour"`
	WindowCloseHour        int    `mapstructure:"window_close_hour"`
	Timezone               string `mapstructure:"timezone"`
	SnapshotTimeoutSeconds int    `mapstructure:"snapshot_timeout_seconds"`
	FetchConcurrency       int    `mapstructure:"fetch_concurrency"`
}

// ProviderConfig holds market-data provider configuration.
type ProviderConfig struct {
	Name          string   `mapstructure:"name"` // "finnhub" or "yahoo"
	FinnhubAPIKey string   `mapstructure:"finnhub_api_key"`
	Symbols       []string `mapstructure:"symbols"` // universe for providers without a listing endpoint
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// ServerConfig holds the HTTP surface and keepalive configuration.
type ServerConfig struct {
	Port                     int    `mapstructure:"port"`
	KeepaliveURL             string `mapstructure:"keepalive_url"`
	KeepaliveIntervalSeconds int    `mapstructure:"keepalive_interval_seconds"`
}

// JournalConfig holds the alert journal configuration.
// An empty path disables journaling.
type JournalConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/premarket-screener"
	}
	return filepath.Join(home, ".config", "premarket-screener")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("screen.price_ceiling", 5.00)
	v.SetDefault("screen.gap_percent_min", 20.0)
	v.SetDefault("screen.volume_min", 100000)
	v.SetDefault("screen.market_cap_ceiling_millions", 300.0)
	v.SetDefault("screen.relative_volume_min", 2.0)
	v.SetDefault("screen.extra_filter", "relative_volume")

	v.SetDefault("scan.interval_seconds", 600)
	v.SetDefault("scan.summary_window_minutes", 10)
	v.SetDefault("scan.epoch_policy", "monotonic")
	v.SetDefault("scan.window_open_hour", 4)
	v.SetDefault("scan.window_close_hour", 9)
	v.SetDefault("scan.timezone", "America/New_York")
	v.SetDefault("scan.snapshot_timeout_seconds", 10)
	v.SetDefault("scan.fetch_concurrency", 4)

	v.SetDefault("provider.name", "finnhub")

	v.SetDefault("notifications.telegram.enabled", true)

	v.SetDefault("server.port", 10000)
	v.SetDefault("server.keepalive_interval_seconds", 840)
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	// Pick up a local .env before reading anything else; missing files are fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// First run: write a commented template and continue on defaults.
			if werr := createTemplateConfig(configDir); werr != nil {
				return nil, fmt.Errorf("writing config template: %w", werr)
			}
		} else {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Provider.FinnhubAPIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notifications.Telegram.ChatID = v
	}
	// Names used by earlier deployments of this bot.
	if v := os.Getenv("bot_token"); v != "" && cfg.Notifications.Telegram.BotToken == "" {
		cfg.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv("chat_id"); v != "" && cfg.Notifications.Telegram.ChatID == "" {
		cfg.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv("KEEPALIVE_URL"); v != "" {
		cfg.Server.KeepaliveURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Screen.ExtraFilter {
	case "relative_volume", "market_cap":
	default:
		return fmt.Errorf("invalid extra_filter: %s (must be 'relative_volume' or 'market_cap')", c.Screen.ExtraFilter)
	}

	switch c.Scan.EpochPolicy {
	case "monotonic", "rolling":
	default:
		return fmt.Errorf("invalid epoch_policy: %s (must be 'monotonic' or 'rolling')", c.Scan.EpochPolicy)
	}

	switch c.Provider.Name {
	case "finnhub", "yahoo":
	default:
		return fmt.Errorf("invalid provider: %s (must be 'finnhub' or 'yahoo')", c.Provider.Name)
	}

	if c.Scan.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive")
	}
	if c.Scan.SummaryWindowMinutes <= 0 || c.Scan.SummaryWindowMinutes > 60 {
		return fmt.Errorf("summary_window_minutes must be between 1 and 60")
	}
	if c.Scan.WindowOpenHour < 0 || c.Scan.WindowOpenHour > 23 ||
		c.Scan.WindowCloseHour < 1 || c.Scan.WindowCloseHour > 24 ||
		c.Scan.WindowOpenHour >= c.Scan.WindowCloseHour {
		return fmt.Errorf("scan window hours must satisfy 0 <= open < close <= 24")
	}
	if c.Scan.FetchConcurrency <= 0 {
		return fmt.Errorf("fetch_concurrency must be positive")
	}
	if c.Screen.PriceCeiling <= 0 {
		return fmt.Errorf("price_ceiling must be positive")
	}
	if c.Screen.VolumeMin < 0 {
		return fmt.Errorf("volume_min must be non-negative")
	}
	if c.Provider.Name == "yahoo" && len(c.Provider.Symbols) == 0 {
		return fmt.Errorf("provider 'yahoo' requires a symbols watchlist")
	}

	return nil
}
