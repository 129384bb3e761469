package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"stock-signal-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Logging     logging.Config    `mapstructure:"logging"`
	Watchlist   []string          `mapstructure:"watchlist"`
	Provider    ProviderConfig    `mapstructure:"provider"`
	MarketHours MarketHoursConfig `mapstructure:"market_hours"`
	Jobs        JobsConfig        `mapstructure:"jobs"`
	Signals     SignalsConfig     `mapstructure:"signals"`
	Sentiment   SentimentConfig   `mapstructure:"sentiment"`
	Dedup       DedupConfig       `mapstructure:"dedup"`
	Alerting    AlertingConfig    `mapstructure:"alerting"`
	Database    DatabaseConfig    `mapstructure:"database"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ProviderConfig covers the market data API.
type ProviderConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// MarketHoursConfig defines the trading window used to gate polling tasks.
// A window with open_hour > close_hour wraps past midnight.
type MarketHoursConfig struct {
	Timezone  string `mapstructure:"timezone"`
	OpenHour  int    `mapstructure:"open_hour"`
	CloseHour int    `mapstructure:"close_hour"`
}

// JobsConfig governs task cadence.
type JobsConfig struct {
	TechnicalInterval time.Duration `mapstructure:"technical_interval"`
	LevelsInterval    time.Duration `mapstructure:"levels_interval"`
	SentimentInterval time.Duration `mapstructure:"sentiment_interval"`
	CleanupSpec       string        `mapstructure:"cleanup_spec"`
}

// SignalsConfig holds detection thresholds.
type SignalsConfig struct {
	RSIOversold   float64 `mapstructure:"rsi_oversold"`
	RSIOverbought float64 `mapstructure:"rsi_overbought"`
	ProximityPct  float64 `mapstructure:"proximity_pct"`
	SentimentPct  float64 `mapstructure:"sentiment_pct"`
}

// SentimentConfig names the broad-market reference symbols.
type SentimentConfig struct {
	ProxySymbol string `mapstructure:"proxy_symbol"`
	VIXSymbol   string `mapstructure:"vix_symbol"`
}

// DedupConfig bounds the in-memory alert record store.
type DedupConfig struct {
	Retention time.Duration `mapstructure:"retention"`
}

// AlertingConfig defines alert routing.
type AlertingConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram delivery channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// DatabaseConfig encapsulates the optional PostgreSQL alert audit log.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AuditRetention  time.Duration `mapstructure:"audit_retention"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "stockwatch")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("watchlist", []string{
		"NVDA", "NFLX", "AMZN", "GOOGL", "RKLB", "V", "MSFT", "IVV", "AVGO", "META",
	})

	v.SetDefault("provider.base_url", "https://www.alphavantage.co")
	v.SetDefault("provider.request_timeout", "10s")
	v.SetDefault("provider.user_agent", "stockwatch/1.0")

	// US market session expressed in the bot's local timezone.
	v.SetDefault("market_hours.timezone", "Asia/Bangkok")
	v.SetDefault("market_hours.open_hour", 21)
	v.SetDefault("market_hours.close_hour", 4)

	v.SetDefault("jobs.technical_interval", "15m")
	v.SetDefault("jobs.levels_interval", "10m")
	v.SetDefault("jobs.sentiment_interval", "1h")
	v.SetDefault("jobs.cleanup_spec", "0 0 * * *")

	v.SetDefault("signals.rsi_oversold", 30.0)
	v.SetDefault("signals.rsi_overbought", 70.0)
	v.SetDefault("signals.proximity_pct", 2.0)
	v.SetDefault("signals.sentiment_pct", 1.0)

	v.SetDefault("sentiment.proxy_symbol", "SPY")
	v.SetDefault("sentiment.vix_symbol", "^VIX")

	v.SetDefault("dedup.retention", "24h")

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.audit_retention", "720h")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must contain at least one symbol")
	}
	if c.Jobs.TechnicalInterval <= 0 {
		return fmt.Errorf("jobs.technical_interval must be greater than zero")
	}
	if c.Jobs.LevelsInterval <= 0 {
		return fmt.Errorf("jobs.levels_interval must be greater than zero")
	}
	if c.Jobs.SentimentInterval <= 0 {
		return fmt.Errorf("jobs.sentiment_interval must be greater than zero")
	}
	if c.Jobs.CleanupSpec == "" {
		return fmt.Errorf("jobs.cleanup_spec is required")
	}
	if _, err := time.LoadLocation(c.MarketHours.Timezone); err != nil {
		return fmt.Errorf("market_hours.timezone: %w", err)
	}
	if c.MarketHours.OpenHour < 0 || c.MarketHours.OpenHour > 23 {
		return fmt.Errorf("market_hours.open_hour must be within [0,23]")
	}
	if c.MarketHours.CloseHour < 0 || c.MarketHours.CloseHour > 23 {
		return fmt.Errorf("market_hours.close_hour must be within [0,23]")
	}
	if c.Signals.RSIOversold >= c.Signals.RSIOverbought {
		return fmt.Errorf("signals.rsi_oversold must be below signals.rsi_overbought")
	}
	if c.Signals.ProximityPct <= 0 {
		return fmt.Errorf("signals.proximity_pct must be greater than zero")
	}
	if c.Signals.SentimentPct <= 0 {
		return fmt.Errorf("signals.sentiment_pct must be greater than zero")
	}
	if c.Dedup.Retention <= 0 {
		return fmt.Errorf("dedup.retention must be greater than zero")
	}
	if c.Sentiment.ProxySymbol == "" {
		return fmt.Errorf("sentiment.proxy_symbol is required")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token is required")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id is required")
		}
	}
	return nil
}

// Location resolves the configured market timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.MarketHours.Timezone)
}
