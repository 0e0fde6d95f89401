package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"inverse-cramer/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	SQLitePath  string `yaml:"sqlite_path"`
	DataDir     string `yaml:"data_dir" validate:"required"`

	TwitterAPIBaseURL string   `yaml:"twitter_api_base_url" validate:"omitempty,url"`
	TwitterAPIKey     string   `yaml:"twitter_api_key"`
	TwitterAPIHost    string   `yaml:"twitter_api_host" validate:"omitempty,hostname"`
	SearchQueries     []string `yaml:"search_queries" validate:"min=1,dive,required"`
	SearchCount       int      `yaml:"search_count" validate:"gte=1,lte=500"`
	SearchType        string   `yaml:"search_type" validate:"oneof=Latest Top People Photos Videos"`
	SearchPauseMs     int      `yaml:"search_pause_ms" validate:"gte=0"`

	YahooBaseURL       string   `yaml:"yahoo_base_url" validate:"omitempty,url"`
	Symbols            []string `yaml:"symbols" validate:"min=1,dive,ticker"`
	ChartRange         string   `yaml:"chart_range" validate:"required"`
	ChartInterval      string   `yaml:"chart_interval" validate:"required"`
	SeriesCacheTTLSecs int      `yaml:"series_cache_ttl_secs" validate:"gte=0"`

	RefreshCron      string `yaml:"refresh_cron"`
	HTTPAddr         string `yaml:"http_addr" validate:"required"`
	APIKey           string `yaml:"api_key"`
	TelegramBotToken string `yaml:"telegram_bot_token"`

	TracingEnabled bool   `yaml:"tracing_enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// Pause is the spacing between consecutive upstream calls in a batch.
func (c *Config) Pause() time.Duration {
	return time.Duration(c.SearchPauseMs) * time.Millisecond
}

// SeriesCacheTTL is how long a fetched price series stays in Redis.
func (c *Config) SeriesCacheTTL() time.Duration {
	return time.Duration(c.SeriesCacheTTLSecs) * time.Second
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("ticker", validTicker); err != nil {
		log.Printf("Warning: ticker validation unavailable: %v", err)
	}
	return v
}

func validTicker(fl validator.FieldLevel) bool {
	return domain.ValidSymbol(fl.Field().String())
}

// Load reads the optional YAML file named by CONFIG_PATH, applies environment
// overrides and defaults, then validates the result.
func Load() (*Config, error) {
	cfg := &Config{TracingEnabled: true}

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.TwitterAPIBaseURL, "TWITTER_API_BASE_URL")
	setString(&cfg.TwitterAPIKey, "TWITTER_API_KEY")
	setString(&cfg.TwitterAPIHost, "TWITTER_API_HOST")
	setString(&cfg.SearchType, "SEARCH_TYPE")
	setString(&cfg.YahooBaseURL, "YAHOO_BASE_URL")
	setString(&cfg.ChartRange, "CHART_RANGE")
	setString(&cfg.ChartInterval, "CHART_INTERVAL")
	setString(&cfg.RefreshCron, "REFRESH_CRON")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.APIKey, "API_KEY")
	setString(&cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	setInt(&cfg.SearchCount, "SEARCH_COUNT", 1)
	setInt(&cfg.SearchPauseMs, "SEARCH_PAUSE_MS", 0)
	setInt(&cfg.SeriesCacheTTLSecs, "SERIES_CACHE_TTL_SECS", 0)

	if v := strings.TrimSpace(os.Getenv("SYMBOLS")); v != "" {
		cfg.Symbols = splitSymbols(v)
	}
	if v := strings.TrimSpace(os.Getenv("TRACING_ENABLED")); v != "" {
		cfg.TracingEnabled = !strings.EqualFold(v, "false")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.TwitterAPIKey == "" {
		log.Println("Warning: TWITTER_API_KEY not set, searches will likely be rejected")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if len(cfg.SearchQueries) == 0 {
		cfg.SearchQueries = append([]string(nil), domain.DefaultSearchQueries...)
	}
	if cfg.SearchCount == 0 {
		cfg.SearchCount = 100
	}
	if cfg.SearchType == "" {
		cfg.SearchType = "Latest"
	}
	if cfg.SearchPauseMs == 0 {
		cfg.SearchPauseMs = 1000
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = append([]string(nil), domain.DefaultSymbols...)
	}
	for i, s := range cfg.Symbols {
		cfg.Symbols[i] = domain.NormalizeSymbol(s)
	}
	if cfg.ChartRange == "" {
		cfg.ChartRange = "5y"
	}
	if cfg.ChartInterval == "" {
		cfg.ChartInterval = "1mo"
	}
	if cfg.SeriesCacheTTLSecs == 0 {
		cfg.SeriesCacheTTLSecs = 3600
	}
	if cfg.RefreshCron == "" {
		cfg.RefreshCron = "0 6 * * 1-5"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string, floor int) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < floor {
		log.Printf("Warning: invalid %s=%q, ignoring", key, v)
		return
	}
	*dst = n
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
