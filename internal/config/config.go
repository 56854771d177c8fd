package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration.
type Config struct {
	DBFile   string `env:"DB_FILE" envDefault:"ocorrencias_aveiro.db"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Feed Config
	FeedURL       string        `env:"FEED_URL"`
	FeedWhere     string        `env:"FEED_WHERE"`
	FeedPageSize  int           `env:"FEED_PAGE_SIZE" envDefault:"50"`
	FeedTimeout   time.Duration `env:"FEED_TIMEOUT" envDefault:"20s"`
	FeedPageDelay time.Duration `env:"FEED_PAGE_DELAY" envDefault:"500ms"`
	FeedRetries   int           `env:"FEED_RETRIES" envDefault:"3"`

	// Monitor Config
	PollInterval         time.Duration `env:"POLL_INTERVAL" envDefault:"300s"`
	Retention            time.Duration `env:"RETENTION" envDefault:"240h"`
	StoreRetries         int           `env:"STORE_RETRIES" envDefault:"3"`
	StoreRetryDelay      time.Duration `env:"STORE_RETRY_DELAY" envDefault:"100ms"`
	NotifyReinforcements bool          `env:"NOTIFY_REINFORCEMENTS" envDefault:"true"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Telegram Config
	TelegramAPIURL  string        `env:"TELEGRAM_API_URL" envDefault:"https://api.telegram.org"`
	TelegramToken   string        `env:"TELEGRAM_TOKEN"`
	TelegramChatID  string        `env:"TELEGRAM_CHAT_ID"`
	TelegramTimeout time.Duration `env:"TELEGRAM_TIMEOUT" envDefault:"5s"`
	NotifyRetries   int           `env:"NOTIFY_RETRIES" envDefault:"3"`
	NotifyBaseDelay time.Duration `env:"NOTIFY_BASE_DELAY" envDefault:"1s"`

	// Dropbox Config
	DropboxContentURL string `env:"DROPBOX_CONTENT_URL" envDefault:"https://content.dropboxapi.com"`
	DropboxToken      string `env:"DROPBOX_TOKEN"`
	DropboxPath       string `env:"DROPBOX_PATH" envDefault:"/ocorrencias_aveiro.db"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`
}

const (
	defaultFeedURL   = "https://prociv-agserver.geomai.mai.gov.pt/arcgis/rest/services/Ocorrencias_Base/FeatureServer/0/query"
	defaultFeedWhere = "CSREPC='Região de Aveiro'"
)

// LoadConfig reads configuration from environment variables and an optional
// .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DBFile:               getEnv("DB_FILE", "ocorrencias_aveiro.db"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		FeedURL:              getEnv("FEED_URL", defaultFeedURL),
		FeedWhere:            getEnv("FEED_WHERE", defaultFeedWhere),
		FeedPageSize:         getEnvAsInt("FEED_PAGE_SIZE", 50),
		FeedTimeout:          getEnvAsDuration("FEED_TIMEOUT", 20*time.Second),
		FeedPageDelay:        getEnvAsDuration("FEED_PAGE_DELAY", 500*time.Millisecond),
		FeedRetries:          getEnvAsInt("FEED_RETRIES", 3),
		PollInterval:         getEnvAsDuration("POLL_INTERVAL", 300*time.Second),
		Retention:            getEnvAsDuration("RETENTION", 240*time.Hour),
		StoreRetries:         getEnvAsInt("STORE_RETRIES", 3),
		StoreRetryDelay:      getEnvAsDuration("STORE_RETRY_DELAY", 100*time.Millisecond),
		NotifyReinforcements: getEnvAsBool("NOTIFY_REINFORCEMENTS", true),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		TelegramAPIURL:       getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		TelegramToken:        os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:       os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramTimeout:      getEnvAsDuration("TELEGRAM_TIMEOUT", 5*time.Second),
		NotifyRetries:        getEnvAsInt("NOTIFY_RETRIES", 3),
		NotifyBaseDelay:      getEnvAsDuration("NOTIFY_BASE_DELAY", time.Second),
		DropboxContentURL:    getEnv("DROPBOX_CONTENT_URL", "https://content.dropboxapi.com"),
		DropboxToken:         os.Getenv("DROPBOX_TOKEN"),
		DropboxPath:          getEnv("DROPBOX_PATH", "/ocorrencias_aveiro.db"),
	}

	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	if cfg.FeedPageSize < 1 {
		return nil, fmt.Errorf("FEED_PAGE_SIZE must be positive, got %d", cfg.FeedPageSize)
	}
	if cfg.Retention <= 0 {
		return nil, fmt.Errorf("RETENTION must be positive, got %s", cfg.Retention)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns an environment variable as int or a default.
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool returns an environment variable as bool or a default.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration returns an environment variable as time.Duration or a default.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
