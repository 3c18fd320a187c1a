package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort string `mapstructure:"APP_PORT"`
	Env     string `mapstructure:"ENV"`
	APIKey  string `mapstructure:"API_KEY"`

	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisContactDB int    `mapstructure:"REDIS_CONTACT_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Unit registry and public calendar feeds.
	UnitsFile string `mapstructure:"UNITS_FILE"`
	PublicDir string `mapstructure:"PUBLIC_DIR"`

	// Remote calendar retrieval.
	FetchTimeoutSeconds int `mapstructure:"FETCH_TIMEOUT_SECONDS"`

	// Chat coalescing proxy.
	ForwardURL            string `mapstructure:"FORWARD_URL"`
	ForwardTimeoutSeconds int    `mapstructure:"FORWARD_TIMEOUT_SECONDS"`
	DebounceWindowSeconds int    `mapstructure:"DEBOUNCE_WINDOW_SECONDS"`
	ChatAPIURL            string `mapstructure:"CHAT_API_URL"`
	ChatAPIToken          string `mapstructure:"CHAT_API_TOKEN"`

	// Guest notifications.
	NotifyWebhookURL string `mapstructure:"NOTIFY_WEBHOOK_URL"`

	// Feed reconciliation schedule (robfig/cron spec).
	FeedReconcileCron string `mapstructure:"FEED_RECONCILE_CRON"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("API_KEY", "dev-key-change-me")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONTACT_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("UNITS_FILE", "data/units.json")
	viper.SetDefault("PUBLIC_DIR", "data/public")
	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 10)
	viper.SetDefault("FORWARD_URL", "")
	viper.SetDefault("FORWARD_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DEBOUNCE_WINDOW_SECONDS", 4)
	viper.SetDefault("CHAT_API_URL", "")
	viper.SetDefault("CHAT_API_TOKEN", "")
	viper.SetDefault("NOTIFY_WEBHOOK_URL", "")
	viper.SetDefault("FEED_RECONCILE_CRON", "@every 1h")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
