package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	Env         string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisRateLimitDB int    `mapstructure:"REDIS_RATE_LIMIT_DB"`
	RedisQueueDB     int    `mapstructure:"REDIS_QUEUE_DB"`

	// Global per-IP throttle applied by middleware.
	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Scheduling parameters.
	HoldTTLMinutes      int `mapstructure:"HOLD_TTL_MINUTES"`
	SlotStepMinutes     int `mapstructure:"SLOT_STEP_MINUTES"`
	MaxAdvanceDays      int `mapstructure:"MAX_ADVANCE_DAYS"`
	MinNoticeMinutes    int `mapstructure:"MIN_NOTICE_MINUTES"`
	AvailabilityTTLSecs int `mapstructure:"AVAILABILITY_CACHE_TTL_SECONDS"`
	HoldRateLimit       int `mapstructure:"HOLD_RATE_LIMIT"`
	HoldRateWindowSecs  int `mapstructure:"HOLD_RATE_WINDOW_SECONDS"`
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
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_RATE_LIMIT_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("HOLD_TTL_MINUTES", 7)
	viper.SetDefault("SLOT_STEP_MINUTES", 15)
	viper.SetDefault("MAX_ADVANCE_DAYS", 30)
	viper.SetDefault("MIN_NOTICE_MINUTES", 0)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 30)
	viper.SetDefault("HOLD_RATE_LIMIT", 10)
	viper.SetDefault("HOLD_RATE_WINDOW_SECONDS", 60)

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
