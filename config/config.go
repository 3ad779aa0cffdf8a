package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisChatDB          int    `mapstructure:"REDIS_CHAT_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Google workspace resources.
	GoogleCredentialsFile string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	SheetID               string `mapstructure:"SHEET_ID"`
	CalendarID            string `mapstructure:"CALENDAR_ID"`
	Timezone              string `mapstructure:"TIMEZONE"`

	// Gemini API key for intent fallback and small talk.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Outbound messaging gateway.
	MessengerURL   string `mapstructure:"MESSENGER_URL"`
	MessengerToken string `mapstructure:"MESSENGER_TOKEN"`

	// Dialogue limits.
	MaxAttempts        int `mapstructure:"MAX_ATTEMPTS"`
	SessionTimeoutMins int `mapstructure:"SESSION_TIMEOUT_MINS"`
	WeeksAhead         int `mapstructure:"WEEKS_AHEAD"`

	// Dispatcher limits.
	DispatchStartHour  int `mapstructure:"DISPATCH_START_HOUR"`
	DispatchEndHour    int `mapstructure:"DISPATCH_END_HOUR"`
	DispatchMaxDaily   int `mapstructure:"DISPATCH_MAX_DAILY"`
	DispatchMinDelayMs int `mapstructure:"DISPATCH_MIN_DELAY_MS"`
	DispatchMaxDelayMs int `mapstructure:"DISPATCH_MAX_DELAY_MS"`

	// Reminder lead time before the appointment, in minutes.
	ReminderLeadMins int `mapstructure:"REMINDER_LEAD_MINS"`

	// Bearer token required on admin and manual-send endpoints.
	// Empty disables the check (development only).
	AdminAPIToken string `mapstructure:"ADMIN_API_TOKEN"`
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
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CHAT_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("TIMEZONE", "America/Bogota")
	viper.SetDefault("MAX_ATTEMPTS", 3)
	viper.SetDefault("SESSION_TIMEOUT_MINS", 30)
	viper.SetDefault("WEEKS_AHEAD", 4)
	viper.SetDefault("DISPATCH_START_HOUR", 6)
	viper.SetDefault("DISPATCH_END_HOUR", 21)
	viper.SetDefault("DISPATCH_MAX_DAILY", 50)
	viper.SetDefault("DISPATCH_MIN_DELAY_MS", 5000)
	viper.SetDefault("DISPATCH_MAX_DELAY_MS", 15000)
	viper.SetDefault("REMINDER_LEAD_MINS", 60)

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

// Location resolves the configured timezone, falling back to UTC.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
