package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration, loaded from the environment
// with an optional .env file on top.
type Config struct {
	AppPort         string
	DatabaseDSN     string
	RabbitMQURL     string
	SMTP            SMTPConfig
	RateLimitMax    int
	RateLimitWindow time.Duration
	LogLevel        string
}

// SMTPConfig holds credentials for the welcome-email sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load reads configuration from environment variables. A missing .env
// file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	viper.SetDefault("APP_PORT", ":5000")
	viper.SetDefault("DATABASE_DSN", "shopapi.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "")
	viper.SetDefault("RATE_LIMIT_MAX", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	return &Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseDSN: viper.GetString("DATABASE_DSN"),
		RabbitMQURL: viper.GetString("RABBITMQ_URL"),
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Username: viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		RateLimitMax:    viper.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: viper.GetDuration("RATE_LIMIT_WINDOW"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
	}
}
