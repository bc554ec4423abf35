/**
 * @description
 * This file handles configuration management for SubsTracker.
 * It uses the 'viper' library to load configuration from environment
 * variables, providing defaults suitable for a single-user deployment.
 */
package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	StoreBackend    string `mapstructure:"STORE_BACKEND"`
	DataDir         string `mapstructure:"DATA_DIR"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	AdminUsername   string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword   string `mapstructure:"ADMIN_PASSWORD"`
	AdminPassHash   string `mapstructure:"ADMIN_PASSWORD_HASH"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
	CheckSchedule   string `mapstructure:"CHECK_SCHEDULE"`

	NotificationType string `mapstructure:"NOTIFICATION_TYPE"`
	TelegramBotToken string `mapstructure:"TG_BOT_TOKEN"`
	TelegramChatID   string `mapstructure:"TG_CHAT_ID"`
	WeComCorpID      string `mapstructure:"WECOM_CORP_ID"`
	WeComCorpSecret  string `mapstructure:"WECOM_CORP_SECRET"`
	WeComAgentID     int    `mapstructure:"WECOM_AGENT_ID"`
	WeComToUser      string `mapstructure:"WECOM_TO_USER"`
	NotifyXToken     string `mapstructure:"NOTIFYX_TOKEN"`
	AMQPURL          string `mapstructure:"AMQP_URL"`
	AMQPExchange     string `mapstructure:"AMQP_EXCHANGE"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD", "password")
	viper.SetDefault("SESSION_TTL_HOURS", 24)
	viper.SetDefault("CHECK_SCHEDULE", "0 8 * * *") // Every day at 08:00.
	viper.SetDefault("NOTIFICATION_TYPE", "telegram")
	viper.SetDefault("WECOM_TO_USER", "@all")
	viper.SetDefault("AMQP_EXCHANGE", "substracker.events")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	for _, key := range []string{
		"SERVER_PORT", "STORE_BACKEND", "DATA_DIR", "DATABASE_URL",
		"ADMIN_USERNAME", "ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH",
		"JWT_SECRET", "SESSION_TTL_HOURS", "CHECK_SCHEDULE",
		"NOTIFICATION_TYPE", "TG_BOT_TOKEN", "TG_CHAT_ID",
		"WECOM_CORP_ID", "WECOM_CORP_SECRET", "WECOM_AGENT_ID", "WECOM_TO_USER",
		"NOTIFYX_TOKEN", "AMQP_URL", "AMQP_EXCHANGE",
	} {
		_ = viper.BindEnv(key)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.StoreBackend != "file" && config.StoreBackend != "postgres" {
		return nil, fmt.Errorf("STORE_BACKEND must be 'file' or 'postgres', got %q", config.StoreBackend)
	}
	if config.StoreBackend == "postgres" && config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is 'postgres'")
	}
	// A bad schedule would otherwise only surface as a single log line at
	// scheduler start, leaving the service running with no daily check.
	if _, err := cron.ParseStandard(config.CheckSchedule); err != nil {
		return nil, fmt.Errorf("CHECK_SCHEDULE is not a valid cron expression: %w", err)
	}

	// Sessions do not survive a restart with a generated secret, which is
	// acceptable for a single-admin deployment that did not set one.
	if config.JWTSecret == "" {
		config.JWTSecret = uuid.NewString()
	}

	return &config, nil
}
