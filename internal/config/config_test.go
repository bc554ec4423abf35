package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.StoreBackend != "file" {
		t.Fatalf("expected default file backend, got %q", cfg.StoreBackend)
	}
	if cfg.CheckSchedule != "0 8 * * *" {
		t.Fatalf("expected default daily schedule, got %q", cfg.CheckSchedule)
	}
	if cfg.NotificationType != "telegram" {
		t.Fatalf("expected default telegram transport, got %q", cfg.NotificationType)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("expected a generated JWT secret when none is configured")
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("NOTIFICATION_TYPE", "wecom")
	t.Setenv("WECOM_AGENT_ID", "1000002")
	t.Setenv("SESSION_TTL_HOURS", "72")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ServerPort != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.ServerPort)
	}
	if cfg.NotificationType != "wecom" {
		t.Fatalf("expected wecom transport, got %q", cfg.NotificationType)
	}
	if cfg.WeComAgentID != 1000002 {
		t.Fatalf("expected agent id 1000002, got %d", cfg.WeComAgentID)
	}
	if cfg.SessionTTLHours != 72 {
		t.Fatalf("expected session ttl 72, got %d", cfg.SessionTTLHours)
	}
}

func TestLoadConfigPostgresRequiresDatabaseURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected error to mention DATABASE_URL, got %v", err)
	}
}

func TestLoadConfigRejectsInvalidSchedule(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CHECK_SCHEDULE", "eight in the morning")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected invalid schedule error")
	}
	if !strings.Contains(err.Error(), "CHECK_SCHEDULE") {
		t.Fatalf("expected error to mention CHECK_SCHEDULE, got %v", err)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("STORE_BACKEND", "redis")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected unknown backend error")
	}
	if !strings.Contains(err.Error(), "STORE_BACKEND") {
		t.Fatalf("expected error to mention STORE_BACKEND, got %v", err)
	}
}
