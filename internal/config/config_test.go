package config

import (
	"testing"
	"time"
)

type mapEnv map[string]string

func (m mapEnv) Getenv(key string) string { return m[key] }

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv(mapEnv{"MASTER_SECRET": "x"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("expected default gin mode release, got %q", cfg.GinMode)
	}
	if cfg.UpkeepInterval != 5*time.Minute {
		t.Fatalf("expected default upkeep interval 5m, got %v", cfg.UpkeepInterval)
	}
	if cfg.DefaultGroupID != 1 {
		t.Fatalf("expected default group 1, got %d", cfg.DefaultGroupID)
	}
	if len(cfg.OracleFeeds) != 2 || cfg.OracleFeeds[0] != "BTC/USD" || cfg.OracleFeeds[1] != "ETH/USD" {
		t.Fatalf("unexpected default feeds %v", cfg.OracleFeeds)
	}
	if cfg.OracleBaseURL != "" {
		t.Fatalf("expected empty oracle base url, got %q", cfg.OracleBaseURL)
	}
}

func TestLoadConfigFromEnv_MissingSecret(t *testing.T) {
	_, err := LoadConfigFromEnv(mapEnv{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadConfigFromEnv_PortOverride(t *testing.T) {
	cfg, err := LoadConfigFromEnv(mapEnv{"MASTER_SECRET": "x", "PORT": "1234"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != 1234 {
		t.Fatalf("expected port 1234, got %d", cfg.Port)
	}
}

func TestLoadConfigFromEnv_OracleOverrides(t *testing.T) {
	cfg, err := LoadConfigFromEnv(mapEnv{
		"MASTER_SECRET":           "x",
		"ORACLE_BASE_URL":         "http://feeds.local",
		"ORACLE_FEEDS":            "LINK/USD, SOL/USD",
		"UPKEEP_INTERVAL_SECONDS": "60",
		"UPKEEP_POLL_SECONDS":     "5",
		"DEFAULT_GROUP_ID":        "7",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.OracleBaseURL != "http://feeds.local" {
		t.Fatalf("unexpected oracle base url %q", cfg.OracleBaseURL)
	}
	if len(cfg.OracleFeeds) != 2 || cfg.OracleFeeds[0] != "LINK/USD" || cfg.OracleFeeds[1] != "SOL/USD" {
		t.Fatalf("unexpected feeds %v", cfg.OracleFeeds)
	}
	if cfg.UpkeepInterval != time.Minute {
		t.Fatalf("unexpected upkeep interval %v", cfg.UpkeepInterval)
	}
	if cfg.UpkeepPoll != 5*time.Second {
		t.Fatalf("unexpected upkeep poll %v", cfg.UpkeepPoll)
	}
	if cfg.DefaultGroupID != 7 {
		t.Fatalf("unexpected default group %d", cfg.DefaultGroupID)
	}
}

func TestLoadConfigFromEnv_InvalidInterval(t *testing.T) {
	_, err := LoadConfigFromEnv(mapEnv{"MASTER_SECRET": "x", "UPKEEP_INTERVAL_SECONDS": "zero"})
	if err == nil {
		t.Fatalf("expected error")
	}
}
