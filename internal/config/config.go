package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         int
	MasterSecret string
	GinMode      string
	TLSCertFile  string
	TLSKeyFile   string
	TokenExpiry  time.Duration

	LedgerStateFile string

	OracleBaseURL  string
	OracleTimeout  time.Duration
	OracleFeeds    []string
	UpkeepInterval time.Duration
	UpkeepPoll     time.Duration
	DefaultGroupID uint64
}

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func LoadConfig() (Config, error) {
	return LoadConfigFromEnv(osEnv{})
}

func LoadConfigFromEnv(env Env) (Config, error) {
	cfg := Config{
		Port:           3000,
		GinMode:        "release",
		TokenExpiry:    7 * 24 * time.Hour,
		OracleTimeout:  10 * time.Second,
		OracleFeeds:    []string{"BTC/USD", "ETH/USD"},
		UpkeepInterval: 5 * time.Minute,
		UpkeepPoll:     30 * time.Second,
		DefaultGroupID: 1,
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	cfg.MasterSecret = env.Getenv("MASTER_SECRET")
	if cfg.MasterSecret == "" {
		return Config{}, fmt.Errorf("MASTER_SECRET is required")
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}

	cfg.TLSCertFile = env.Getenv("TLS_CERT_FILE")
	cfg.TLSKeyFile = env.Getenv("TLS_KEY_FILE")

	if raw := env.Getenv("TOKEN_EXPIRY_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid TOKEN_EXPIRY_SECONDS")
		}
		cfg.TokenExpiry = time.Duration(seconds) * time.Second
	}

	cfg.LedgerStateFile = env.Getenv("LEDGER_STATE_FILE")

	cfg.OracleBaseURL = env.Getenv("ORACLE_BASE_URL")

	if raw := env.Getenv("ORACLE_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid ORACLE_TIMEOUT_SECONDS")
		}
		cfg.OracleTimeout = time.Duration(seconds) * time.Second
	}

	if raw := env.Getenv("ORACLE_FEEDS"); raw != "" {
		feeds := make([]string, 0)
		for _, feed := range strings.Split(raw, ",") {
			feed = strings.TrimSpace(feed)
			if feed != "" {
				feeds = append(feeds, feed)
			}
		}
		if len(feeds) == 0 {
			return Config{}, fmt.Errorf("invalid ORACLE_FEEDS")
		}
		cfg.OracleFeeds = feeds
	}

	if raw := env.Getenv("UPKEEP_INTERVAL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid UPKEEP_INTERVAL_SECONDS")
		}
		cfg.UpkeepInterval = time.Duration(seconds) * time.Second
	}

	if raw := env.Getenv("UPKEEP_POLL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid UPKEEP_POLL_SECONDS")
		}
		cfg.UpkeepPoll = time.Duration(seconds) * time.Second
	}

	if raw := env.Getenv("DEFAULT_GROUP_ID"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return Config{}, fmt.Errorf("invalid DEFAULT_GROUP_ID")
		}
		cfg.DefaultGroupID = id
	}

	return cfg, nil
}
