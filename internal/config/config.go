// Package config reads the bot's settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Reddit holds the script app credentials.
type Reddit struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

type Config struct {
	CollectorMode string
	Reddit        Reddit

	TargetsFile   string
	DBPath        string
	CacheDir      string
	ImgurClientID string
	Port          string

	Workers      int
	PollInterval time.Duration

	LogFormat string
	LogLevel  string
}

// Load reads the configuration. Missing variables take their defaults;
// malformed ones are an error.
func Load() (Config, error) {
	// A missing .env is fine; the environment alone may be enough.
	_ = godotenv.Load()

	cfg := Config{
		CollectorMode: strings.ToLower(getenv("COLLECTOR_MODE", "mock")),
		Reddit: Reddit{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			Username:     os.Getenv("REDDIT_USERNAME"),
			Password:     os.Getenv("REDDIT_PASSWORD"),
			UserAgent:    os.Getenv("REDDIT_USER_AGENT"),
		},
		TargetsFile:   getenv("TARGETS_FILE", "input/subreddits.csv"),
		DBPath:        getenv("DB_PATH", "data/archivebot.db"),
		CacheDir:      getenv("CACHE_DIR", "/tmp/archivebot"),
		ImgurClientID: os.Getenv("IMGUR_CLIENT_ID"),
		Port:          getenv("PORT", "8080"),
		LogFormat:     strings.ToLower(getenv("LOG_FORMAT", "json")),
		LogLevel:      strings.ToLower(getenv("LOG_LEVEL", "info")),
	}

	workers, err := strconv.Atoi(getenv("WORKERS", "2"))
	if err != nil || workers < 1 {
		return Config{}, errors.Errorf("WORKERS must be a positive integer, got %q", os.Getenv("WORKERS"))
	}
	cfg.Workers = workers

	interval, err := time.ParseDuration(getenv("POLL_INTERVAL", "5m"))
	if err != nil || interval < 0 {
		return Config{}, errors.Errorf("POLL_INTERVAL must be a duration such as 5m, got %q", os.Getenv("POLL_INTERVAL"))
	}
	cfg.PollInterval = interval

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
