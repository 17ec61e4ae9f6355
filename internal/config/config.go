// Package config loads settings from an optional fieldnote.yml file with
// environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultFile = "fieldnote.yml"

type Config struct {
	// StoreURL is the base URL of the journal store API.
	StoreURL  string `yaml:"store_url"`
	CSRFToken string `yaml:"csrf_token"`

	// RedisURL enables crash-recovery draft snapshots when set.
	RedisURL string `yaml:"redis_url"`

	// Meilisearch backs tag suggestions; the store API is the fallback.
	MeiliURL       string `yaml:"meili_url"`
	MeiliMasterKey string `yaml:"meili_master_key"`

	SaveDelay      time.Duration `yaml:"-"`
	TitleSaveDelay time.Duration `yaml:"-"`
	InferDelay     time.Duration `yaml:"-"`

	SaveDelayMS      int `yaml:"save_delay_ms"`
	TitleSaveDelayMS int `yaml:"title_save_delay_ms"`
	InferDelayMS     int `yaml:"infer_delay_ms"`
}

// Load reads the config file (FIELDNOTE_CONFIG or ./fieldnote.yml, if
// present), then applies environment overrides and defaults. A missing
// file is not an error; a malformed one is.
func Load() (Config, error) {
	var cfg Config

	path := getenv("FIELDNOTE_CONFIG", DefaultFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Optional file.
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.StoreURL = getenv("FIELDNOTE_STORE_URL", fallback(cfg.StoreURL, "http://localhost:8000"))
	cfg.CSRFToken = getenv("FIELDNOTE_CSRF_TOKEN", cfg.CSRFToken)
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.MeiliURL = getenv("MEILI_URL", cfg.MeiliURL)
	cfg.MeiliMasterKey = getenv("MEILI_MASTER_KEY", cfg.MeiliMasterKey)

	cfg.SaveDelay = durationMS(getenvInt("FIELDNOTE_SAVE_DELAY_MS", fallbackInt(cfg.SaveDelayMS, 3000)))
	cfg.TitleSaveDelay = durationMS(getenvInt("FIELDNOTE_TITLE_SAVE_DELAY_MS", fallbackInt(cfg.TitleSaveDelayMS, 1000)))
	cfg.InferDelay = durationMS(getenvInt("FIELDNOTE_INFER_DELAY_MS", fallbackInt(cfg.InferDelayMS, 500)))

	return cfg, nil
}

func durationMS(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func fallbackInt(value, def int) int {
	if value == 0 {
		return def
	}
	return value
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
