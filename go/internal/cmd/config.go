package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, loaded from an optional YAML
// file with environment-variable overrides.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`
	Clock struct {
		RefreshIntervalMS int `yaml:"refresh_interval_ms"`
	} `yaml:"clock"`
	Share struct {
		URLTemplate string `yaml:"url_template"`
	} `yaml:"share"`
	NATS struct {
		Enabled       bool   `yaml:"enabled"`
		URL           string `yaml:"url"`
		StreamName    string `yaml:"stream_name"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Storage.DataDir = "./data"
	cfg.Clock.RefreshIntervalMS = 100
	cfg.Share.URLTemplate = "https://wa.me/?text="
	cfg.NATS.URL = "nats://127.0.0.1:4222"
	cfg.NATS.StreamName = "MATCH_EVENTS"
	cfg.NATS.SubjectPrefix = "match.events"
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// loadConfig reads the YAML file at path when it exists, then applies
// environment overrides. A missing file is not an error; defaults apply.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Storage.DataDir = getEnv("DATA_DIR", cfg.Storage.DataDir)
	cfg.Clock.RefreshIntervalMS = getEnvAsInt("CLOCK_REFRESH_INTERVAL_MS", cfg.Clock.RefreshIntervalMS)
	cfg.Share.URLTemplate = getEnv("SHARE_URL_TEMPLATE", cfg.Share.URLTemplate)
	cfg.NATS.Enabled = getEnvAsBool("NATS_ENABLED", cfg.NATS.Enabled)
	cfg.NATS.URL = getEnv("NATS_URL", cfg.NATS.URL)

	return cfg, nil
}

func (c *Config) refreshInterval() time.Duration {
	return time.Duration(c.Clock.RefreshIntervalMS) * time.Millisecond
}
