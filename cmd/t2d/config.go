package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI/server configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	StateDir     string `json:"state_dir"`
	StateBackend string `json:"state_backend"` // file | libsql
	DBPath       string `json:"db_path"`
	LogLevel     string `json:"log_level"`
}

func defaultConfig() Config {
	return Config{
		StateDir:     filepath.Join(t2dDir(), "state"),
		StateBackend: "file",
		DBPath:       "file:" + filepath.Join(t2dDir(), "state.db"),
		LogLevel:     "info",
	}
}

func t2dDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".t2d"
	}
	return filepath.Join(home, ".t2d")
}

func settingsPath() string {
	return filepath.Join(t2dDir(), "settings.json")
}

func loadConfig() Config {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("T2D_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("T2D_STATE_BACKEND"); v != "" {
		cfg.StateBackend = v
	}
	if v := os.Getenv("T2D_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("T2D_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}
