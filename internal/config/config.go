package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	DBPath       string `json:"db_path"`
	BaseURL      string `json:"base_url"`
	ArchiveRoot  string `json:"archive_root"`
	LedgerRoot   string `json:"ledger_root"`
	PaceMs       int    `json:"pace_ms"`
	FetchTimeout int    `json:"fetch_timeout_seconds"`
	ListenAddr   string `json:"listen_addr"`
}

func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("db_path is required")
	}
	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("base_url is required")
	}
	if cfg.ArchiveRoot == "" {
		return Config{}, fmt.Errorf("archive_root is required")
	}
	if cfg.LedgerRoot == "" {
		cfg.LedgerRoot = cfg.ArchiveRoot
	}
	if cfg.PaceMs <= 0 {
		cfg.PaceMs = 5000
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	return cfg, nil
}
