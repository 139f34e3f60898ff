// RFMBoard - RFM Customer Segmentation Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rfmboard

// Package config loads RFMBoard configuration.
//
// Loading order (koanf v2), later layers win:
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, config.yaml, config.yml, /etc/rfmboard/config.yaml)
//  3. Environment variables listed in envMappings
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Config is the root configuration.
type Config struct {
	Data     DataConfig     `koanf:"data"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DataConfig locates the three input CSV tables.
//
// Environment Variables:
//   - RFM_DATA_DIR: directory holding the files (default: .)
//   - RFM_FILE: RFM table (default: rfm_tanpa_outlier.csv)
//   - SCALED_FILE: min-max scaled table (default: rfm_minmax_scaled.csv)
//   - CLUSTERED_FILE: clustered table (default: rfm_clustered.csv)
//   - DATA_WATCH: reload when any of the files changes (default: false)
//   - DATA_WATCH_DEBOUNCE: quiet period before a watch-triggered reload (default: 500ms)
type DataConfig struct {
	Dir           string        `koanf:"dir"`
	RFMFile       string        `koanf:"rfm_file"`
	ScaledFile    string        `koanf:"scaled_file"`
	ClusteredFile string        `koanf:"clustered_file"`
	Watch         bool          `koanf:"watch"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// RFMPath returns the RFM table path. Absolute file names are used as is.
func (d DataConfig) RFMPath() string { return d.resolve(d.RFMFile) }

// ScaledPath returns the scaled table path.
func (d DataConfig) ScaledPath() string { return d.resolve(d.ScaledFile) }

// ClusteredPath returns the clustered table path.
func (d DataConfig) ClusteredPath() string { return d.resolve(d.ClusteredFile) }

// FileNames returns the base names of the three tables in load order.
func (d DataConfig) FileNames() []string {
	return []string{filepath.Base(d.RFMFile), filepath.Base(d.ScaledFile), filepath.Base(d.ClusteredFile)}
}

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// DatabaseConfig tunes the DuckDB instance used to parse the CSV tables.
// An empty Path keeps the database in memory.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig bounds the top-N size accepted from clients.
type APIConfig struct {
	DefaultTopN int `koanf:"default_top_n"`
	MaxTopN     int `koanf:"max_top_n"`
}

// CacheConfig controls the per-snapshot result cache.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// SecurityConfig holds CORS and rate limiting settings. The dashboard is
// read-only and has no authentication.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, the config file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
