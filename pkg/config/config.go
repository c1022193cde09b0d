package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct, loadable from YAML.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Media    MediaConfig    `yaml:"media"`
	Board    BoardConfig    `yaml:"board"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds the HTTP listen settings.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// StorageConfig holds the embedded store location.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// MediaConfig holds upload directories and ingestion limits.
type MediaConfig struct {
	ImageDir       string      `yaml:"image_dir"`
	VideoDir       string      `yaml:"video_dir"`
	ThumbDir       string      `yaml:"thumb_dir"`
	MaxUploadBytes int64       `yaml:"max_upload_bytes"` // 0 = unlimited
	Sweep          SweepConfig `yaml:"sweep"`
}

// SweepConfig controls the background cleanup of abandoned partial uploads.
type SweepConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	MinAge  string `yaml:"min_age"` // Go duration string, e.g. "1h"
}

// BoardConfig holds content listing settings.
type BoardConfig struct {
	PageSize int `yaml:"page_size"`
}

// SecurityConfig holds flood-control settings for posting routes.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket description.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns a config populated with the built-in defaults. Loaded
// files and env overrides are applied on top of this.
func Defaults() *Config {
	c := &Config{}
	c.Server.Address = "0.0.0.0"
	c.Server.Port = 8080
	c.Storage.DBPath = "./board_db"
	c.Media.ImageDir = "./uploads/images"
	c.Media.VideoDir = "./uploads/videos"
	c.Media.ThumbDir = "./thumbs/images"
	c.Media.Sweep.Enabled = true
	c.Media.Sweep.Cron = "*/30 * * * *"
	c.Media.Sweep.MinAge = "1h"
	c.Board.PageSize = 10
	c.Security.RateLimit.RPS = 1
	c.Security.RateLimit.Burst = 5
	c.Logging.Level = "info"
	return c
}

// Load reads and parses the YAML config file at path into a defaulted
// Config. A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}
