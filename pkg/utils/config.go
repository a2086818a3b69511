package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr     string        `yaml:"http_addr"`
	SyncAddr     string        `yaml:"sync_addr"`
	DataDir      string        `yaml:"data_dir"`
	DataURL      string        `yaml:"data_url"` // where rooms fetch their documents
	StepDelay    time.Duration `yaml:"-"`
	StepDelayMS  int           `yaml:"step_delay_ms"`
	SingleFlight bool          `yaml:"single_flight"`
	Debug        bool          `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		SyncAddr:    ":7070",
		DataDir:     "data",
		StepDelayMS: 1000,
	}
}

// LoadConfig applies, in order: defaults, the YAML file named by
// ESCAPE_CONFIG (if any), then ESCAPE_* environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("ESCAPE_CONFIG"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("ESCAPE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("ESCAPE_SYNC_ADDR"); v != "" {
		cfg.SyncAddr = v
	}
	if v := os.Getenv("ESCAPE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ESCAPE_DATA_URL"); v != "" {
		cfg.DataURL = v
	}
	if v := os.Getenv("ESCAPE_STEP_DELAY_MS"); v != "" {
		// bad values keep whatever was set before
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StepDelayMS = n
		}
	}
	if v, ok := envBool("ESCAPE_SINGLE_FLIGHT"); ok {
		cfg.SingleFlight = v
	}
	if v, ok := envBool("ESCAPE_DEBUG"); ok {
		cfg.Debug = v
	}

	if cfg.StepDelayMS <= 0 {
		cfg.StepDelayMS = DefaultConfig().StepDelayMS
	}
	cfg.StepDelay = time.Duration(cfg.StepDelayMS) * time.Millisecond

	if cfg.DataURL == "" {
		cfg.DataURL = "http://" + loopback(cfg.HTTPAddr)
	}
	return cfg, nil
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// loopback turns a listen address like ":8080" into "127.0.0.1:8080".
func loopback(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	if strings.HasPrefix(addr, "0.0.0.0:") {
		return "127.0.0.1" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return addr
}
