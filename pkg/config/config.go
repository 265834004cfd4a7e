// Package config loads service configuration from an optional YAML file with
// environment-variable overrides. A bare binary with no file and no env is
// fully functional on defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// UpstreamConfig controls the outbound fetch layer. Base URLs exist so tests
// and local fixtures can point the client elsewhere; the identity headers
// are deliberately not configurable.
type UpstreamConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	KlineBase      string `yaml:"kline_base"`
	DataCenterBase string `yaml:"datacenter_base"`
	FundAPIBase    string `yaml:"fund_api_base"`
	FundPageBase   string `yaml:"fund_page_base"`
}

func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// Load reads the YAML file at path (missing file is fine), then applies env
// overrides: DIVSCOPE_HOST, DIVSCOPE_PORT, DIVSCOPE_UPSTREAM_TIMEOUT.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: "8080"},
		Upstream: UpstreamConfig{TimeoutSeconds: 10},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if v := os.Getenv("DIVSCOPE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DIVSCOPE_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DIVSCOPE_UPSTREAM_TIMEOUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("DIVSCOPE_UPSTREAM_TIMEOUT: expected positive integer seconds, got %q", v)
		}
		cfg.Upstream.TimeoutSeconds = n
	}

	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 10
	}
	return cfg, nil
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
