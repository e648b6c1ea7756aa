package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr   = ":8081"
	DefaultQueryTimeout = 5 * time.Minute
	DefaultStreamLimit  = 100
)

// Config is the query server configuration, loaded from YAML with
// environment overrides for the deployment-specific values.
type Config struct {
	ListenAddr   string
	AWSRegion    string
	QueryTimeout time.Duration
	StreamLimit  int64
}

type rawConfig struct {
	ListenAddr   string `yaml:"listen_addr"`
	AWSRegion    string `yaml:"aws_region"`
	QueryTimeout string `yaml:"query_timeout"`
	StreamLimit  int64  `yaml:"stream_limit"`
}

// Load reads the config file at path, applying defaults for anything unset.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var raw rawConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		ListenAddr:   raw.ListenAddr,
		AWSRegion:    raw.AWSRegion,
		QueryTimeout: DefaultQueryTimeout,
		StreamLimit:  raw.StreamLimit,
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.StreamLimit <= 0 {
		cfg.StreamLimit = DefaultStreamLimit
	}
	if raw.QueryTimeout != "" {
		d, err := time.ParseDuration(raw.QueryTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid query_timeout %q: %w", raw.QueryTimeout, err)
		}
		cfg.QueryTimeout = d
	}

	if addr := os.Getenv("SPYGLASS_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.AWSRegion = region
	}
	return cfg, nil
}
