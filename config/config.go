package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Sigmac SigmacConfig `yaml:"sigmac"`
}

// SigmacConfig is the project configuration.
type SigmacConfig struct {
	Server  ServerConfig  `yaml:"server"`
	CLI     CLIConfig     `yaml:"cli"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig controls the HTTP convert server.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Cache          CacheConfig   `yaml:"cache"`
}

// CacheConfig controls the Redis read-through query cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// CLIConfig controls default CLI behavior.
type CLIConfig struct {
	OutputDir       string `yaml:"output_dir"`
	DefaultFieldMap string `yaml:"default_field_map"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
