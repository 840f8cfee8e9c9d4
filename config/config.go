// Package config loads service configuration from a YAML or JSON file
// with environment overrides (prefix PLANNER_, __ as the key
// separator: PLANNER_SERVER__PORT=9090 overrides server.port).
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`
}

type ServerConfig struct {
	Port int `json:"port"`

	// DB is the SQLite database path; ":memory:" runs without a file.
	DB string `json:"db"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.DB == "" {
		c.Server.DB = "planner.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Load reads the config file at path and applies environment
// overrides. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("PLANNER_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "planner_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}
