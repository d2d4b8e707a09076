package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath     = "nixdoc.yaml"
	DefaultDB       = "nixdoc.db"
	DefaultFormat   = "markdown"
	DefaultLogLevel = "info"
)

type Config struct {
	Project struct {
		Root string `yaml:"root"`
	} `yaml:"project"`
	Output struct {
		Format string `yaml:"format"` // markdown, html, json or yaml
		Path   string `yaml:"path"`   // empty means stdout
		Locs   string `yaml:"locs"`   // location index JSON
	} `yaml:"output"`
	Catalog struct {
		DB string `yaml:"db"`
	} `yaml:"catalog"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	// Descriptions maps a category to the heading used when rendering it
	// from the catalog.
	Descriptions map[string]string `yaml:"descriptions"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Project.Root == "" {
		c.Project.Root = "."
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	if c.Catalog.DB == "" {
		c.Catalog.DB = DefaultDB
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Descriptions == nil {
		c.Descriptions = map[string]string{}
	}
}

// Description returns the configured heading for a category, falling back
// to the category name.
func (c *Config) Description(category string) string {
	if d, ok := c.Descriptions[category]; ok && d != "" {
		return d
	}
	return category
}

// LoadConfig reads the YAML configuration at path. A missing file is not an
// error; the defaults are used instead.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	var cfg Config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if db := os.Getenv("NIXDOC_DB"); db != "" {
		cfg.Catalog.DB = db
	}
	if level := os.Getenv("NIXDOC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("NIXDOC_FORMAT"); format != "" {
		cfg.Output.Format = format
	}

	cfg.applyDefaults()
	return &cfg, nil
}
