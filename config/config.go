package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds optional overrides for output directories and provider
// endpoints. All fields fall back to built-in defaults when unset.
type Config struct {
	DataDir   string `yaml:"data_dir"`
	ImagesDir string `yaml:"images_dir"`
	Sources   struct {
		StooqURL string `yaml:"stooq_url"`
		FREDURL  string `yaml:"fred_url"`
	} `yaml:"sources"`
}

// Load reads config from a YAML file. A missing file yields an empty config
// rather than an error so runs work with no configuration at all.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
