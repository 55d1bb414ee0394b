package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SitesConfig is the optional YAML file that extends the built-in site
// lists and seeds per-domain limits on first run.
type SitesConfig struct {
	ProductiveSites   []string       `yaml:"productive_sites"`
	UnproductiveSites []string       `yaml:"unproductive_sites"`
	BlockedSites      []string       `yaml:"blocked_sites"`
	DefaultLimits     map[string]int `yaml:"default_limits"` // domain -> minutes per day
}

// LoadSitesConfig reads and parses the sites file. An empty path returns
// an empty config, not an error.
func LoadSitesConfig(path string) (*SitesConfig, error) {
	if path == "" {
		return &SitesConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sites config: %w", err)
	}

	var cfg SitesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sites config: %w", err)
	}

	for domain, minutes := range cfg.DefaultLimits {
		if minutes <= 0 {
			return nil, fmt.Errorf("default limit for %s must be positive, got %d", domain, minutes)
		}
	}

	return &cfg, nil
}
