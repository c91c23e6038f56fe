// Package config provides configuration management for invnorm.
//
// The config file carries process settings (worker count, output paths,
// collaborator endpoint) together with the canonical rules tables the
// normalization components read. Every table has a compiled-in default, so
// the tool runs with no config file at all.
//
// Config file locations (priority order):
//  1. $INVNORM_CONFIG
//  2. ./invnorm.yaml
//  3. ~/.config/invnorm/config.yaml
//  4. /etc/invnorm/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Version:  1,
		Workers:  4,
		Database: DatabaseConfig{Path: "./invnorm.db"},
		Output: OutputConfig{
			RecordsPath:   "./inventory_clean.csv",
			AnomaliesPath: "./anomalies.json",
		},
		Collaborator: CollaboratorConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0.2,
			Timeout:     Duration(10 * time.Second),
		},
		Rules: DefaultRules(),
	}
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Database.Path == "" {
		c.Database.Path = "./invnorm.db"
	}
	if c.Output.RecordsPath == "" {
		c.Output.RecordsPath = "./inventory_clean.csv"
	}
	if c.Output.AnomaliesPath == "" {
		c.Output.AnomaliesPath = "./anomalies.json"
	}
	if c.Collaborator.BaseURL == "" {
		c.Collaborator.BaseURL = "https://api.openai.com/v1"
	}
	if c.Collaborator.Model == "" {
		c.Collaborator.Model = "gpt-4o-mini"
	}
	if c.Collaborator.APIKeyEnv == "" {
		c.Collaborator.APIKeyEnv = "OPENAI_API_KEY"
	}
	if c.Collaborator.Temperature == 0 {
		c.Collaborator.Temperature = 0.2
	}
	if c.Collaborator.Timeout == 0 {
		c.Collaborator.Timeout = Duration(10 * time.Second)
	}

	c.Rules.applyDefaults()
}

// APIKey resolves the collaborator credential from the configured environment
// variable. Empty means the collaborator is disabled for the run.
func (c *Config) APIKey() string {
	return os.Getenv(c.Collaborator.APIKeyEnv)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	collab := "disabled"
	if c.APIKey() != "" {
		collab = fmt.Sprintf("%s (%s)", c.Collaborator.Model, c.Collaborator.BaseURL)
	}
	return fmt.Sprintf("Workers: %d, DB: %s, Collaborator: %s, Default domain: %s",
		c.Workers, c.Database.Path, collab, c.Rules.DefaultDomain)
}
