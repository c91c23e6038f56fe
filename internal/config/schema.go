package config

import (
	"fmt"
	"time"
)

// SubnetPolicy controls the subnet heuristic applied to public IPv4 addresses.
// The derived CIDR is a policy choice, not a verified network fact.
type SubnetPolicy string

const (
	// SubnetPublicEmpty leaves subnet_cidr empty for public addresses.
	SubnetPublicEmpty SubnetPolicy = "empty"
	// SubnetPublicHostRoute emits a /32 host route for public addresses.
	SubnetPublicHostRoute SubnetPolicy = "host_route"
)

// Config is the full process configuration loaded from YAML.
type Config struct {
	Version int `yaml:"version"`

	// Workers bounds the record-processing pool.
	Workers int `yaml:"workers"`

	Database     DatabaseConfig     `yaml:"database"`
	Output       OutputConfig       `yaml:"output"`
	Collaborator CollaboratorConfig `yaml:"collaborator"`
	Rules        Rules              `yaml:"rules"`
}

// DatabaseConfig locates the SQLite file that persists run output.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig controls the report writers.
type OutputConfig struct {
	RecordsPath   string `yaml:"records_path"`
	AnomaliesPath string `yaml:"anomalies_path"`
	// CompressAnomalies gzips the anomaly report (path gains a .gz suffix).
	CompressAnomalies bool `yaml:"compress_anomalies"`
}

// CollaboratorConfig configures the semantic-inference collaborator endpoint.
// The API key itself comes from the environment, never from the file.
type CollaboratorConfig struct {
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	Temperature float64  `yaml:"temperature"`
	Timeout     Duration `yaml:"timeout"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML parses duration strings like "30s" or "5m"
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration converts to the standard library type
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
