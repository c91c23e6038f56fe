package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Workers)
	}
	if cfg.Collaborator.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model %s", cfg.Collaborator.Model)
	}
	if cfg.Collaborator.Temperature != 0.2 {
		t.Errorf("unexpected temperature %v", cfg.Collaborator.Temperature)
	}
	if cfg.Collaborator.Timeout.Duration() != 10*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Collaborator.Timeout.Duration())
	}
	if cfg.Rules.DefaultDomain != "corp.example.com" {
		t.Errorf("unexpected default domain %s", cfg.Rules.DefaultDomain)
	}
	if cfg.Rules.SubnetPublicPolicy != SubnetPublicEmpty {
		t.Errorf("unexpected subnet policy %s", cfg.Rules.SubnetPublicPolicy)
	}
}

func TestLoadFromPath(t *testing.T) {
	content := `version: 1
workers: 8
database:
  path: /tmp/custom.db
collaborator:
  model: gpt-4o
  timeout: 30s
rules:
  default_domain: internal.example.net
  subnet_public_policy: host_route
`
	path := filepath.Join(t.TempDir(), "invnorm.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, loadedPath, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loadedPath != path {
		t.Errorf("expected path %s, got %s", path, loadedPath)
	}

	if cfg.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Workers)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Errorf("unexpected db path %s", cfg.Database.Path)
	}
	if cfg.Collaborator.Model != "gpt-4o" {
		t.Errorf("unexpected model %s", cfg.Collaborator.Model)
	}
	if cfg.Collaborator.Timeout.Duration() != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Collaborator.Timeout.Duration())
	}

	// Unset fields fall back to defaults.
	if cfg.Collaborator.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("base_url default not applied: %s", cfg.Collaborator.BaseURL)
	}
	if cfg.Output.RecordsPath != "./inventory_clean.csv" {
		t.Errorf("records_path default not applied: %s", cfg.Output.RecordsPath)
	}

	if cfg.Rules.DefaultDomain != "internal.example.net" {
		t.Errorf("rules override lost: %s", cfg.Rules.DefaultDomain)
	}
	if cfg.Rules.SubnetPublicPolicy != SubnetPublicHostRoute {
		t.Errorf("unexpected subnet policy %s", cfg.Rules.SubnetPublicPolicy)
	}
}

func TestLoadFromPathPartialRules(t *testing.T) {
	content := `rules:
  device_synonyms:
    appliance: server
`
	path := filepath.Join(t.TempDir(), "invnorm.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	// A named table replaces the default wholesale.
	if cfg.Rules.DeviceSynonyms["appliance"] != "server" {
		t.Errorf("device synonym override lost: %v", cfg.Rules.DeviceSynonyms)
	}
	if _, ok := cfg.Rules.DeviceSynonyms["srv"]; ok {
		t.Error("overridden table should not merge with defaults")
	}

	// Untouched tables keep their defaults.
	if cfg.Rules.SiteNames["blr campus"] != "BLR-Campus" {
		t.Errorf("site names default lost: %v", cfg.Rules.SiteNames)
	}
	if len(cfg.Rules.TeamKeywords) == 0 {
		t.Error("team keywords default lost")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "invnorm.yaml")

	cfg := DefaultConfig()
	cfg.Workers = 2
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Workers != 2 {
		t.Errorf("expected 2 workers after round trip, got %d", loaded.Workers)
	}
	if loaded.Collaborator.Timeout.Duration() != 10*time.Second {
		t.Errorf("timeout did not survive round trip: %v", loaded.Collaborator.Timeout.Duration())
	}
}

func TestIsTeamKeyword(t *testing.T) {
	rules := DefaultRules()
	if !rules.IsTeamKeyword("platform") {
		t.Error("platform should be a team keyword")
	}
	if rules.IsTeamKeyword("engineering") {
		t.Error("engineering should not be a team keyword")
	}
}
