package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "3001" {
		t.Errorf("Expected default port 3001, got %s", cfg.Port)
	}
	if cfg.DataDir != "data" {
		t.Errorf("Expected default data dir, got %s", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate: %v", err)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "klinedata.yaml")
	content := "dataDir: /srv/kline\nport: \"8080\"\nsourceMode: json\nrequestTimeout: 5s\ntushareRPS: 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataDir != "/srv/kline" {
		t.Errorf("Expected data dir from file, got %s", cfg.DataDir)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected env to override file port, got %s", cfg.Port)
	}
	if cfg.SourceMode != "json" {
		t.Errorf("Expected json mode, got %s", cfg.SourceMode)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.TushareRPS != 2 {
		t.Errorf("Expected rps 2, got %v", cfg.TushareRPS)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestBadEnvNumbersFallBack(t *testing.T) {
	t.Setenv("TUSHARE_RPS", "fast")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TushareRPS != 0 || cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected defaults, got rps=%v timeout=%v", cfg.TushareRPS, cfg.RequestTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"bad port", func(c *Config) { c.Port = "http" }, true},
		{"unknown mode", func(c *Config) { c.SourceMode = "zip" }, true},
		{"remote without url", func(c *Config) { c.SourceMode = "remote" }, true},
		{"remote with url", func(c *Config) { c.SourceMode = "remote"; c.AssetBaseURL = "https://cdn.example.com/data" }, false},
		{"negative rps", func(c *Config) { c.TushareRPS = -1 }, true},
		{"unknown gin mode", func(c *Config) { c.GinMode = "prod" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
