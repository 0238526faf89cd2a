package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DatabasePath != "parchment.db" {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath)
	}
	if cfg.TreeKey != "default" {
		t.Fatalf("unexpected tree key: %q", cfg.TreeKey)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("PARCHMENT_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("PARCHMENT_TREE_KEY", "workbench")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DatabasePath != "/tmp/other.db" {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath)
	}
	if cfg.TreeKey != "workbench" {
		t.Fatalf("unexpected tree key: %q", cfg.TreeKey)
	}
}

func TestLoadRejectsBlankRequiredValues(t *testing.T) {
	t.Setenv("PARCHMENT_DATABASE_PATH", "   ")

	if _, err := Load(NewViper()); err == nil {
		t.Fatalf("expected blank database path to be rejected")
	}
}
