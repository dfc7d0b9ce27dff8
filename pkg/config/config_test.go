package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name   string `yaml:"name"`
	Secret string `yaml:"secret"`
}

func (c *testConfig) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is empty")
	}
	return nil
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("PHILOFEED_TEST_SECRET", "s3cret")
	path := writeFile(t, "name: Filosofía\nsecret: ${PHILOFEED_TEST_SECRET}\n")

	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "Filosofía" {
		t.Errorf("Name = %q, want %q", cfg.Name, "Filosofía")
	}
	if cfg.Secret != "s3cret" {
		t.Errorf("Secret = %q, want %q", cfg.Secret, "s3cret")
	}
}

func TestLoad_KeepsUnsetFields(t *testing.T) {
	path := writeFile(t, "secret: x\n")
	cfg := testConfig{Name: "default"}
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("Name = %q, want default kept", cfg.Name)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "name: x\n")
	var cfg testConfig
	err := Load(path, &cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "secret is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOptional_MissingFile(t *testing.T) {
	cfg := testConfig{Secret: "from-env"}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if found {
		t.Error("found = true for a missing file")
	}
}

func TestLoadOptional_MissingFileStillValidates(t *testing.T) {
	var cfg testConfig
	if _, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestReadOptional_SkipsValidation(t *testing.T) {
	path := writeFile(t, "name: solo\n")
	var cfg testConfig
	found, err := ReadOptional(path, &cfg)
	if err != nil {
		t.Fatalf("ReadOptional: %v", err)
	}
	if !found || cfg.Name != "solo" {
		t.Errorf("found = %v, Name = %q", found, cfg.Name)
	}
}
