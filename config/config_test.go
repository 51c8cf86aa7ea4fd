package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.LLMProvider != "OpenAI" || cfg.MaxTokens != 4096 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.OutputDir != filepath.Join(dir, "output") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.DatabasePath != filepath.Join(dir, "history.db") {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := Default(dir)
	cfg.APIKey = "sk-test"
	cfg.ModelName = "gpt-4o"
	cfg.DetailedLog = true
	cfg.Language = "de"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"apiKey":"sk-partial"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "sk-partial" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.ModelName != "gpt-4o-mini" {
		t.Errorf("unset fields should keep defaults, ModelName = %q", cfg.ModelName)
	}
}

func TestLoad_UnparsableFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unparsable file should be an error")
	}
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(filepath.Join(dir, "app"))
	if err := EnsureDirs(cfg); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, d := range []string{cfg.OutputDir, cfg.TemplateDir, cfg.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("directory %s not created: %v", d, err)
		}
	}
}
