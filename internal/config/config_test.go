package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stackfin/gitscout/internal/models"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "./data/db/items.db"
ingest:
  directories: ["./dumps"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "items.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	if len(cfg.Ingest.Directories) != 1 {
		t.Fatalf("ingest directories: got %d", len(cfg.Ingest.Directories))
	}
	wantDir := filepath.Join(dir, "dumps")
	if cfg.Ingest.Directories[0] != wantDir {
		t.Errorf("ingest directory = %s, want %s", cfg.Ingest.Directories[0], wantDir)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 100 {
		t.Errorf("default limits: got %d/%d", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Search.TopKCandidates != 100 {
		t.Errorf("default top_k_candidates: got %d", cfg.Search.TopKCandidates)
	}
	if cfg.Search.DefaultStrategy != "linear" {
		t.Errorf("default strategy: got %s", cfg.Search.DefaultStrategy)
	}
	if cfg.Search.TextWeight != 0.7 || cfg.Search.VectorWeight != 0.3 {
		t.Errorf("default weights: got %f/%f", cfg.Search.TextWeight, cfg.Search.VectorWeight)
	}
	if cfg.Search.VectorFilterMode != "pre" {
		t.Errorf("default vector_filter_mode: got %s", cfg.Search.VectorFilterMode)
	}
	if cfg.Embedding.Dimensions != 384 {
		t.Errorf("default dimensions: got %d", cfg.Embedding.Dimensions)
	}
}

func TestSearchConfig_DefaultRerank(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if _, ok := cfg.Search.DefaultRerank().(models.Linear); !ok {
		t.Errorf("linear default: got %T", cfg.Search.DefaultRerank())
	}

	cfg.Search.DefaultStrategy = "rrf"
	rrf, ok := cfg.Search.DefaultRerank().(models.RRF)
	if !ok || rrf.K != 60 {
		t.Errorf("rrf default: got %#v", cfg.Search.DefaultRerank())
	}

	cfg.Search.DefaultStrategy = "text_only"
	if _, ok := cfg.Search.DefaultRerank().(models.TextOnly); !ok {
		t.Errorf("text_only: got %T", cfg.Search.DefaultRerank())
	}
}

func TestEmbeddingConfig_APIKey(t *testing.T) {
	t.Setenv("GITSCOUT_TEST_KEY", "sk-test")
	e := EmbeddingConfig{APIKeyEnv: "GITSCOUT_TEST_KEY"}
	if e.APIKey() != "sk-test" {
		t.Errorf("APIKey() = %q", e.APIKey())
	}
	none := EmbeddingConfig{}
	if none.APIKey() != "" {
		t.Error("empty APIKeyEnv should yield empty key")
	}
}
