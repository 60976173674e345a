// Package config provides configuration loading and structs for the gitscout server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stackfin/gitscout/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Ingest    IngestConfig    `yaml:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the item database and the two indices.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	BleveIndexPath  string `yaml:"bleve_index_path"`
	VectorIndexPath string `yaml:"vector_index_path"`
}

// EmbeddingConfig holds embedding provider settings. The API key is read
// from the environment variable named by APIKeyEnv, never from the file.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // openai or mock
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	APIKeyEnv  string `yaml:"api_key_env"`
	CacheSize  int    `yaml:"cache_size"`
}

// APIKey resolves the provider credential from the environment.
func (e *EmbeddingConfig) APIKey() string {
	if e.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(e.APIKeyEnv)
}

// SearchConfig holds retrieval and fusion settings.
type SearchConfig struct {
	DefaultLimit   int `yaml:"default_limit"`
	MaxLimit       int `yaml:"max_limit"`
	TopKCandidates int `yaml:"top_k_candidates"`

	// DefaultStrategy selects the hybrid fusion used when a query does
	// not name one: rrf, linear, text_only, or vector_only.
	DefaultStrategy string  `yaml:"default_strategy"`
	RRFK            float64 `yaml:"rrf_k"`
	TextWeight      float64 `yaml:"text_weight"`
	VectorWeight    float64 `yaml:"vector_weight"`

	// VectorFilterMode selects pre or post filtering in the vector index.
	VectorFilterMode string `yaml:"vector_filter_mode"`
}

// DefaultRerank builds the configured default fusion strategy.
func (s *SearchConfig) DefaultRerank() models.RerankStrategy {
	switch s.DefaultStrategy {
	case "rrf":
		return models.RRF{K: s.RRFK}
	case "text_only":
		return models.TextOnly{}
	case "vector_only":
		return models.VectorOnly{}
	default:
		return models.Linear{TextWeight: s.TextWeight, VectorWeight: s.VectorWeight}
	}
}

// IngestConfig holds dump-file ingestion settings.
type IngestConfig struct {
	Directories []string `yaml:"directories"`
	Watch       bool     `yaml:"watch"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.VectorIndexPath = expandPath(cfg.Storage.VectorIndexPath, configDir)
	for i := range cfg.Ingest.Directories {
		cfg.Ingest.Directories[i] = expandPath(cfg.Ingest.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
