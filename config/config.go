// Copyright 2025 Quarry Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads and persists the YAML configuration used by the
// tessera command. Secrets never live in the file; the config names the
// environment variables that hold them.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quarrylabs/tessera/chunker"
	"github.com/quarrylabs/tessera/index"
)

// AIConfig configures the embedding and generation provider.
type AIConfig struct {
	// Provider selects the backend: "ollama" or "openai".
	Provider string `yaml:"provider"`

	// Host is the base URL used for both embedding and generation unless
	// the per-service hosts below override it.
	Host           string `yaml:"host"`
	EmbeddingHost  string `yaml:"embedding_host,omitempty"`
	GenerationHost string `yaml:"generation_host,omitempty"`

	EmbeddingModel  string `yaml:"embedding_model"`
	GenerationModel string `yaml:"generation_model"`

	// Dimension is the embedding model's output vector size. The index is
	// created with this dimension, so it must match the model.
	Dimension int `yaml:"dimension"`
}

// PineconeConfig contains connection details for a Pinecone index.
type PineconeConfig struct {
	APIKeyEnv   string `yaml:"api_key_env"`
	IndexName   string `yaml:"index_name"`
	Metric      string `yaml:"metric"`
	Cloud       string `yaml:"cloud"`
	Region      string `yaml:"region"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	Type     string          `yaml:"type"`
	Pinecone *PineconeConfig `yaml:"pinecone,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size"`
}

// RetrievalConfig sets the default result count for searches.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// ReadinessConfig bounds the polling loop that waits for a freshly
// created index to become ready.
type ReadinessConfig struct {
	PollIntervalSecs int `yaml:"poll_interval_secs"`
	PollAttempts     int `yaml:"poll_attempts"`
}

// RegistryConfig locates the on-disk tenant registry. An empty path means
// the per-user default (see DefaultRegistryPath).
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	AI        AIConfig        `yaml:"ai"`
	Store     StoreConfig     `yaml:"store"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Readiness ReadinessConfig `yaml:"readiness"`
	Registry  RegistryConfig  `yaml:"registry"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyConfigDefaults(cfg)
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./tessera.yaml first, then ~/.config/tessera/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "tessera.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultRegistryPath returns the per-user location of the tenant
// registry database.
func DefaultRegistryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "tessera", "registry"), nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tessera", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		AI: AIConfig{
			Provider:        "ollama",
			Host:            "http://localhost:11434",
			EmbeddingModel:  "llama2",
			GenerationModel: "llama2",
			Dimension:       4096,
		},
		Store: StoreConfig{
			Type: "pinecone",
			Pinecone: &PineconeConfig{
				APIKeyEnv:   "PINECONE_API_KEY",
				IndexName:   index.DefaultIndexName,
				Metric:      "cosine",
				Cloud:       "aws",
				Region:      "us-east-1",
				TimeoutSecs: 30,
			},
		},
		Chunker:   ChunkerConfig{MaxChunkSize: chunker.DefaultMaxSize},
		Retrieval: RetrievalConfig{TopK: 5},
		Readiness: ReadinessConfig{PollIntervalSecs: 2, PollAttempts: 10},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "ollama"
	}
	if cfg.AI.Host == "" {
		cfg.AI.Host = "http://localhost:11434"
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = cfg.AI.Host
	}
	if cfg.AI.GenerationHost == "" {
		cfg.AI.GenerationHost = cfg.AI.Host
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "llama2"
	}
	if cfg.AI.GenerationModel == "" {
		cfg.AI.GenerationModel = cfg.AI.EmbeddingModel
	}
	if cfg.AI.Dimension == 0 {
		cfg.AI.Dimension = 4096
	}

	if cfg.Store.Type == "" {
		cfg.Store.Type = "pinecone"
	}
	if cfg.Store.Type == "pinecone" {
		if cfg.Store.Pinecone == nil {
			cfg.Store.Pinecone = &PineconeConfig{}
		}
		if cfg.Store.Pinecone.APIKeyEnv == "" {
			cfg.Store.Pinecone.APIKeyEnv = "PINECONE_API_KEY"
		}
		if cfg.Store.Pinecone.IndexName == "" {
			cfg.Store.Pinecone.IndexName = index.DefaultIndexName
		}
		if cfg.Store.Pinecone.Metric == "" {
			cfg.Store.Pinecone.Metric = "cosine"
		}
		if cfg.Store.Pinecone.Cloud == "" {
			cfg.Store.Pinecone.Cloud = "aws"
		}
		if cfg.Store.Pinecone.Region == "" {
			cfg.Store.Pinecone.Region = "us-east-1"
		}
		if cfg.Store.Pinecone.TimeoutSecs == 0 {
			cfg.Store.Pinecone.TimeoutSecs = 30
		}
	}

	if cfg.Chunker.MaxChunkSize == 0 {
		cfg.Chunker.MaxChunkSize = chunker.DefaultMaxSize
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Readiness.PollIntervalSecs == 0 {
		cfg.Readiness.PollIntervalSecs = 2
	}
	if cfg.Readiness.PollAttempts == 0 {
		cfg.Readiness.PollAttempts = 10
	}
}
