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


package ai

import (
	"errors"
	"strings"
)

// Config carries the connection and model settings shared by every AI
// provider implementation.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434" for a local Ollama server
	EmbeddingHost string

	// GenerationHost is the base URL for the text generation service API.
	// Example: "http://localhost:11434" for a local Ollama server
	GenerationHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "llama2", "nomic-embed-text"
	EmbeddingModel string

	// GenerationModel is the model identifier to use for answer generation.
	// Example: "llama2", "qwen2.5:3b"
	GenerationModel string

	// EmbeddingDimension is the vector size the embedding model produces.
	// The vector index is created with this dimension, so it must match
	// the model. Default: 4096 (llama2)
	EmbeddingDimension int
}

// ConfigOption adjusts a Config during NewConfig.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithGenerationHost sets the generation service host URL.
func WithGenerationHost(host string) ConfigOption {
	return func(c *Config) {
		c.GenerationHost = host
	}
}

// WithHost sets both embedding and generation hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.GenerationHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithGenerationModel sets the generation model identifier.
func WithGenerationModel(model string) ConfigOption {
	return func(c *Config) {
		c.GenerationModel = model
	}
}

// WithEmbeddingDimension sets the embedding vector dimension.
func WithEmbeddingDimension(dim int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimension = dim
	}
}

// DefaultConfig returns a Config with sensible defaults for a local Ollama
// server. By default, embedding and generation use the same host and model.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434"
	return &Config{
		EmbeddingHost:      defaultHost,
		GenerationHost:     defaultHost,
		EmbeddingModel:     "llama2",
		GenerationModel:    "llama2",
		EmbeddingDimension: 4096,
	}
}

// NewConfig starts from DefaultConfig and applies the options in order.
//
// Example:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),
//	    ai.WithEmbeddingModel("nomic-embed-text"),
//	    ai.WithEmbeddingDimension(768),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form by trimming
// trailing slashes from host URLs. Provider packages append their own path
// segments (Ollama's /api, OpenAI's /v1) on top of the bare host.
func (c *Config) Normalize() {
	c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
	c.GenerationHost = strings.TrimSuffix(c.GenerationHost, "/")
}

// Validate normalizes the configuration, then checks that every required
// field is set.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.GenerationHost == "" {
		return errors.New("ai config: GenerationHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.GenerationModel == "" {
		return errors.New("ai config: GenerationModel is required")
	}
	if c.EmbeddingDimension <= 0 {
		return errors.New("ai config: EmbeddingDimension must be positive")
	}
	return nil
}
