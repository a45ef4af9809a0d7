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


package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/quarrylabs/tessera/vectorstore"
)

const (
	defaultControlPlaneURL = "https://api.pinecone.io"
	defaultMetric          = "cosine"
	defaultCloud           = "aws"
	defaultRegion          = "us-east-1"
	defaultTimeout         = 30 * time.Second

	apiVersion = "2024-07"
)

// Config holds the settings for one Pinecone index.
type Config struct {
	// APIKey authenticates every request. Required.
	APIKey string

	// IndexName is the fixed name of the shared index. Required.
	IndexName string

	// Dimension is the vector size the index holds. Required; must match
	// the embedding model's output dimension.
	Dimension int

	// Metric is the similarity metric. Default "cosine".
	Metric string

	// Cloud and Region form the serverless hosting spec.
	// Defaults "aws" / "us-east-1".
	Cloud  string
	Region string

	// ControlPlaneURL overrides the API endpoint. Default is the public
	// Pinecone control plane; tests point it at a double.
	ControlPlaneURL string

	// IndexHost optionally pins the data-plane host. When empty it is
	// resolved from DescribeIndex on first use.
	IndexHost string

	// Timeout bounds each HTTP request. Default 30s.
	Timeout time.Duration
}

func (c *Config) withDefaults() Config {
	cfg := *c
	if cfg.Metric == "" {
		cfg.Metric = defaultMetric
	}
	if cfg.Cloud == "" {
		cfg.Cloud = defaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = defaultControlPlaneURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.ControlPlaneURL = strings.TrimSuffix(cfg.ControlPlaneURL, "/")
	return cfg
}

// Validate checks that the required settings are present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("pinecone config: APIKey is required")
	}
	if c.IndexName == "" {
		return errors.New("pinecone config: IndexName is required")
	}
	if c.Dimension <= 0 {
		return errors.New("pinecone config: Dimension must be positive")
	}
	return nil
}

// Store is a vectorstore.Store backed by one Pinecone serverless index.
type Store struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger

	mu   sync.Mutex
	host string // cached data-plane host, resolved via DescribeIndex
}

// NewStore creates a Pinecone-backed store for the configured index.
//
// Returns vectorstore.Store interface to enforce abstraction.
func NewStore(config Config) (vectorstore.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cfg := config.withDefaults()
	return &Store{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default().With("component", "pinecone-store"),
		host:       cfg.IndexHost,
	}, nil
}

// do sends one JSON request and returns the status code and raw body.
// Connection failures map to vectorstore.ErrTransport; status handling is
// left to the caller since several non-2xx codes carry meaning.
func (s *Store) do(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Api-Key", s.config.APIKey)
	req.Header.Set("X-Pinecone-Api-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", vectorstore.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading response body: %v", vectorstore.ErrTransport, err)
	}

	return resp.StatusCode, data, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func unmarshalBody(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", vectorstore.ErrTransport, err)
	}
	return nil
}

// dataPlaneURL returns the base URL of the index's data plane, resolving
// and caching the host on first use.
func (s *Store) dataPlaneURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	host := s.host
	s.mu.Unlock()

	if host == "" {
		status, err := s.DescribeIndex(ctx)
		if err != nil {
			return "", err
		}
		host = status.Host
		if host == "" {
			return "", fmt.Errorf("%w: index %q reported no data-plane host",
				vectorstore.ErrTransport, s.config.IndexName)
		}
	}

	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host, nil
	}
	return "https://" + host, nil
}
