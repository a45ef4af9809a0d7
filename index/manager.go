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


package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quarrylabs/tessera/backoff"
	"github.com/quarrylabs/tessera/vectorstore"
)

const (
	// DefaultIndexName is the name used for the shared index when none
	// is configured.
	DefaultIndexName = "tessera"

	// DefaultPollInterval is the fixed wait between readiness checks.
	DefaultPollInterval = 2 * time.Second

	// DefaultPollAttempts bounds the readiness polling loop.
	DefaultPollAttempts = 10
)

// Manager drives the index and namespace lifecycle against one store.
type Manager struct {
	store     vectorstore.Store
	name      string
	dimension int
	policy    backoff.Policy
	logger    *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIndexName sets the index name used in log and error messages.
func WithIndexName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithDimension sets the expected vector dimension. When set, EnsureReady
// verifies the live index against it and fails on mismatch.
func WithDimension(dimension int) Option {
	return func(m *Manager) {
		m.dimension = dimension
	}
}

// WithReadinessPolicy replaces the default fixed-interval polling policy.
func WithReadinessPolicy(policy backoff.Policy) Option {
	return func(m *Manager) {
		m.policy = policy
	}
}

// NewManager creates a lifecycle manager for the store's index.
func NewManager(store vectorstore.Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		name:  DefaultIndexName,
		policy: backoff.Policy{
			BaseDelay:   DefaultPollInterval,
			Multiplier:  1,
			MaxAttempts: DefaultPollAttempts,
		},
		logger: slog.Default().With("component", "index-manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EnsureReady makes sure the index exists and is ready to serve. An index
// that already reports ready returns immediately with no create call. A
// missing index is created and then polled until ready; if it never
// becomes ready within the polling budget, EnsureReady returns
// ErrIndexNotReady.
func (m *Manager) EnsureReady(ctx context.Context) error {
	status, err := m.store.DescribeIndex(ctx)
	switch {
	case err == nil && status.Ready:
		if err := m.checkDimension(status); err != nil {
			return err
		}
		m.logger.Debug("index ready", "index", m.name)
		return nil

	case err == nil:
		m.logger.Info("index exists but is still initializing", "index", m.name)

	case errors.Is(err, vectorstore.ErrIndexNotFound):
		m.logger.Info("index not found, creating", "index", m.name)
		if err := m.store.CreateIndex(ctx); err != nil {
			return err
		}

	default:
		return err
	}

	return m.waitReady(ctx)
}

func (m *Manager) checkDimension(status vectorstore.IndexStatus) error {
	if m.dimension > 0 && status.Dimension > 0 && status.Dimension != m.dimension {
		return fmt.Errorf("%w: index %q has dimension %d, expected %d",
			vectorstore.ErrDimensionMismatch, m.name, status.Dimension, m.dimension)
	}
	return nil
}

func (m *Manager) waitReady(ctx context.Context) error {
	attempts := 0
	err := backoff.Retry(ctx, m.policy, func() error {
		attempts++
		status, err := m.store.DescribeIndex(ctx)
		if err != nil {
			return err
		}
		if !status.Ready {
			return fmt.Errorf("index %q is still initializing", m.name)
		}
		return m.checkDimension(status)
	})
	if err == nil {
		m.logger.Info("index ready", "index", m.name, "attempts", attempts)
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, vectorstore.ErrDimensionMismatch) {
		return err
	}
	return fmt.Errorf("%w: index %q not ready after %d attempts: %v",
		ErrIndexNotReady, m.name, attempts, err)
}

// ClearNamespace removes every record in the tenant's namespace. Other
// namespaces and the index itself are untouched.
func (m *Manager) ClearNamespace(ctx context.Context, tenantID string) error {
	if err := m.store.DeleteAll(ctx, tenantID); err != nil {
		return err
	}
	m.logger.Info("cleared namespace", "tenant", tenantID)
	return nil
}

// DeleteNamespace removes the tenant's records. At the store layer this is
// the same operation as ClearNamespace since an empty namespace has no
// independent existence; registry bookkeeping lives in the Service.
func (m *Manager) DeleteNamespace(ctx context.Context, tenantID string) error {
	return m.ClearNamespace(ctx, tenantID)
}
