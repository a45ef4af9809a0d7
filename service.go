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


package tessera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quarrylabs/tessera/ai"
	"github.com/quarrylabs/tessera/answer"
	"github.com/quarrylabs/tessera/core"
	"github.com/quarrylabs/tessera/index"
	"github.com/quarrylabs/tessera/ingestion"
	"github.com/quarrylabs/tessera/registry"
	"github.com/quarrylabs/tessera/search"
	"github.com/quarrylabs/tessera/vectorstore"
)

var (
	// ErrProviderRequired indicates New was called without an AI provider.
	ErrProviderRequired = errors.New("ai provider required")

	// ErrStoreRequired indicates New was called without a vector store.
	ErrStoreRequired = errors.New("vector store required")

	// ErrRegistryRequired indicates New was called without a tenant registry.
	ErrRegistryRequired = errors.New("tenant registry required")
)

// Service bundles the whole stack behind one handle: index lifecycle,
// tenant registry, ingestion, retrieval and answering, all bound to a
// single vector store and AI provider.
type Service struct {
	provider  ai.AIProvider
	store     vectorstore.Store
	registry  registry.TenantRegistry
	manager   *index.Manager
	pipeline  *ingestion.Pipeline
	retriever *search.Retriever
	answerer  *answer.Answerer
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	provider      ai.AIProvider
	store         vectorstore.Store
	registry      registry.TenantRegistry
	indexOpts     []index.Option
	ingestionOpts []ingestion.Option
	searchOpts    []search.Option
	answerOpts    []answer.Option
	logger        *slog.Logger
}

// WithProvider sets the AI provider used for embeddings and generation.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithStore sets the vector store backing the shared index.
func WithStore(store vectorstore.Store) ServiceOption {
	return func(o *serviceOptions) {
		o.store = store
	}
}

// WithRegistry sets the tenant registry.
func WithRegistry(reg registry.TenantRegistry) ServiceOption {
	return func(o *serviceOptions) {
		o.registry = reg
	}
}

// WithIndexOptions forwards options to the index lifecycle manager.
func WithIndexOptions(opts ...index.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.indexOpts = append(o.indexOpts, opts...)
	}
}

// WithIngestionOptions forwards options to the ingestion pipeline.
func WithIngestionOptions(opts ...ingestion.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.ingestionOpts = append(o.ingestionOpts, opts...)
	}
}

// WithSearchOptions forwards options to the retriever.
func WithSearchOptions(opts ...search.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// WithAnswerOptions forwards options to the answerer.
func WithAnswerOptions(opts ...answer.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.answerOpts = append(o.answerOpts, opts...)
	}
}

// WithLogger sets the logger for the Service itself. Component pipelines
// keep their own loggers unless configured through the forwarded options.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New wires a Service from its collaborators. The provider, store and
// registry are required. On success the Service owns the provider and
// registry and closes them in Close; on error the caller keeps both.
func New(opts ...ServiceOption) (*Service, error) {
	// Apply options
	options := &serviceOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.provider == nil {
		return nil, ErrProviderRequired
	}
	if options.store == nil {
		return nil, ErrStoreRequired
	}
	if options.registry == nil {
		return nil, ErrRegistryRequired
	}

	manager := index.NewManager(options.store, options.indexOpts...)

	pipeline, err := ingestion.NewPipeline(options.provider.Embedder(), options.store, options.ingestionOpts...)
	if err != nil {
		return nil, err
	}

	retriever, err := search.NewRetriever(options.provider.Embedder(), options.store, options.searchOpts...)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	answerer, err := answer.NewAnswerer(retriever, options.provider.Generator(), options.answerOpts...)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	return &Service{
		provider:  options.provider,
		store:     options.store,
		registry:  options.registry,
		manager:   manager,
		pipeline:  pipeline,
		retriever: retriever,
		answerer:  answerer,
		logger:    options.logger,
	}, nil
}

func (s *Service) Close() error {
	// Release the ingestion worker pool
	s.pipeline.Release()

	// Close AI provider first
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	// Close the tenant registry
	if err := s.registry.Close(); err != nil {
		s.logger.Error("error closing tenant registry", "err", err)
		return err
	}
	return nil
}

// EnsureReady makes sure the backing index exists and is ready to serve.
func (s *Service) EnsureReady(ctx context.Context) error {
	return s.manager.EnsureReady(ctx)
}

// Ingest chunks, embeds and stores one text document under the tenant's
// namespace. The tenant is registered on first ingest.
func (s *Service) Ingest(ctx context.Context, tenantID, text string, metadata map[string]string) (*ingestion.Result, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.registry.EnsureTenant(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("registering tenant %q: %w", tenantID, err)
	}
	return s.pipeline.Ingest(ctx, tenantID, text, metadata)
}

// IngestMany ingests a batch of documents in order. A nil batch is
// rejected; an empty one is a no-op.
func (s *Service) IngestMany(ctx context.Context, tenantID string, documents []core.Document) ([]*ingestion.Result, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if documents == nil {
		return nil, fmt.Errorf("%w: document list is nil", core.ErrInvalidDocument)
	}
	if _, err := s.registry.EnsureTenant(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("registering tenant %q: %w", tenantID, err)
	}
	return s.pipeline.IngestMany(ctx, tenantID, documents)
}

// IngestPDF extracts the text from a PDF document and ingests it.
func (s *Service) IngestPDF(ctx context.Context, tenantID string, raw []byte, metadata map[string]string) (*ingestion.Result, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.registry.EnsureTenant(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("registering tenant %q: %w", tenantID, err)
	}
	return s.pipeline.IngestPDF(ctx, tenantID, raw, metadata)
}

// Retrieve returns the tenant's topK most similar chunks for the query.
func (s *Service) Retrieve(ctx context.Context, tenantID, query string, topK int) ([]core.RetrievedChunk, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := core.ValidateQuestion(query); err != nil {
		return nil, err
	}
	return s.retriever.Retrieve(ctx, tenantID, query, topK)
}

// Ask answers the question from the tenant's stored documents.
func (s *Service) Ask(ctx context.Context, tenantID, question string) (*core.Answer, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}
	if err := core.ValidateQuestion(question); err != nil {
		return nil, err
	}
	return s.answerer.Ask(ctx, tenantID, question)
}

// CreateTenant registers a tenant ahead of its first ingest.
func (s *Service) CreateTenant(ctx context.Context, tenant *core.Tenant) (*core.Tenant, error) {
	if err := core.ValidateTenant(tenant); err != nil {
		return nil, err
	}
	return s.registry.CreateTenant(ctx, tenant)
}

// ListTenants returns every registered tenant, ordered by id.
func (s *Service) ListTenants(ctx context.Context) ([]*core.Tenant, error) {
	return s.registry.ListTenants(ctx)
}

// ClearTenant removes the tenant's stored documents. The registry entry
// stays, so the tenant remains listed with an empty namespace.
func (s *Service) ClearTenant(ctx context.Context, tenantID string) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}
	return s.manager.ClearNamespace(ctx, tenantID)
}

// DeleteTenant removes the tenant's stored documents and its registry
// entry. Deleting a tenant that was never registered is not an error.
func (s *Service) DeleteTenant(ctx context.Context, tenantID string) error {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return err
	}
	if err := s.manager.DeleteNamespace(ctx, tenantID); err != nil {
		return err
	}
	if err := s.registry.DeleteTenant(ctx, tenantID); err != nil && !errors.Is(err, registry.ErrTenantNotFound) {
		return err
	}
	s.logger.Info("deleted tenant", "tenant", tenantID)
	return nil
}

// Registry exposes the tenant registry for callers that need lookups
// beyond the Service surface.
func (s *Service) Registry() registry.TenantRegistry {
	return s.registry
}
