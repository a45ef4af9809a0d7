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
	"context"
	"fmt"
	"net/http"

	"github.com/quarrylabs/tessera/vectorstore"
)

type upsertVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

type queryMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type deleteRequest struct {
	DeleteAll bool   `json:"deleteAll"`
	Namespace string `json:"namespace"`
}

// Upsert writes one record into the namespace, replacing any record with
// the same ID. Vectors of the wrong dimension are rejected locally before
// any network round trip.
func (s *Store) Upsert(ctx context.Context, namespace string, record vectorstore.Record) error {
	if len(record.Vector) != s.config.Dimension {
		return fmt.Errorf("%w: got %d, index expects %d",
			vectorstore.ErrDimensionMismatch, len(record.Vector), s.config.Dimension)
	}

	base, err := s.dataPlaneURL(ctx)
	if err != nil {
		return err
	}

	payload := upsertRequest{
		Vectors: []upsertVector{{
			ID:       record.ID,
			Values:   record.Vector,
			Metadata: record.Metadata,
		}},
		Namespace: namespace,
	}

	status, _, err := s.do(ctx, http.MethodPost, base+"/vectors/upsert", payload)
	if err != nil {
		return err
	}
	if !success(status) {
		return fmt.Errorf("%w: upsert returned status %d", vectorstore.ErrTransport, status)
	}

	s.logger.Debug("upserted record", "namespace", namespace, "id", record.ID)
	return nil
}

// Query returns up to topK records most similar to the vector, ordered by
// descending score. An unknown namespace maps to vectorstore.ErrNamespaceNotFound.
func (s *Store) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]vectorstore.Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	base, err := s.dataPlaneURL(ctx)
	if err != nil {
		return nil, err
	}

	payload := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	}

	status, body, err := s.do(ctx, http.MethodPost, base+"/query", payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", vectorstore.ErrNamespaceNotFound, namespace)
	}
	if !success(status) {
		return nil, fmt.Errorf("%w: query returned status %d", vectorstore.ErrTransport, status)
	}

	var resp queryResponse
	if err := unmarshalBody(body, &resp); err != nil {
		return nil, err
	}

	matches := make([]vectorstore.Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		matches = append(matches, vectorstore.Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: m.Metadata,
		})
	}

	s.logger.Debug("query returned matches", "namespace", namespace, "count", len(matches))
	return matches, nil
}

// DeleteAll removes every record in the namespace. Deleting a namespace
// that does not exist succeeds without change.
func (s *Store) DeleteAll(ctx context.Context, namespace string) error {
	base, err := s.dataPlaneURL(ctx)
	if err != nil {
		return err
	}

	payload := deleteRequest{
		DeleteAll: true,
		Namespace: namespace,
	}

	status, _, err := s.do(ctx, http.MethodPost, base+"/vectors/delete", payload)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return nil
	}
	if !success(status) {
		return fmt.Errorf("%w: delete returned status %d", vectorstore.ErrTransport, status)
	}

	s.logger.Info("cleared namespace", "namespace", namespace)
	return nil
}
