package pinecone

import (
	"context"
	"fmt"
	"net/http"

	"github.com/quarrylabs/tessera/vectorstore"
)

type indexDescription struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type createIndexRequest struct {
	Name      string          `json:"name"`
	Dimension int             `json:"dimension"`
	Metric    string          `json:"metric"`
	Spec      createIndexSpec `json:"spec"`
}

type createIndexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

// DescribeIndex looks up the configured index on the control plane.
// A missing index maps to vectorstore.ErrIndexNotFound.
func (s *Store) DescribeIndex(ctx context.Context) (vectorstore.IndexStatus, error) {
	url := fmt.Sprintf("%s/indexes/%s", s.config.ControlPlaneURL, s.config.IndexName)

	status, body, err := s.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return vectorstore.IndexStatus{}, err
	}
	if status == http.StatusNotFound {
		return vectorstore.IndexStatus{}, fmt.Errorf("%w: %s", vectorstore.ErrIndexNotFound, s.config.IndexName)
	}
	if !success(status) {
		return vectorstore.IndexStatus{}, fmt.Errorf("%w: describe index returned status %d",
			vectorstore.ErrTransport, status)
	}

	var desc indexDescription
	if err := unmarshalBody(body, &desc); err != nil {
		return vectorstore.IndexStatus{}, err
	}

	result := vectorstore.IndexStatus{
		Ready:     desc.Status.Ready,
		Dimension: desc.Dimension,
		Host:      desc.Host,
	}

	if result.Host != "" {
		s.mu.Lock()
		s.host = result.Host
		s.mu.Unlock()
	}

	return result, nil
}

// CreateIndex provisions the configured serverless index. Creating an
// index that already exists succeeds without change.
func (s *Store) CreateIndex(ctx context.Context) error {
	url := fmt.Sprintf("%s/indexes", s.config.ControlPlaneURL)

	payload := createIndexRequest{
		Name:      s.config.IndexName,
		Dimension: s.config.Dimension,
		Metric:    s.config.Metric,
		Spec: createIndexSpec{
			Serverless: serverlessSpec{
				Cloud:  s.config.Cloud,
				Region: s.config.Region,
			},
		},
	}

	status, _, err := s.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	if status == http.StatusConflict {
		s.logger.Debug("index already exists", "index", s.config.IndexName)
		return nil
	}
	if !success(status) {
		return fmt.Errorf("%w: create index returned status %d", vectorstore.ErrTransport, status)
	}

	s.logger.Info("created index",
		"index", s.config.IndexName,
		"dimension", s.config.Dimension,
		"metric", s.config.Metric)
	return nil
}
