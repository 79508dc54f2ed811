// Package pinecone wraps the Pinecone data-plane API used as the lead
// dedup vector store.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-cli/internal/resilience"
)

// Client upserts and queries vectors in a Pinecone index.
type Client interface {
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]string) error
	QueryNearest(ctx context.Context, vector []float32, topK int) ([]Match, error)
}

// Match is one nearest-neighbor hit. Score is cosine similarity where
// 1.0 is identical.
type Match struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithNamespace sets the index namespace (default "leads").
func WithNamespace(ns string) Option {
	return func(c *httpClient) {
		c.namespace = ns
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey    string
	indexHost string
	namespace string
	http      *http.Client
	retry     resilience.RetryConfig
}

// NewClient creates a Pinecone data-plane client for one index host
// (e.g. "https://apex-leads-abc123.svc.us-east-1.pinecone.io").
func NewClient(apiKey, indexHost string, opts ...Option) Client {
	c := &httpClient{
		apiKey:    apiKey,
		indexHost: strings.TrimSuffix(indexHost, "/"),
		namespace: "leads",
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type upsertRequest struct {
	Vectors   []vector `json:"vectors"`
	Namespace string   `json:"namespace,omitempty"`
}

type vector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (c *httpClient) Upsert(ctx context.Context, id string, values []float32, metadata map[string]string) error {
	if id == "" {
		return eris.New("pinecone: empty vector id")
	}
	if len(values) == 0 {
		return eris.New("pinecone: empty vector")
	}

	body, err := json.Marshal(upsertRequest{
		Vectors:   []vector{{ID: id, Values: values, Metadata: metadata}},
		Namespace: c.namespace,
	})
	if err != nil {
		return eris.Wrap(err, "pinecone: marshal upsert")
	}

	return resilience.Do(ctx, c.retry, func(ctx context.Context) error {
		_, err := c.post(ctx, "/vectors/upsert", body)
		return err
	})
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

func (c *httpClient) QueryNearest(ctx context.Context, values []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 1
	}

	body, err := json.Marshal(queryRequest{
		Vector:          values,
		TopK:            topK,
		Namespace:       c.namespace,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pinecone: marshal query")
	}

	respBody, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.post(ctx, "/query", body)
	})
	if err != nil {
		return nil, err
	}

	var result queryResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "pinecone: unmarshal query response")
	}
	return result.Matches, nil
}

func (c *httpClient) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexHost+path, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrapf(err, "pinecone: create request %s", path)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "pinecone: send request %s", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "pinecone: read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("pinecone: unexpected status %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return respBody, nil
}
