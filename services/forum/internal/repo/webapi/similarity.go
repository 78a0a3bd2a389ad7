package webapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type SimilarityQuery struct {
	Query     string   `json:"query"`
	TopK      *int     `json:"top_k,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type SimilarityBatch struct {
	Queries   []string `json:"queries"`
	TopK      *int     `json:"top_k,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// Response is the upstream answer passed through untouched.
type Response struct {
	Status int
	Body   []byte
}

// SimilarityAPI talks to the semantic search service. A non-2xx answer is
// returned as a Response, not an error; errors mean the service was not
// reachable.
type SimilarityAPI interface {
	Search(ctx context.Context, q SimilarityQuery) (*Response, error)
	SearchBatch(ctx context.Context, q SimilarityBatch) (*Response, error)
}

type similarityClient struct {
	client *resty.Client
}

func NewSimilarityClient(baseURL string, timeout time.Duration) SimilarityAPI {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &similarityClient{client: client}
}

func (c *similarityClient) post(ctx context.Context, path string, payload interface{}) (*Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("similarity service %s: %w", path, err)
	}
	return &Response{Status: resp.StatusCode(), Body: resp.Body()}, nil
}

func (c *similarityClient) Search(ctx context.Context, q SimilarityQuery) (*Response, error) {
	return c.post(ctx, "/similarity", q)
}

func (c *similarityClient) SearchBatch(ctx context.Context, q SimilarityBatch) (*Response, error) {
	return c.post(ctx, "/similarity/batch", q)
}
