// Package embedding provides the text-embedding collaborator: an
// OpenAI-compatible API client plus cosine similarity.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/models"
)

// Embedder produces one fixed-length vector per input text, in input
// order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Client is a lightweight client for any OpenAI-compatible /embeddings
// endpoint, speaking the API over plain net/http.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewClient creates an embedding client from configuration.
func NewClient(cfg config.EmbeddingConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

// embeddingRequest is the OpenAI embeddings request body.
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type embeddingErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed sends texts to the embeddings endpoint and returns one vector
// per text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	bodyBytes, err := json.Marshal(embeddingRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.NewRufusError(models.ErrCodeEmbeddingFailure, "embedding request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewRufusError(models.ErrCodeEmbeddingFailure, "failed to read embedding response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyError(resp.StatusCode, respBody)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, models.NewRufusError(models.ErrCodeEmbeddingFailure, "failed to parse embedding response", err)
	}

	if len(parsed.Data) != len(texts) {
		return nil, models.NewRufusError(models.ErrCodeEmbeddingFailure,
			fmt.Sprintf("embedding API returned %d vectors for %d inputs", len(parsed.Data), len(texts)), nil)
	}

	// Place vectors by index; the API is not required to preserve order.
	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, models.NewRufusError(models.ErrCodeEmbeddingFailure,
				fmt.Sprintf("embedding API returned out-of-range index %d", d.Index), nil)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// classifyError maps HTTP status codes to embedding error codes.
func classifyError(statusCode int, body []byte) *models.RufusError {
	var errResp embeddingErrorResponse
	msg := "embedding API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewRufusError(models.ErrCodeEmbeddingAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewRufusError(models.ErrCodeEmbeddingRateLimited, msg, nil)
	default:
		return models.NewRufusError(models.ErrCodeEmbeddingFailure,
			fmt.Sprintf("embedding API returned %d: %s", statusCode, msg), nil)
	}
}
