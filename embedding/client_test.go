package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rufuslabs/rufus/config"
	"github.com/rufuslabs/rufus/models"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.EmbeddingConfig{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 2 * time.Second,
	})
}

func TestEmbed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %q, want /embeddings", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" || len(req.Input) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}

		// Return vectors out of order: the client must place by index.
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float32{0, 1}},
				{"index": 0, "embedding": []float32{1, 0}},
			},
		})
	}))
	defer srv.Close()

	vectors, err := newTestClient(srv.URL).Embed(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Errorf("vectors not placed by index: %v", vectors)
	}
}

func TestEmbed_EmptyInput(t *testing.T) {
	vectors, err := newTestClient("http://unused.invalid").Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vectors) != 0 {
		t.Errorf("got %d vectors, want 0", len(vectors))
	}
}

func TestEmbed_ErrorClassification(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{http.StatusUnauthorized, models.ErrCodeEmbeddingAuthFailure},
		{http.StatusForbidden, models.ErrCodeEmbeddingAuthFailure},
		{http.StatusTooManyRequests, models.ErrCodeEmbeddingRateLimited},
		{http.StatusInternalServerError, models.ErrCodeEmbeddingFailure},
		{http.StatusBadRequest, models.ErrCodeEmbeddingFailure},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"message": "nope"},
			})
		}))

		_, err := newTestClient(srv.URL).Embed(context.Background(), []string{"x"})
		srv.Close()

		var rufusErr *models.RufusError
		if !errors.As(err, &rufusErr) {
			t.Errorf("status %d: got %v, want RufusError", tt.status, err)
			continue
		}
		if rufusErr.Code != tt.wantCode {
			t.Errorf("status %d: code = %q, want %q", tt.status, rufusErr.Code, tt.wantCode)
		}
	}
}

func TestEmbed_VectorCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 0, "embedding": []float32{1}},
			},
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Embed(context.Background(), []string{"a", "b"})
	var rufusErr *models.RufusError
	if !errors.As(err, &rufusErr) || rufusErr.Code != models.ErrCodeEmbeddingFailure {
		t.Fatalf("got %v, want EMBEDDING_FAILURE", err)
	}
}
