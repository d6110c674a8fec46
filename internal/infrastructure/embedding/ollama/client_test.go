package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bhumiseba/namjari-intent/internal/infrastructure/resilience"
)

func testExecutor() *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2.0,
		BreakerEnabled:      false,
	})
}

func TestEmbedSendsModelAndInputs(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "bge-m3", testExecutor())
	vectors, err := client.Embed(context.Background(), []string{"এক", "দুই"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vectors) != 2 || len(vectors[0]) != 2 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
	if captured["model"] != "bge-m3" {
		t.Fatalf("model = %v, want bge-m3", captured["model"])
	}
	inputs, _ := captured["input"].([]any)
	if len(inputs) != 2 {
		t.Fatalf("inputs = %v, want 2 texts", captured["input"])
	}
}

func TestEmbedRejectsVectorCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.1]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "bge-m3", testExecutor())
	_, err := client.Embed(context.Background(), []string{"এক", "দুই"})
	if err == nil {
		t.Fatalf("expected mismatch error")
	}
	if !strings.Contains(err.Error(), "got 1 vectors for 2 inputs") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmbedRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "loading model", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.5]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "bge-m3", testExecutor())
	vectors, err := client.Embed(context.Background(), []string{"এক"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
	if len(vectors) != 1 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestEmbedDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown model", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(server.URL, "bge-m3", testExecutor())
	_, err := client.Embed(context.Background(), []string{"এক"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
	if !strings.Contains(err.Error(), "unknown model") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestEmbedQueryUnwrapsSingleVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.7,0.1]]}`))
	}))
	defer server.Close()

	client := New(server.URL, "bge-m3", testExecutor())
	vector, err := client.EmbedQuery(context.Background(), "নামজারি")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(vector) != 2 || vector[0] != 0.7 {
		t.Fatalf("unexpected vector: %v", vector)
	}
}

func TestEmbedEmptyInputIsNoop(t *testing.T) {
	client := New("http://127.0.0.1:0", "bge-m3", testExecutor())
	vectors, err := client.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if vectors != nil {
		t.Fatalf("expected nil vectors, got %v", vectors)
	}
}
