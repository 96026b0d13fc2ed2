package openai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, url string, batch int) *Client {
	t.Helper()
	t.Setenv("DOCQA_TEST_KEY", "secret")
	c, err := NewClient(Config{BaseURL: url, APIKeyEnv: "DOCQA_TEST_KEY", Model: "m", Timeout: time.Second, BatchSize: batch})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	c.maxRetries = 0
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("DOCQA_EMPTY_KEY", "")
	if _, err := NewClient(Config{APIKeyEnv: "DOCQA_EMPTY_KEY"}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestEmbedOpenAIAndOllamaShapes(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"data":[{"embedding":[1,2,3]}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"embedding":[4,5,6]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 8)
	v, err := c.Embed("a")
	if err != nil || len(v) != 3 || v[0] != 1 {
		t.Fatalf("openai shape: %v %v", v, err)
	}
	if c.Dimension() != 3 {
		t.Fatalf("dimension = %d", c.Dimension())
	}
	v, err = c.Embed("b")
	if err != nil || v[0] != 4 {
		t.Fatalf("ollama shape: %v %v", v, err)
	}
}

func TestEmbedBatchKeepsOrderAcrossBatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		var data []item
		// reply in reverse to exercise index ordering
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, item{Index: i, Embedding: []float64{float64(len(req.Input[i])), 0}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 2)
	out, err := c.EmbedBatch([]string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	for i, want := range []float64{1, 2, 3} {
		if out[i][0] != want {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestEmbedRejectsDimensionChange(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			_, _ = w.Write([]byte(`{"data":[{"embedding":[1,2]}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1,2,3]}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 8)
	if _, err := c.Embed("a"); err != nil {
		t.Fatalf("first embed: %v", err)
	}
	if _, err := c.Embed("b"); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestEmbedClientErrorIsNotRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 8)
	c.maxRetries = 3
	if _, err := c.Embed("a"); err == nil {
		t.Fatalf("expected error on 400")
	}
}

func TestEmbedBatchFallsBackToSinglePrompts(t *testing.T) {
	prompts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt == "" {
			// batch request: native endpoint ignores input arrays
			_, _ = w.Write([]byte(`{"embedding":[]}`))
			return
		}
		prompts++
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{float64(len(req.Prompt)), 1}})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 8)
	out, err := c.EmbedBatch([]string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if prompts != 3 || len(out) != 3 {
		t.Fatalf("prompts = %d, vectors = %d", prompts, len(out))
	}
	for i, want := range []float64{1, 2, 3} {
		if out[i][0] != want {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}
