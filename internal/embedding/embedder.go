// Package embedding selects and guards the embedding capability.
package embedding

import (
	"fmt"
	"sync"
	"time"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding/openai"
	"docqa/internal/embedding/tfidf"
)

// Factory returns the embedder a new session indexes with. Corpus-fitted
// embedders are created fresh per call; remote embedders are shared.
type Factory func() (domain.Embedder, error)

// NewFactory builds the embedder factory described by cfg.
func NewFactory(cfg config.EmbedderConfig) (Factory, error) {
	guard := func(e domain.Embedder) domain.Embedder {
		if cfg.Serialize {
			return Serialize(e)
		}
		return e
	}
	switch cfg.Type {
	case "tfidf", "":
		return func() (domain.Embedder, error) { return guard(tfidf.New(tfidf.WithStopwords())), nil }, nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.OpenAI.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		// one guard for the shared client so every session serializes on it
		shared := guard(client)
		return func() (domain.Embedder, error) { return shared, nil }, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

// Serialize wraps e so that at most one call runs at a time. Use it when an
// embedder that is not safe for concurrent use is shared across sessions.
func Serialize(e domain.Embedder) domain.Embedder {
	if _, ok := e.(*serialized); ok {
		return e
	}
	return &serialized{inner: e}
}

type serialized struct {
	mu    sync.Mutex
	inner domain.Embedder
}

func (s *serialized) Name() string { return s.inner.Name() }

func (s *serialized) Prepare(corpus []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Prepare(corpus)
}

func (s *serialized) Dimension() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Dimension()
}

func (s *serialized) Embed(text string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Embed(text)
}

func (s *serialized) EmbedBatch(texts []string) ([][]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.EmbedBatch(texts)
}
