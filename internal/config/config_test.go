package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chunker.WindowWords != 300 || cfg.Chunker.OverlapWords != 40 {
		t.Fatalf("chunker defaults = %+v", cfg.Chunker)
	}
	if cfg.Answer.OverlapWeight != 0.15 || cfg.Summarizer.KeywordWeight != 0.3 {
		t.Fatalf("weights = %v / %v", cfg.Answer.OverlapWeight, cfg.Summarizer.KeywordWeight)
	}
	if cfg.Answer.HighConfidence != 0.8 || cfg.Answer.AcceptableConfidence != 0.6 {
		t.Fatalf("bands = %+v", cfg.Answer)
	}
	if cfg.Summarizer.MaxSentences != 8 || cfg.Summarizer.Scope != ScopeRetrieved {
		t.Fatalf("summarizer = %+v", cfg.Summarizer)
	}
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("retrieval:\n  top_k: 5\nsummarizer:\n  scope: corpus\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Fatalf("top_k = %d", cfg.Retrieval.TopK)
	}
	if cfg.Summarizer.Scope != ScopeCorpus {
		t.Fatalf("scope = %q", cfg.Summarizer.Scope)
	}
	if cfg.Answer.HeadingMinTokens != DefaultHeadingMinTokens {
		t.Fatalf("heading tokens = %d", cfg.Answer.HeadingMinTokens)
	}
}

func TestLoadRejectsInvalidOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("chunker:\n  window_words: 50\n  overlap_words: 50\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for overlap >= window")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Retrieval.TopK = 7
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Retrieval.TopK != 7 {
		t.Fatalf("top_k = %d", got.Retrieval.TopK)
	}
}

func TestApplyDefaultsForOpenAI(t *testing.T) {
	cfg := &AppConfig{Embedder: EmbedderConfig{Type: "openai", OpenAI: &OpenAIEmbedderConfig{}}}
	applyConfigDefaults(cfg)
	if cfg.Embedder.OpenAI.APIKeyEnv != "OPENAI_API_KEY" || cfg.Embedder.OpenAI.BatchSize != 32 {
		t.Fatalf("openai defaults = %+v", cfg.Embedder.OpenAI)
	}
}

func TestValidateRejectsUnknownComponentTypes(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	for _, yml := range []string{
		"chunker:\n  type: sentence\n",
		"segmenter:\n  type: spacy\n",
		"summarizer:\n  type: frequency\n",
		"embedder:\n  type: bert\n",
	} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("expected validation error for %q", yml)
		}
	}
}

func TestLoadFillsComponentTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("retrieval:\n  top_k: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Chunker.Type != "words" || cfg.Segmenter.Type != "punkt" || cfg.Summarizer.Type != "centrality" || cfg.Embedder.Type != "tfidf" {
		t.Fatalf("types = %q %q %q %q", cfg.Chunker.Type, cfg.Segmenter.Type, cfg.Summarizer.Type, cfg.Embedder.Type)
	}
}
