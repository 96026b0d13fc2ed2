package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Tuned defaults. They encode the answer and summary behavior and should be
// changed together with the tests that pin them.
const (
	DefaultWindowWords          = 300
	DefaultOverlapWords         = 40
	DefaultTopK                 = 3
	DefaultOverlapWeight        = 0.15
	DefaultHeadingMinTokens     = 6
	DefaultHighConfidence       = 0.8
	DefaultAcceptableConfidence = 0.6
	DefaultMaxSentences         = 8
	DefaultMinSentenceTokens    = 6
	DefaultKeywordWeight        = 0.3
	DefaultServerAddr           = ":8080"
	DefaultMaxUploadMB          = 32
)

// Summary scopes.
const (
	ScopeRetrieved = "retrieved"
	ScopeCorpus    = "corpus"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type string `yaml:"type"`
	// Serialize guards the embedder with a mutex so calls never overlap.
	Serialize bool                  `yaml:"serialize"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Type         string `yaml:"type"`
	WindowWords  int    `yaml:"window_words"`
	OverlapWords int    `yaml:"overlap_words"`
}

// SegmenterConfig selects the sentence segmenter: "punkt" or "regex".
type SegmenterConfig struct {
	Type string `yaml:"type"`
}

// RetrievalConfig configures hybrid retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AnswerConfig holds the answer selection and confidence thresholds.
type AnswerConfig struct {
	OverlapWeight        float64 `yaml:"overlap_weight"`
	HeadingMinTokens     int     `yaml:"heading_min_tokens"`
	HighConfidence       float64 `yaml:"high_confidence"`
	AcceptableConfidence float64 `yaml:"acceptable_confidence"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type              string  `yaml:"type"`
	MaxSentences      int     `yaml:"max_sentences"`
	MinSentenceTokens int     `yaml:"min_sentence_tokens"`
	KeywordWeight     float64 `yaml:"keyword_weight"`
	Scope             string  `yaml:"scope"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Segmenter  SegmenterConfig  `yaml:"segmenter"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Answer     AnswerConfig     `yaml:"answer"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/docqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/docqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects settings the pipeline cannot run with.
func (c *AppConfig) Validate() error {
	kinds := map[string]struct {
		value   string
		allowed []string
	}{
		"embedder.type":   {c.Embedder.Type, []string{"tfidf", "openai"}},
		"chunker.type":    {c.Chunker.Type, []string{"words"}},
		"segmenter.type":  {c.Segmenter.Type, []string{"punkt", "regex"}},
		"summarizer.type": {c.Summarizer.Type, []string{"centrality"}},
	}
	for key, k := range kinds {
		if !slices.Contains(k.allowed, k.value) {
			return fmt.Errorf("unknown %s %q", key, k.value)
		}
	}
	if c.Chunker.WindowWords <= 0 {
		return errors.New("chunker.window_words must be positive")
	}
	if c.Chunker.OverlapWords < 0 || c.Chunker.OverlapWords >= c.Chunker.WindowWords {
		return errors.New("chunker.overlap_words must be in [0, window_words)")
	}
	if c.Retrieval.TopK <= 0 {
		return errors.New("retrieval.top_k must be positive")
	}
	if c.Answer.AcceptableConfidence > c.Answer.HighConfidence {
		return errors.New("answer.acceptable_confidence must not exceed answer.high_confidence")
	}
	if c.Summarizer.MaxSentences <= 0 {
		return errors.New("summarizer.max_sentences must be positive")
	}
	switch c.Summarizer.Scope {
	case ScopeRetrieved, ScopeCorpus:
	default:
		return fmt.Errorf("unknown summarizer.scope %q", c.Summarizer.Scope)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docqa", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	cfg := &AppConfig{
		Embedder:  EmbedderConfig{Type: "tfidf"},
		Chunker:   ChunkerConfig{Type: "words", WindowWords: DefaultWindowWords, OverlapWords: DefaultOverlapWords},
		Segmenter: SegmenterConfig{Type: "punkt"},
		Retrieval: RetrievalConfig{TopK: DefaultTopK},
		Answer: AnswerConfig{
			OverlapWeight:        DefaultOverlapWeight,
			HeadingMinTokens:     DefaultHeadingMinTokens,
			HighConfidence:       DefaultHighConfidence,
			AcceptableConfidence: DefaultAcceptableConfidence,
		},
		Summarizer: SummarizerConfig{
			Type:              "centrality",
			MaxSentences:      DefaultMaxSentences,
			MinSentenceTokens: DefaultMinSentenceTokens,
			KeywordWeight:     DefaultKeywordWeight,
			Scope:             ScopeRetrieved,
		},
		Log:    LogConfig{Level: "info", Format: "json"},
		Server: ServerConfig{Addr: DefaultServerAddr, MaxUploadMB: DefaultMaxUploadMB},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Chunker.Type == "" {
		cfg.Chunker.Type = "words"
	}
	if cfg.Segmenter.Type == "" {
		cfg.Segmenter.Type = "punkt"
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "centrality"
	}
	if cfg.Chunker.WindowWords == 0 {
		cfg.Chunker.WindowWords = DefaultWindowWords
	}
	if cfg.Chunker.OverlapWords == 0 {
		cfg.Chunker.OverlapWords = DefaultOverlapWords
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = DefaultTopK
	}
	if cfg.Answer.OverlapWeight == 0 {
		cfg.Answer.OverlapWeight = DefaultOverlapWeight
	}
	if cfg.Answer.HeadingMinTokens == 0 {
		cfg.Answer.HeadingMinTokens = DefaultHeadingMinTokens
	}
	if cfg.Answer.HighConfidence == 0 {
		cfg.Answer.HighConfidence = DefaultHighConfidence
	}
	if cfg.Answer.AcceptableConfidence == 0 {
		cfg.Answer.AcceptableConfidence = DefaultAcceptableConfidence
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = DefaultMaxSentences
	}
	if cfg.Summarizer.MinSentenceTokens == 0 {
		cfg.Summarizer.MinSentenceTokens = DefaultMinSentenceTokens
	}
	if cfg.Summarizer.KeywordWeight == 0 {
		cfg.Summarizer.KeywordWeight = DefaultKeywordWeight
	}
	if cfg.Summarizer.Scope == "" {
		cfg.Summarizer.Scope = ScopeRetrieved
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = DefaultMaxUploadMB
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
}
