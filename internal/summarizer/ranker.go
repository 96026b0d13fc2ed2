package summarizer

import (
	"fmt"
	"sort"
	"strings"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/segment"
	"docqa/internal/vecmath"
)

// Ranker builds extractive summaries by scoring each sentence on closeness
// to the document centroid plus normalized corpus term frequency.
type Ranker struct {
	embedder      domain.Embedder
	splitter      *segment.Splitter
	minTokens     int
	keywordWeight float64
}

// New returns the summarizer selected by cfg.Type.
func New(embedder domain.Embedder, splitter *segment.Splitter, cfg config.SummarizerConfig) (*Ranker, error) {
	switch cfg.Type {
	case "centrality", "":
		return NewRanker(embedder, splitter, cfg), nil
	default:
		return nil, fmt.Errorf("unknown summarizer: %s", cfg.Type)
	}
}

// NewRanker creates a centrality ranker. Sentences with minTokens or fewer
// whitespace tokens are ignored.
func NewRanker(embedder domain.Embedder, splitter *segment.Splitter, cfg config.SummarizerConfig) *Ranker {
	return &Ranker{
		embedder:      embedder,
		splitter:      splitter,
		minTokens:     cfg.MinSentenceTokens,
		keywordWeight: cfg.KeywordWeight,
	}
}

// Summarize returns the top maxSentences sentences in rank order.
func (r *Ranker) Summarize(chunks []domain.Chunk, maxSentences int) (domain.SummaryResult, error) {
	if maxSentences <= 0 {
		maxSentences = config.DefaultMaxSentences
	}
	ranked, err := r.Rank(chunks)
	if err != nil {
		return domain.SummaryResult{}, err
	}
	if maxSentences > len(ranked) {
		maxSentences = len(ranked)
	}
	out := make([]string, maxSentences)
	for i := range out {
		out[i] = ranked[i].Sentence.Text
	}
	return domain.SummaryResult{Sentences: out}, nil
}

// Rank scores every sentence that survives the length filter, best first.
// Equal scores keep document order.
func (r *Ranker) Rank(chunks []domain.Chunk) ([]domain.ScoredSentence, error) {
	all, err := r.splitter.Split(chunks)
	if err != nil {
		return nil, err
	}
	// Remove very short or noisy sentences
	var sentences []domain.Sentence
	for _, s := range all {
		if len(strings.Fields(s.Text)) > r.minTokens {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("summary: no sentence longer than %d tokens: %w", r.minTokens, domain.ErrEmptyInput)
	}

	vecs, err := r.embedder.EmbedBatch(segment.Texts(sentences))
	if err != nil {
		return nil, domain.NewCapabilityError("embedder", err)
	}
	if len(vecs) != len(sentences) {
		return nil, domain.NewCapabilityError("embedder", fmt.Errorf("got %d vectors for %d sentences", len(vecs), len(sentences)))
	}
	if err := vecmath.CheckDims(vecs, 0); err != nil {
		return nil, domain.NewCapabilityError("embedder", err)
	}
	doc := vecmath.Mean(vecs)

	// Compute word frequencies
	freq := map[string]int{}
	for _, s := range sentences {
		for _, tok := range strings.Fields(strings.ToLower(s.Text)) {
			freq[tok]++
		}
	}
	keyword := make([]float64, len(sentences))
	maxKW := 0.0
	for i, s := range sentences {
		for _, tok := range strings.Fields(strings.ToLower(s.Text)) {
			keyword[i] += float64(freq[tok])
		}
		if keyword[i] > maxKW {
			maxKW = keyword[i]
		}
	}
	if maxKW == 0 {
		return nil, fmt.Errorf("summary: zero keyword mass: %w", domain.ErrEmptyInput)
	}

	scored := make([]domain.ScoredSentence, len(sentences))
	for i, s := range sentences {
		scored[i] = domain.ScoredSentence{
			Sentence: s,
			Score:    vecmath.Cosine(doc, vecs[i]) + r.keywordWeight*keyword[i]/maxKW,
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored, nil
}
