package qa

import (
	"fmt"
	"strings"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/segment"
	"docqa/internal/vecmath"
)

// Selector picks the sentence that best answers a question.
type Selector struct {
	embedder         domain.Embedder
	splitter         *segment.Splitter
	overlapWeight    float64
	headingMinTokens int
}

func NewSelector(embedder domain.Embedder, splitter *segment.Splitter, cfg config.AnswerConfig) *Selector {
	return &Selector{
		embedder:         embedder,
		splitter:         splitter,
		overlapWeight:    cfg.OverlapWeight,
		headingMinTokens: cfg.HeadingMinTokens,
	}
}

// Select scores every sentence of chunks with cosine similarity plus the
// weighted keyword overlap, keeps the first best, and expands a heading with
// the sentence that follows it. It returns the answer and all sentences.
func (s *Selector) Select(question string, chunks []domain.Chunk) (string, []domain.Sentence, error) {
	sentences, err := s.splitter.Split(chunks)
	if err != nil {
		return "", nil, err
	}
	if len(sentences) == 0 {
		return "", nil, fmt.Errorf("answer selection: %w", domain.ErrEmptyInput)
	}
	qVec, err := s.embedder.Embed(question)
	if err != nil {
		return "", nil, domain.NewCapabilityError("embedder", err)
	}
	sVecs, err := s.embedder.EmbedBatch(segment.Texts(sentences))
	if err != nil {
		return "", nil, domain.NewCapabilityError("embedder", err)
	}
	if len(sVecs) != len(sentences) {
		return "", nil, domain.NewCapabilityError("embedder", fmt.Errorf("got %d vectors for %d sentences", len(sVecs), len(sentences)))
	}
	if err := vecmath.CheckDims(append([][]float64{qVec}, sVecs...), 0); err != nil {
		return "", nil, domain.NewCapabilityError("embedder", err)
	}

	bestIdx := -1
	bestScore := 0.0
	for i, sent := range sentences {
		score := vecmath.Cosine(qVec, sVecs[i]) + s.overlapWeight*float64(Overlap(question, sent.Text))
		if bestIdx < 0 || score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	answer := sentences[bestIdx].Text
	if s.IsHeading(answer) && bestIdx+1 < len(sentences) {
		answer += " " + sentences[bestIdx+1].Text
	}
	return answer, sentences, nil
}

// IsHeading reports whether a sentence reads like a section heading: a
// question, or shorter than the heading token threshold.
func (s *Selector) IsHeading(sentence string) bool {
	return strings.HasSuffix(strings.TrimSpace(sentence), "?") || TokenCount(sentence) < s.headingMinTokens
}
