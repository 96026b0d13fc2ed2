package qa

import (
	"fmt"
	"math"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/segment"
	"docqa/internal/vecmath"
)

// Scorer measures how closely a question and its answer resemble some real
// sentence of the pool the answer was drawn from.
type Scorer struct {
	embedder   domain.Embedder
	high       float64
	acceptable float64
}

func NewScorer(embedder domain.Embedder, cfg config.AnswerConfig) *Scorer {
	return &Scorer{embedder: embedder, high: cfg.HighConfidence, acceptable: cfg.AcceptableConfidence}
}

// Score returns the maximum cosine similarity between the embedding of
// question + " " + answer and each sentence embedding.
func (s *Scorer) Score(answer, question string, sentences []domain.Sentence) (float64, error) {
	if len(sentences) == 0 {
		return 0, fmt.Errorf("confidence: %w", domain.ErrEmptyInput)
	}
	combined, err := s.embedder.Embed(question + " " + answer)
	if err != nil {
		return 0, domain.NewCapabilityError("embedder", err)
	}
	vecs, err := s.embedder.EmbedBatch(segment.Texts(sentences))
	if err != nil {
		return 0, domain.NewCapabilityError("embedder", err)
	}
	if err := vecmath.CheckDims(append([][]float64{combined}, vecs...), 0); err != nil {
		return 0, domain.NewCapabilityError("embedder", err)
	}
	best := math.Inf(-1)
	for _, v := range vecs {
		if c := vecmath.Cosine(combined, v); c > best {
			best = c
		}
	}
	return best, nil
}

// Classify maps a score to its confidence band.
func (s *Scorer) Classify(score float64) domain.Band {
	switch {
	case score >= s.high:
		return domain.BandHigh
	case score >= s.acceptable:
		return domain.BandAcceptable
	default:
		return domain.BandLow
	}
}
