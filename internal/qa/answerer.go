package qa

import (
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/segment"
)

// Answerer runs selection, the grounding check, confidence scoring and
// cleaning over a set of retrieved chunks.
type Answerer struct {
	selector *Selector
	scorer   *Scorer
}

func NewAnswerer(embedder domain.Embedder, splitter *segment.Splitter, cfg config.AnswerConfig) *Answerer {
	return &Answerer{
		selector: NewSelector(embedder, splitter, cfg),
		scorer:   NewScorer(embedder, cfg),
	}
}

// Answer returns domain.ErrNotGrounded without scoring when the selected
// answer shares no vocabulary with the question.
func (a *Answerer) Answer(question string, chunks []domain.Chunk) (domain.AnswerResult, error) {
	answer, sentences, err := a.selector.Select(question, chunks)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	if err := CheckGrounding(question, answer); err != nil {
		return domain.AnswerResult{}, err
	}
	score, err := a.scorer.Score(answer, question, sentences)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	return domain.AnswerResult{
		Answer:     Clean(answer),
		Confidence: score,
		Band:       a.scorer.Classify(score),
	}, nil
}
