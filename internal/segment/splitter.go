package segment

import (
	"docqa/internal/domain"
)

// Splitter flattens chunks into sentences, keeping chunk order and the
// order of sentences inside each chunk.
type Splitter struct {
	segmenter domain.SentenceSegmenter
}

func NewSplitter(segmenter domain.SentenceSegmenter) *Splitter {
	return &Splitter{segmenter: segmenter}
}

func (s *Splitter) Split(chunks []domain.Chunk) ([]domain.Sentence, error) {
	var out []domain.Sentence
	for ci, ch := range chunks {
		parts, err := s.segmenter.Segment(ch.Text)
		if err != nil {
			return nil, domain.NewCapabilityError("segmenter", err)
		}
		for pi, p := range parts {
			out = append(out, domain.Sentence{Text: p, Chunk: ci, Position: pi, Order: len(out)})
		}
	}
	return out, nil
}

// Texts returns the sentence texts in order.
func Texts(sentences []domain.Sentence) []string {
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}
