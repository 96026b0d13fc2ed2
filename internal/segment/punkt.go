package segment

import (
	"fmt"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"docqa/internal/domain"
)

// PunktSegmenter splits text with the pre-trained English punkt model, so
// abbreviations ("Dr.", "e.g.") and decimals ("3.12") stay inside their
// sentence.
type PunktSegmenter struct {
	mu        sync.Mutex
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewPunktSegmenter() (*PunktSegmenter, error) {
	t, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load punkt model: %w", err)
	}
	return &PunktSegmenter{tokenizer: t}, nil
}

func (p *PunktSegmenter) Segment(text string) ([]string, error) {
	p.mu.Lock()
	found := p.tokenizer.Tokenize(text)
	p.mu.Unlock()

	var out []string
	for _, s := range found {
		out = appendSentence(out, s.Text)
	}
	return out, nil
}

// New returns the segmenter named by kind: "punkt" (the default) or "regex".
func New(kind string) (domain.SentenceSegmenter, error) {
	switch kind {
	case "punkt", "":
		p, err := NewPunktSegmenter()
		if err != nil {
			return nil, err
		}
		return p, nil
	case "regex":
		return NewRegexSegmenter(), nil
	default:
		return nil, fmt.Errorf("unknown segmenter: %s", kind)
	}
}
