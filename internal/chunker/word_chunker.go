package chunker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"docqa/internal/config"
	"docqa/internal/domain"
)

var whitespace = regexp.MustCompile(`\s+`)

// Normalize collapses every whitespace run to a single space and trims.
func Normalize(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// New returns the chunker selected by cfg.Type.
func New(cfg config.ChunkerConfig) (domain.Chunker, error) {
	switch cfg.Type {
	case "words", "":
		return NewWordChunker(cfg.WindowWords, cfg.OverlapWords), nil
	default:
		return nil, fmt.Errorf("unknown chunker: %s", cfg.Type)
	}
}

// WordChunker splits text into fixed-size word windows with overlap.
type WordChunker struct {
	windowWords  int
	overlapWords int
}

func NewWordChunker(windowWords, overlapWords int) *WordChunker {
	if windowWords <= 0 {
		windowWords = 300
	}
	if overlapWords < 0 || overlapWords >= windowWords {
		overlapWords = 0
	}
	return &WordChunker{windowWords: windowWords, overlapWords: overlapWords}
}

// Chunk windows each page separately when the document is paginated, and
// the whole content otherwise. Empty pages produce no chunks.
func (c *WordChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	pages := document.Pages
	if len(pages) == 0 {
		pages = []string{document.Content}
	}
	var chunks []domain.Chunk
	idx := 0
	for _, page := range pages {
		words := strings.Fields(Normalize(page))
		step := c.windowWords - c.overlapWords
		for i := 0; i < len(words); i += step {
			end := i + c.windowWords
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, domain.Chunk{
				DocumentID: document.ID,
				ChunkID:    document.ID + ":" + strconv.Itoa(idx),
				Text:       strings.Join(words[i:end], " "),
				Index:      idx,
			})
			idx++
		}
	}
	return chunks, nil
}
