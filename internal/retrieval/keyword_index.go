package retrieval

import (
	"fmt"
	"sort"

	"docqa/internal/domain"
	"docqa/internal/vecmath"
)

// KeywordIndex ranks chunks by cosine similarity in a fitted term space.
type KeywordIndex struct {
	weighter domain.TermWeighter
	chunks   []domain.Chunk
	matrix   [][]float64
	built    bool
}

func NewKeywordIndex(weighter domain.TermWeighter) *KeywordIndex {
	return &KeywordIndex{weighter: weighter}
}

// Build fits the term weighter on the chunk texts and keeps one row per chunk.
func (ki *KeywordIndex) Build(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("keyword index: %w", domain.ErrEmptyInput)
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	if err := ki.weighter.Fit(texts); err != nil {
		return domain.NewCapabilityError("term weighter", err)
	}
	matrix := make([][]float64, len(chunks))
	for i, t := range texts {
		row, err := ki.weighter.Transform(t)
		if err != nil {
			return domain.NewCapabilityError("term weighter", err)
		}
		matrix[i] = row
	}
	if err := vecmath.CheckDims(matrix, 0); err != nil {
		return domain.NewCapabilityError("term weighter", err)
	}
	ki.chunks = append([]domain.Chunk(nil), chunks...)
	ki.matrix = matrix
	ki.built = true
	return nil
}

// Query returns the k chunks with the highest cosine similarity to text,
// highest first. Equal scores keep corpus order. Hybrid fusion appends these
// hits in this order, so the best keyword match is the first one added.
func (ki *KeywordIndex) Query(text string, k int) ([]domain.SearchResult, error) {
	if !ki.built {
		return nil, fmt.Errorf("keyword index: %w", domain.ErrInvalidState)
	}
	q, err := ki.weighter.Transform(text)
	if err != nil {
		return nil, domain.NewCapabilityError("term weighter", err)
	}
	if err := vecmath.CheckDims([][]float64{q}, len(ki.matrix[0])); err != nil {
		return nil, domain.NewCapabilityError("term weighter", err)
	}
	if k <= 0 {
		return nil, nil
	}
	scores := make([]float64, len(ki.matrix))
	idxs := make([]int, len(ki.matrix))
	for i, row := range ki.matrix {
		scores[i] = vecmath.Cosine(q, row)
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if k > len(idxs) {
		k = len(idxs)
	}
	out := make([]domain.SearchResult, 0, k)
	for _, j := range idxs[:k] {
		out = append(out, domain.SearchResult{Chunk: ki.chunks[j], Score: scores[j]})
	}
	return out, nil
}
