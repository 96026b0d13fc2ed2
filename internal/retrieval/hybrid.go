package retrieval

import (
	"docqa/internal/domain"
	"docqa/internal/orderedset"
)

// HybridRetriever fuses semantic hits with keyword hits into one
// deduplicated candidate list.
type HybridRetriever struct {
	vector  *VectorIndex
	keyword *KeywordIndex
}

func NewHybridRetriever(vector *VectorIndex, keyword *KeywordIndex) *HybridRetriever {
	return &HybridRetriever{vector: vector, keyword: keyword}
}

// Search appends the keyword top-k for query to semantic and drops repeated
// chunks, keeping the first occurrence. The result is not truncated to k.
func (h *HybridRetriever) Search(query string, semantic []domain.Chunk, k int) ([]domain.Chunk, error) {
	hits, err := h.keyword.Query(query, k)
	if err != nil {
		return nil, err
	}
	set := orderedset.New(func(c domain.Chunk) string { return c.Text })
	set.AddAll(semantic...)
	set.AddAll(Chunks(hits)...)
	return set.Items(), nil
}

// Retrieve runs the vector index for the semantic hits and fuses them with
// the keyword hits.
func (h *HybridRetriever) Retrieve(query string, k int) ([]domain.Chunk, error) {
	hits, err := h.vector.Query(query, k)
	if err != nil {
		return nil, err
	}
	return h.Search(query, Chunks(hits), k)
}

// Chunks drops the scores from results.
func Chunks(results []domain.SearchResult) []domain.Chunk {
	out := make([]domain.Chunk, len(results))
	for i, r := range results {
		out[i] = r.Chunk
	}
	return out
}
