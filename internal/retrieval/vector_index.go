// Package retrieval builds the per-corpus indexes and fuses their results.
package retrieval

import (
	"fmt"

	"docqa/internal/domain"
	"docqa/internal/vecmath"
	"docqa/internal/vectorstore"
)

// VectorIndex answers exact nearest-neighbor queries over chunk embeddings.
// It is built once per corpus and read-only afterwards until Reset.
type VectorIndex struct {
	embedder  domain.Embedder
	store     vectorstore.Storage
	dimension int
	built     bool
}

func NewVectorIndex(embedder domain.Embedder, store vectorstore.Storage) *VectorIndex {
	return &VectorIndex{embedder: embedder, store: store}
}

// Build embeds every chunk and stores the vectors in corpus order.
func (v *VectorIndex) Build(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("vector index: %w", domain.ErrEmptyInput)
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	if err := v.embedder.Prepare(texts); err != nil {
		return domain.NewCapabilityError("embedder", err)
	}
	vectors, err := v.embedder.EmbedBatch(texts)
	if err != nil {
		return domain.NewCapabilityError("embedder", err)
	}
	if len(vectors) != len(chunks) {
		return domain.NewCapabilityError("embedder", fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks)))
	}
	if err := vecmath.CheckDims(vectors, 0); err != nil {
		return domain.NewCapabilityError("embedder", err)
	}
	dim := len(vectors[0])
	if err := v.store.Init(dim); err != nil {
		return err
	}
	if err := v.store.Upsert(chunks, vectors); err != nil {
		return err
	}
	v.dimension = dim
	v.built = true
	return nil
}

// Query returns the k chunks nearest to text by Euclidean distance. Score
// holds the distance; equal distances keep corpus order.
func (v *VectorIndex) Query(text string, k int) ([]domain.SearchResult, error) {
	if !v.built {
		return nil, fmt.Errorf("vector index: %w", domain.ErrInvalidState)
	}
	vec, err := v.embedder.Embed(text)
	if err != nil {
		return nil, domain.NewCapabilityError("embedder", err)
	}
	if err := vecmath.CheckDims([][]float64{vec}, v.dimension); err != nil {
		return nil, domain.NewCapabilityError("embedder", err)
	}
	return v.store.Search(vec, k)
}

// Len is the number of indexed chunks.
func (v *VectorIndex) Len() int { return v.store.Len() }

// Reset drops the stored vectors. Queries fail with ErrInvalidState until
// the next Build.
func (v *VectorIndex) Reset() error {
	v.built = false
	return v.store.Clear()
}
