package vectorstore

import "docqa/internal/domain"

// Storage holds chunk vectors and supports exact nearest-neighbor search.
// Search results carry the distance to the query in Score, nearest first.
type Storage interface {
	Init(dimension int) error
	Upsert(chunks []domain.Chunk, vectors [][]float64) error
	Search(vector []float64, topK int) ([]domain.SearchResult, error)
	Len() int
	Clear() error
}
