package memory

import (
	"testing"

	"docqa/internal/domain"
	"docqa/internal/vectorstore"
)

var _ vectorstore.Storage = (*Storage)(nil)

func chunks(texts ...string) []domain.Chunk {
	out := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		out[i] = domain.Chunk{Text: t, Index: i}
	}
	return out
}

func TestSearchNearestFirstWithStableTies(t *testing.T) {
	s := NewStorage()
	if err := s.Init(2); err != nil {
		t.Fatal(err)
	}
	vecs := [][]float64{{5, 5}, {1, 0}, {0, 1}, {1, 0}}
	if err := s.Upsert(chunks("far", "a", "b", "a-dup"), vecs); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	res, err := s.Search([]float64{1, 0}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	got := []string{res[0].Chunk.Text, res[1].Chunk.Text, res[2].Chunk.Text}
	want := []string{"a", "a-dup", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if res[0].Score != 0 {
		t.Fatalf("distance = %v", res[0].Score)
	}
}

func TestSearchClampsTopK(t *testing.T) {
	s := NewStorage()
	_ = s.Init(1)
	_ = s.Upsert(chunks("x", "y"), [][]float64{{1}, {2}})
	res, err := s.Search([]float64{0}, 10)
	if err != nil || len(res) != 2 {
		t.Fatalf("res=%v err=%v", res, err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d", s.Len())
	}
}

func TestUpsertValidatesDimensions(t *testing.T) {
	s := NewStorage()
	if err := s.Upsert(chunks("x"), [][]float64{{1}}); err == nil {
		t.Fatalf("expected error before Init")
	}
	_ = s.Init(2)
	if err := s.Upsert(chunks("x"), [][]float64{{1}}); err == nil {
		t.Fatalf("expected dimension error")
	}
	if err := s.Upsert(chunks("x", "y"), [][]float64{{1, 2}}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
	if _, err := s.Search([]float64{1}, 1); err == nil {
		t.Fatalf("expected query dimension error")
	}
}
