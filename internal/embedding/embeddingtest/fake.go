// Package embeddingtest provides a deterministic embedder for tests.
package embeddingtest

import (
	"hash/fnv"
	"strings"
	"sync"
	"unicode"
)

// Embedder is a deterministic fake. Texts listed in Vectors embed to the
// given vector; anything else embeds to a hashed bag of lower-cased words of
// size Dim.
type Embedder struct {
	Vectors map[string][]float64
	Dim     int
	// Err, when set, is returned from every Embed call.
	Err error

	mu       sync.Mutex
	prepared []string
	calls    int
}

// New returns a fake with dimension dim and the given fixed vectors.
func New(dim int, vectors map[string][]float64) *Embedder {
	return &Embedder{Dim: dim, Vectors: vectors}
}

func (e *Embedder) Name() string { return "fake" }

func (e *Embedder) Prepare(corpus []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prepared = append([]string(nil), corpus...)
	return nil
}

// Prepared returns the corpus passed to the last Prepare call.
func (e *Embedder) Prepared() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prepared
}

// Calls returns how many texts were embedded.
func (e *Embedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

func (e *Embedder) Dimension() int { return e.Dim }

func (e *Embedder) Embed(text string) ([]float64, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.Err != nil {
		return nil, e.Err
	}
	if v, ok := e.Vectors[text]; ok {
		return append([]float64(nil), v...), nil
	}
	vec := make([]float64, e.Dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !unicode.IsLetter(r) })
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(e.Dim)]++
	}
	return vec, nil
}

func (e *Embedder) EmbedBatch(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := e.Embed(t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
