// Package session holds the per-upload retrieval state.
package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"docqa/internal/domain"
	"docqa/internal/embedding/tfidf"
	"docqa/internal/retrieval"
	"docqa/internal/vectorstore/memory"
)

// Session is the indexed state built from one upload. It is read-only after
// Open; a replacing upload produces a new Session and closes the old one.
type Session struct {
	ID        string
	CreatedAt time.Time
	Sources   []string
	Chunks    []domain.Chunk
	Embedder  domain.Embedder
	Vector    *retrieval.VectorIndex
	Keyword   *retrieval.KeywordIndex
	Retriever *retrieval.HybridRetriever

	mu sync.Mutex
}

// Open indexes chunks into a fresh vector index and TF-IDF keyword index.
// An empty id gets a random UUID.
func Open(id string, sources []string, chunks []domain.Chunk, embedder domain.Embedder) (*Session, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("session: no chunks: %w", domain.ErrEmptyInput)
	}
	if id == "" {
		id = uuid.NewString()
	}
	vector := retrieval.NewVectorIndex(embedder, memory.NewStorage())
	if err := vector.Build(chunks); err != nil {
		return nil, err
	}
	keyword := retrieval.NewKeywordIndex(tfidf.New())
	if err := keyword.Build(chunks); err != nil {
		return nil, err
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		Sources:   sources,
		Chunks:    chunks,
		Embedder:  embedder,
		Vector:    vector,
		Keyword:   keyword,
		Retriever: retrieval.NewHybridRetriever(vector, keyword),
	}, nil
}

// Do runs fn while holding the session lock, so queries against one session
// never interleave.
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Close releases the stored vectors once in-flight queries finish. Later
// queries fail with domain.ErrInvalidState.
func (s *Session) Close() error {
	return s.Do(s.Vector.Reset)
}

// Store keeps live sessions by ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Put adds s and returns the session it replaced, if any.
func (st *Store) Put(s *Session) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	prev := st.sessions[s.ID]
	st.sessions[s.ID] = s
	return prev
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes and returns the session with id.
func (st *Store) Delete(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	return s, ok
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// IDs lists session IDs oldest first.
func (st *Store) IDs() []string {
	st.mu.RLock()
	all := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		all = append(all, s)
	}
	st.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	return ids
}
