// Package service wires ingestion, retrieval, answering and summarization
// into session-scoped operations.
package service

import (
	"errors"
	"fmt"
	"strings"

	"docqa/internal/classifier"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding"
	"docqa/internal/ingest"
	"docqa/internal/log"
	"docqa/internal/qa"
	"docqa/internal/segment"
	"docqa/internal/session"
	"docqa/internal/summarizer"
)

// ErrSessionNotFound is returned for an unknown or deleted session ID.
var ErrSessionNotFound = errors.New("session not found")

type Service struct {
	cfg      *config.AppConfig
	factory  embedding.Factory
	chunker  domain.Chunker
	splitter *segment.Splitter
	sessions *session.Store
}

func New(cfg *config.AppConfig, factory embedding.Factory, chunker domain.Chunker, segmenter domain.SentenceSegmenter) *Service {
	return &Service{
		cfg:      cfg,
		factory:  factory,
		chunker:  chunker,
		splitter: segment.NewSplitter(segmenter),
		sessions: session.NewStore(),
	}
}

// IngestPaths loads files matching patterns into a new session.
func (s *Service) IngestPaths(patterns []string) (*session.Session, error) {
	docs, err := ingest.LoadPaths(patterns)
	if err != nil {
		return nil, err
	}
	return s.IngestDocuments("", docs)
}

// IngestDocuments chunks docs and indexes them. A non-empty id replaces the
// session with that ID; an empty id creates a new one.
func (s *Service) IngestDocuments(id string, docs []domain.Document) (*session.Session, error) {
	var chunks []domain.Chunk
	sources := make([]string, 0, len(docs))
	for _, d := range docs {
		cs, err := s.chunker.Chunk(d)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, cs...)
		sources = append(sources, d.Path)
	}
	return s.IngestChunks(id, sources, chunks)
}

// IngestChunks indexes already chunked text. Nothing is stored on failure,
// so a failed re-upload leaves the previous session in place.
func (s *Service) IngestChunks(id string, sources []string, chunks []domain.Chunk) (*session.Session, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("ingest: no text extracted: %w", domain.ErrEmptyInput)
	}
	embedder, err := s.factory()
	if err != nil {
		return nil, domain.NewCapabilityError("embedder", err)
	}
	sess, err := session.Open(id, sources, chunks, embedder)
	if err != nil {
		return nil, err
	}
	if prev := s.sessions.Put(sess); prev != nil {
		if err := prev.Close(); err != nil {
			log.Error("release replaced session", err)
		}
	}
	log.Infow("session indexed", "session", sess.ID, "documents", len(sources), "chunks", len(chunks),
		"embedder", embedder.Name(), "live_sessions", s.sessions.Len())
	return sess, nil
}

func (s *Service) Session(id string) (*session.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// SessionIDs lists live sessions, oldest first.
func (s *Service) SessionIDs() []string {
	return s.sessions.IDs()
}

// Close drops a session and releases its index.
func (s *Service) Close(id string) error {
	sess, ok := s.sessions.Delete(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrSessionNotFound)
	}
	if err := sess.Close(); err != nil {
		return err
	}
	log.Infow("session closed", "session", id, "live_sessions", s.sessions.Len())
	return nil
}

// Ask answers question from the chunks retrieved for it.
func (s *Service) Ask(id, question string) (domain.AnswerResult, error) {
	if strings.TrimSpace(question) == "" {
		return domain.AnswerResult{}, fmt.Errorf("empty question: %w", domain.ErrEmptyInput)
	}
	sess, err := s.Session(id)
	if err != nil {
		return domain.AnswerResult{}, err
	}
	var res domain.AnswerResult
	err = sess.Do(func() error {
		chunks, err := sess.Retriever.Retrieve(question, s.cfg.Retrieval.TopK)
		if err != nil {
			return err
		}
		res, err = qa.NewAnswerer(sess.Embedder, s.splitter, s.cfg.Answer).Answer(question, chunks)
		return err
	})
	if errors.Is(err, domain.ErrNotGrounded) {
		log.Infow("answer not grounded", "session", id)
		return domain.AnswerResult{}, err
	}
	if err != nil {
		return domain.AnswerResult{}, err
	}
	log.Debugw("answer", "session", id, "confidence", res.Confidence, "band", res.Band)
	return res, nil
}

// Summarize ranks sentences from the chunks retrieved for query, or from the
// whole session when summarizer.scope is corpus. maxSentences <= 0 uses the
// configured maximum.
func (s *Service) Summarize(id, query string, maxSentences int) (domain.SummaryResult, error) {
	if maxSentences <= 0 {
		maxSentences = s.cfg.Summarizer.MaxSentences
	}
	sess, err := s.Session(id)
	if err != nil {
		return domain.SummaryResult{}, err
	}
	var res domain.SummaryResult
	err = sess.Do(func() error {
		ranker, err := summarizer.New(sess.Embedder, s.splitter, s.cfg.Summarizer)
		if err != nil {
			return err
		}
		chunks := sess.Chunks
		if s.cfg.Summarizer.Scope != config.ScopeCorpus {
			if chunks, err = sess.Retriever.Retrieve(query, s.cfg.Retrieval.TopK); err != nil {
				return err
			}
		}
		res, err = ranker.Summarize(chunks, maxSentences)
		return err
	})
	if err != nil {
		return domain.SummaryResult{}, err
	}
	log.Debugw("summary", "session", id, "sentences", len(res.Sentences))
	return res, nil
}

func (s *Service) Classify(query string) domain.QueryKind {
	return classifier.Classify(query)
}

// Query routes query to the summary or answer pipeline.
func (s *Service) Query(id, query string) (domain.Response, error) {
	kind := s.Classify(query)
	log.Debugw("query routed", "session", id, "kind", kind)
	if kind == domain.QuerySummary {
		sum, err := s.Summarize(id, query, 0)
		if err != nil {
			return domain.Response{}, err
		}
		return domain.Response{Kind: kind, Summary: &sum}, nil
	}
	ans, err := s.Ask(id, query)
	if err != nil {
		return domain.Response{}, err
	}
	return domain.Response{Kind: kind, Answer: &ans}, nil
}
