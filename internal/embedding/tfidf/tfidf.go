// Package tfidf weights terms the way scikit-learn's TfidfVectorizer does with
// default settings: tokens of two or more word characters, raw term counts,
// smoothed IDF and L2-normalized rows.
package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// tokenPattern is `(?u)\b\w\w+\b` with a Unicode-aware \w.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Embedder is fitted on a corpus and then maps text to TF-IDF vectors. It
// serves both as a term weighter (Fit/Transform) and as an embedder
// (Prepare/Embed).
type Embedder struct {
	terms     map[string]int
	idf       []float64
	stopwords map[string]struct{}
}

type Option func(*Embedder)

// WithStopwords drops the given terms before weighting. With no arguments
// a short English list is used.
func WithStopwords(words ...string) Option {
	return func(e *Embedder) {
		if len(words) == 0 {
			words = englishStopwords
		}
		e.stopwords = make(map[string]struct{}, len(words))
		for _, w := range words {
			e.stopwords[strings.ToLower(w)] = struct{}{}
		}
	}
}

// New returns an unfitted weighter. Without options no stopwords are
// removed.
func New(opts ...Option) *Embedder {
	e := &Embedder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Embedder) Name() string { return "tfidf" }

// Fit learns the vocabulary and IDF weights. Fitting again replaces both.
func (e *Embedder) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("tfidf: empty corpus")
	}
	df := map[string]int{}
	for _, doc := range corpus {
		for term := range e.counts(doc) {
			df[term]++
		}
	}
	if len(df) == 0 {
		return errors.New("tfidf: empty vocabulary; corpus contains only stop words or one-letter tokens")
	}
	vocab := make([]string, 0, len(df))
	for term := range df {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)

	n := float64(len(corpus))
	e.terms = make(map[string]int, len(vocab))
	e.idf = make([]float64, len(vocab))
	for col, term := range vocab {
		e.terms[term] = col
		e.idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return nil
}

// Prepare is Fit under its embedding name.
func (e *Embedder) Prepare(corpus []string) error { return e.Fit(corpus) }

// Dimension is the vocabulary size, zero before Fit.
func (e *Embedder) Dimension() int { return len(e.idf) }

// Transform weights text against the fitted vocabulary. Out-of-vocabulary
// text yields the zero vector.
func (e *Embedder) Transform(text string) ([]float64, error) {
	if e.terms == nil {
		return nil, errors.New("tfidf: transform before fit")
	}
	row := make([]float64, len(e.idf))
	for term, count := range e.counts(text) {
		if col, ok := e.terms[term]; ok {
			row[col] = float64(count) * e.idf[col]
		}
	}
	if norm := floats.Norm(row, 2); norm > 0 {
		floats.Scale(1/norm, row)
	}
	return row, nil
}

// Embed is Transform under its embedding name.
func (e *Embedder) Embed(text string) ([]float64, error) { return e.Transform(text) }

func (e *Embedder) EmbedBatch(texts []string) ([][]float64, error) {
	rows := make([][]float64, 0, len(texts))
	for _, t := range texts {
		row, err := e.Transform(t)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *Embedder) counts(text string) map[string]int {
	out := map[string]int{}
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		out[tok]++
	}
	return out
}

var englishStopwords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at",
	"by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that",
	"these", "those", "from", "up", "down", "over", "under", "into", "about", "between", "through",
	"during", "before", "after", "so", "than", "too", "very", "can", "will", "just", "should", "now",
}
