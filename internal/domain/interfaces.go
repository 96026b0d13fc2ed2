package domain

import "strings"

// Document represents a single uploaded file loaded into the system.
type Document struct {
	ID      string
	Path    string
	Content string
	// Pages holds per-page text for paginated formats. Chunkers window each
	// page separately when it is set.
	Pages []string
}

// Chunk is a contiguous block of document text used for indexing.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// Sentence is a single sentence derived from a chunk.
type Sentence struct {
	Text string
	// Chunk is the position of the source chunk in the split input.
	Chunk int
	// Position is the sentence index inside its source chunk.
	Position int
	// Order is the flattened index across all split chunks.
	Order int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// ScoredSentence pairs a sentence with a ranking score.
type ScoredSentence struct {
	Sentence Sentence
	Score    float64
}

// Band is a discrete classification of an answer confidence score.
type Band string

const (
	BandHigh       Band = "high"
	BandAcceptable Band = "acceptable"
	BandLow        Band = "low"
)

// AnswerResult is a grounded answer with its confidence.
type AnswerResult struct {
	Answer     string
	Confidence float64
	Band       Band
}

// SummaryResult is an extractive summary in rank order.
type SummaryResult struct {
	Sentences []string
}

// Text joins the summary sentences with single spaces.
func (r SummaryResult) Text() string { return strings.Join(r.Sentences, " ") }

// QueryKind selects the pipeline a query is routed to.
type QueryKind string

const (
	QueryQA      QueryKind = "qa"
	QuerySummary QueryKind = "summary"
)

// Response is the routed outcome of a single query. Exactly one of Answer or
// Summary is set, matching Kind.
type Response struct {
	Kind    QueryKind
	Answer  *AnswerResult
	Summary *SummaryResult
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
	EmbedBatch(texts []string) ([][]float64, error)
}

// TermWeighter maps text into a weighted term space fitted on a corpus.
type TermWeighter interface {
	Fit(corpus []string) error
	Transform(text string) ([]float64, error)
}

// SentenceSegmenter splits text into an ordered sentence sequence.
type SentenceSegmenter interface {
	Segment(text string) ([]string, error)
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}
