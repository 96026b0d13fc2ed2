package qa

import (
	"errors"
	"math"
	"strings"
	"testing"

	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding/embeddingtest"
	"docqa/internal/segment"
)

const (
	s0 = "Deep learning is a subset of machine learning that uses neural networks."
	s1 = "It requires large amounts of data."
	s2 = "What is supervised learning?"
	s3 = "It uses labeled data to train models."
)

func exampleChunks() []domain.Chunk {
	return []domain.Chunk{
		{Text: s0, Index: 0},
		{Text: s1, Index: 1},
		{Text: s2 + " " + s3, Index: 2},
	}
}

func exampleEmbedder() *embeddingtest.Embedder {
	return embeddingtest.New(3, map[string][]float64{
		s0:                       {1, 0, 0},
		s1:                       {0, 0, 1},
		s2:                       {0, 1, 0}, // also the supervised learning question
		s3:                       {0, 0, 1},
		"What is deep learning?": {1, 0, 0},
	})
}

func answerConfig() config.AnswerConfig { return config.Default().Answer }

func newAnswerer(e domain.Embedder) *Answerer {
	return NewAnswerer(e, segment.NewSplitter(segment.NewRegexSegmenter()), answerConfig())
}

func newSelector(e domain.Embedder) *Selector {
	return NewSelector(e, segment.NewSplitter(segment.NewRegexSegmenter()), answerConfig())
}

func TestOverlap(t *testing.T) {
	if got := Overlap("What is deep learning?", s0); got != 2 {
		t.Fatalf("overlap = %d, want 2 (is, deep)", got)
	}
	if got := Overlap("Learning learning", "LEARNING"); got != 1 {
		t.Fatalf("overlap counts distinct tokens, got %d", got)
	}
	if got := Overlap("Explain quantum gravity", s2+" "+s3); got != 0 {
		t.Fatalf("overlap = %d", got)
	}
}

func TestSelectPlainSentence(t *testing.T) {
	answer, sentences, err := newSelector(exampleEmbedder()).Select("What is deep learning?", exampleChunks())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if answer != s0 {
		t.Fatalf("answer = %q", answer)
	}
	if len(sentences) != 4 {
		t.Fatalf("sentences = %d", len(sentences))
	}
}

func TestSelectExpandsQuestionHeading(t *testing.T) {
	answer, _, err := newSelector(exampleEmbedder()).Select("What is supervised learning?", exampleChunks())
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if answer != s2+" "+s3 {
		t.Fatalf("answer = %q", answer)
	}
}

func TestSelectExpandsShortHeadingButNotLast(t *testing.T) {
	e := embeddingtest.New(2, map[string][]float64{
		"Neural networks.":                         {1, 0},
		"They are layered function approximators.": {0, 1},
		"Activation functions.":                    {0.6, 0.8},
		"neural networks":                          {1, 0},
		"activation":                               {0.6, 0.8},
	})
	chunks := []domain.Chunk{{Text: "Neural networks. They are layered function approximators. Activation functions."}}
	sel := newSelector(e)
	answer, _, err := sel.Select("neural networks", chunks)
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Neural networks. They are layered function approximators." {
		t.Fatalf("answer = %q", answer)
	}
	answer, _, err = sel.Select("activation", chunks)
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Activation functions." {
		t.Fatalf("last sentence must not expand, got %q", answer)
	}
}

func TestSelectFirstOccurrenceWinsTies(t *testing.T) {
	e := embeddingtest.New(2, map[string][]float64{
		"Alpha beta gamma delta epsilon zeta.": {1, 0},
		"Alpha beta gamma delta epsilon eta.":  {1, 0},
		"q":                                    {1, 0},
	})
	chunks := []domain.Chunk{{Text: "Alpha beta gamma delta epsilon zeta. Alpha beta gamma delta epsilon eta."}}
	answer, _, err := newSelector(e).Select("q", chunks)
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Alpha beta gamma delta epsilon zeta." {
		t.Fatalf("answer = %q", answer)
	}
}

func TestSelectAnswerIsMemberOrMemberWithSuccessor(t *testing.T) {
	e := embeddingtest.New(16, nil)
	chunks := exampleChunks()
	for _, q := range []string{"data", "What is it?", "machine networks", "models", "x"} {
		answer, sentences, err := newSelector(e).Select(q, chunks)
		if err != nil {
			t.Fatal(err)
		}
		ok := false
		for i, s := range sentences {
			if answer == s.Text || (i+1 < len(sentences) && answer == s.Text+" "+sentences[i+1].Text) {
				ok = true
				break
			}
		}
		if !ok {
			t.Fatalf("answer %q for %q is not a sentence or sentence+successor", answer, q)
		}
	}
}

func TestSelectEmptyChunks(t *testing.T) {
	if _, _, err := newSelector(exampleEmbedder()).Select("q", nil); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestSelectCapabilityError(t *testing.T) {
	e := exampleEmbedder()
	e.Err = errors.New("offline")
	_, _, err := newSelector(e).Select("q", exampleChunks())
	var ce *domain.CapabilityError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckGrounding(t *testing.T) {
	if err := CheckGrounding("Explain quantum gravity", s0); !errors.Is(err, domain.ErrNotGrounded) {
		t.Fatalf("err = %v", err)
	}
	if err := CheckGrounding("What is deep learning?", s0); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestScoreTakesMaximum(t *testing.T) {
	e := embeddingtest.New(2, map[string][]float64{
		"Q A": {1, 0},
		"x":   {0, 1},
		"y":   {1, 1},
	})
	sc := NewScorer(e, answerConfig())
	score, err := sc.Score("A", "Q", []domain.Sentence{{Text: "x"}, {Text: "y"}})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(score-1/math.Sqrt2) > 1e-9 {
		t.Fatalf("score = %v", score)
	}
	if sc.Classify(score) != domain.BandAcceptable {
		t.Fatalf("band = %v", sc.Classify(score))
	}
	if _, err := sc.Score("A", "Q", nil); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("err = %v", err)
	}
}

func TestClassifyBands(t *testing.T) {
	sc := NewScorer(nil, answerConfig())
	cases := map[float64]domain.Band{
		1.0:    domain.BandHigh,
		0.8:    domain.BandHigh,
		0.7999: domain.BandAcceptable,
		0.6:    domain.BandAcceptable,
		0.5999: domain.BandLow,
		-0.2:   domain.BandLow,
	}
	for score, want := range cases {
		if got := sc.Classify(score); got != want {
			t.Fatalf("Classify(%v) = %v, want %v", score, got, want)
		}
	}
}

func TestClean(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Definition: Deep learning is a method.", "Deep learning is a method."},
		{"What is supervised learning? It uses labeled data to train models.", "supervised learning? It uses labeled data to train models."},
		{"Deep learning is a subset.", "Deep learning is a subset."},
		{"what is lowercase stays.", "what is lowercase stays."},
		{"Definition : What is X", "X"},
		{"Intro. WHAT IS   overfitting", "overfitting"},
	}
	for _, c := range cases {
		if got := Clean(c.in); got != c.want {
			t.Fatalf("Clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	for _, in := range []string{
		"Definition: Deep learning is a method.",
		"What is supervised learning? It uses labeled data.",
		"Plain answer.",
	} {
		once := Clean(in)
		if Clean(once) != once {
			t.Fatalf("Clean not idempotent for %q", in)
		}
	}
}

func TestAnswerScenarios(t *testing.T) {
	e := exampleEmbedder()
	a := newAnswerer(e)

	res, err := a.Answer("What is deep learning?", exampleChunks())
	if err != nil {
		t.Fatalf("deep learning: %v", err)
	}
	if res.Answer != s0 {
		t.Fatalf("answer = %q", res.Answer)
	}
	if res.Confidence < -1 || res.Confidence > 1+1e-9 {
		t.Fatalf("confidence out of range: %v", res.Confidence)
	}
	if res.Band != NewScorer(nil, answerConfig()).Classify(res.Confidence) {
		t.Fatalf("band %v does not match score %v", res.Band, res.Confidence)
	}

	res, err = a.Answer("What is supervised learning?", exampleChunks())
	if err != nil {
		t.Fatalf("supervised: %v", err)
	}
	if !strings.HasSuffix(res.Answer, s3) || !strings.HasPrefix(res.Answer, "supervised learning?") {
		t.Fatalf("answer = %q", res.Answer)
	}
}

func TestAnswerGroundingFailureSkipsScoring(t *testing.T) {
	e := exampleEmbedder()
	a := newAnswerer(e)
	res, err := a.Answer("Explain quantum gravity", exampleChunks())
	if !errors.Is(err, domain.ErrNotGrounded) {
		t.Fatalf("err = %v, want ErrNotGrounded", err)
	}
	if res != (domain.AnswerResult{}) {
		t.Fatalf("grounding failure must not carry a result: %+v", res)
	}
	// question + 4 sentences; the scorer would embed 5 more texts
	if e.Calls() != 5 {
		t.Fatalf("embed calls = %d, confidence must not be computed", e.Calls())
	}
}

func TestAnswerKeepsAbbreviationWithPunkt(t *testing.T) {
	const (
		intro   = "Dr. Smith introduced neural networks in 1958."
		version = "Python 3.12 adds a faster interpreter."
		q       = "Who introduced neural networks?"
	)
	seg, err := segment.NewPunktSegmenter()
	if err != nil {
		t.Fatal(err)
	}
	e := embeddingtest.New(2, map[string][]float64{
		intro:   {1, 0},
		version: {0, 1},
		q:       {1, 0},
	})
	a := NewAnswerer(e, segment.NewSplitter(seg), answerConfig())
	res, err := a.Answer(q, []domain.Chunk{{Text: intro + " " + version}})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if res.Answer != intro {
		t.Fatalf("answer = %q, want %q", res.Answer, intro)
	}
}
