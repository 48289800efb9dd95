package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nourai/nourai/internal/corpus"
)

// Sentinel errors for input validation. Inputs are rejected before any
// retrieval work begins; dependency failures are wrapped, not sentineled.
var (
	// ErrEmptyQuery indicates the query text is empty or whitespace.
	ErrEmptyQuery = errors.New("empty query")

	// ErrInvalidTopK indicates top-k is negative.
	ErrInvalidTopK = errors.New("invalid top-k")
)

// Canned answers for the two graceful-empty terminal states. They are
// user-visible answers, never errors.
const (
	noResultsAnswer  = "No encontré información relevante en la base de datos."
	noRelevantAnswer = "No encontré documentos con suficiente relevancia. Intenta reformular tu pregunta."
)

// Outcome is the kind of terminal state a query reached. Callers branch
// on Outcome rather than matching canned answer text.
type Outcome string

const (
	// OutcomeAnswered means evidence survived filtering and an answer
	// was generated with citations.
	OutcomeAnswered Outcome = "answered"

	// OutcomeNoResults means the index returned zero chunks.
	OutcomeNoResults Outcome = "no_results"

	// OutcomeNoRelevant means chunks were retrieved but none met the
	// similarity threshold.
	OutcomeNoRelevant Outcome = "no_relevant"
)

// Response is the engine's sole output type, constructed once per request.
// Sources is empty (never nil) for the graceful-empty outcomes.
type Response struct {
	Outcome Outcome    `json:"outcome"`
	Answer  string     `json:"answer"`
	Sources []Citation `json:"sources"`
}

// Searcher is the retrieval boundary: embed a query and return the k
// nearest chunks with distances, ordered smallest-distance first.
// Implemented by *corpus.Store.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]corpus.Hit, error)
}

// Config contains all required parameters for the Engine.
type Config struct {
	Searcher  Searcher
	Generator Generator
	Logger    *slog.Logger

	// Threshold is the minimum similarity to keep a chunk as evidence.
	Threshold float64

	// DefaultTopK is used when a request does not specify top-k.
	DefaultTopK int
}

func (cfg Config) validate() error {
	if cfg.Searcher == nil {
		return errors.New("searcher is required")
	}
	if cfg.Generator == nil {
		return errors.New("generator is required")
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %v", cfg.Threshold)
	}
	if cfg.DefaultTopK < 1 {
		return fmt.Errorf("default top-k must be positive, got %d", cfg.DefaultTopK)
	}
	return nil
}

// Engine orchestrates one query/answer cycle: expand → retrieve → filter
// → clinical context → compose prompt → generate → extract citations.
//
// Engine is stateless across invocations and safe for concurrent use
// provided its Searcher and Generator are.
type Engine struct {
	searcher    Searcher
	generator   Generator
	threshold   float64
	defaultTopK int
	logger      *slog.Logger
}

// NewEngine creates an Engine from Config.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		searcher:    cfg.Searcher,
		generator:   cfg.Generator,
		threshold:   cfg.Threshold,
		defaultTopK: cfg.DefaultTopK,
		logger:      logger,
	}, nil
}

// Answer runs one request/response cycle.
//
// topK 0 means "use the configured default"; negative values are
// rejected. clinical may be nil. The two empty-evidence outcomes return
// a canned answer with empty sources and a nil error. A failure from
// the embedder, the index, or the generator aborts the whole request.
func (e *Engine) Answer(ctx context.Context, query string, topK int, clinical *ClinicalAttributes) (*Response, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
	}
	if topK == 0 {
		topK = e.defaultTopK
	}

	// Retrieval uses the expanded query; everything downstream uses the
	// original.
	searchQuery := ExpandQuery(query)

	hits, err := e.searcher.Search(ctx, searchQuery, topK)
	if err != nil {
		return nil, fmt.Errorf("searching corpus: %w", err)
	}

	if len(hits) == 0 {
		e.logger.Debug("no chunks retrieved", "top_k", topK)
		return &Response{Outcome: OutcomeNoResults, Answer: noResultsAnswer, Sources: []Citation{}}, nil
	}

	evidence := FilterByThreshold(hits, e.threshold)
	if len(evidence) == 0 {
		e.logger.Debug("no chunks above threshold",
			"retrieved", len(hits), "threshold", e.threshold)
		return &Response{Outcome: OutcomeNoRelevant, Answer: noRelevantAnswer, Sources: []Citation{}}, nil
	}

	clinicalContext := BuildClinicalContext(clinical)
	prompt := ComposePrompt(clinicalContext, evidence, query)

	answer, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	sources := ExtractCitations(evidence)
	e.logger.Debug("query answered",
		"retrieved", len(hits), "evidence", len(evidence), "answer_length", len(answer))

	return &Response{Outcome: OutcomeAnswered, Answer: answer, Sources: sources}, nil
}
