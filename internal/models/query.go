package models

import "math"

// SearchMode selects which retrieval paths a query exercises.
type SearchMode string

const (
	// ModeFullText runs lexical search only.
	ModeFullText SearchMode = "full_text"
	// ModeSemantic runs vector similarity search only.
	ModeSemantic SearchMode = "semantic"
	// ModeHybrid runs both paths concurrently and fuses the ranked lists.
	ModeHybrid SearchMode = "hybrid"
)

// DefaultLimit is applied when a query does not set one.
const DefaultLimit = 10

// RerankStrategy selects how a hybrid query fuses the two ranked lists.
// The set is closed: only the variants in this package satisfy it, so fusion
// code can type-switch exhaustively.
type RerankStrategy interface {
	// Validate rejects non-finite or negative parameters.
	Validate() error
	strategy()
}

// RRF is reciprocal rank fusion: score = sum over lists of 1/(K+rank).
// Rank-based, so it is robust to the two lists having incomparable raw
// score scales. The default strategy for hybrid queries.
type RRF struct {
	K float64 `json:"k"`
}

// Linear fuses max-normalized raw scores with a weighted sum. Weights need
// not sum to 1.
type Linear struct {
	TextWeight   float64 `json:"text_weight"`
	VectorWeight float64 `json:"vector_weight"`
}

// TextOnly passes the text list through unchanged, discarding the vector list.
type TextOnly struct{}

// VectorOnly passes the vector list through unchanged, discarding the text list.
type VectorOnly struct{}

func (RRF) strategy()        {}
func (Linear) strategy()     {}
func (TextOnly) strategy()   {}
func (VectorOnly) strategy() {}

// DefaultRRFK is the conventional reciprocal rank fusion constant.
const DefaultRRFK = 60.0

// DefaultRerank returns the default hybrid fusion strategy.
func DefaultRerank() RerankStrategy {
	return Linear{TextWeight: 0.7, VectorWeight: 0.3}
}

func (s RRF) Validate() error {
	if math.IsNaN(s.K) || math.IsInf(s.K, 0) || s.K < 0 {
		return &InvalidStrategyError{Strategy: "rrf", Reason: "k must be finite and non-negative"}
	}
	return nil
}

func (s Linear) Validate() error {
	for _, w := range []float64{s.TextWeight, s.VectorWeight} {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return &InvalidStrategyError{Strategy: "linear", Reason: "weights must be finite and non-negative"}
		}
	}
	return nil
}

func (TextOnly) Validate() error   { return nil }
func (VectorOnly) Validate() error { return nil }

// Query is an immutable search request. Builders return modified copies, so
// a Query can be shared across the concurrent retrieval calls without
// synchronization.
type Query struct {
	Mode SearchMode
	// Text is the lexical query (required for full-text and hybrid modes;
	// for semantic mode it is the embedding source when Vector is unset).
	Text string
	// Vector is a pre-computed embedding for semantic mode.
	Vector []float32
	Limit  int
	Offset int
	// Filter is a boolean predicate over metadata columns,
	// e.g. "state = 'open' AND repository = 'rust-lang/rust'".
	Filter string
	// SearchFields restricts full-text matching to a subset of fields.
	SearchFields []string
	// FieldBoosts maps field name to a positive multiplier; unlisted
	// fields use 1.0.
	FieldBoosts map[string]float64
	// Rerank selects the hybrid fusion strategy; nil means the default.
	Rerank RerankStrategy
}

// FullText builds a lexical-only query.
func FullText(text string) Query {
	return Query{Mode: ModeFullText, Text: text, Limit: DefaultLimit}
}

// SemanticFromText builds a semantic query whose embedding is derived from text.
func SemanticFromText(text string) Query {
	return Query{Mode: ModeSemantic, Text: text, Limit: DefaultLimit}
}

// SemanticFromVector builds a semantic query from a pre-computed embedding.
func SemanticFromVector(vector []float32) Query {
	return Query{Mode: ModeSemantic, Vector: vector, Limit: DefaultLimit}
}

// Hybrid builds a hybrid query with the default rerank strategy.
func Hybrid(text string) Query {
	return Query{Mode: ModeHybrid, Text: text, Limit: DefaultLimit, Rerank: DefaultRerank()}
}

// WithLimit returns a copy with the given result cap.
func (q Query) WithLimit(limit int) Query {
	q.Limit = limit
	return q
}

// WithOffset returns a copy with the given pagination offset.
func (q Query) WithOffset(offset int) Query {
	q.Offset = offset
	return q
}

// WithFilter returns a copy with the given metadata predicate.
func (q Query) WithFilter(filter string) Query {
	q.Filter = filter
	return q
}

// WithFields returns a copy restricted to matching the given text fields.
func (q Query) WithFields(fields ...string) Query {
	q.SearchFields = append([]string(nil), fields...)
	return q
}

// WithBoosts returns a copy with per-field score multipliers.
func (q Query) WithBoosts(boosts map[string]float64) Query {
	copied := make(map[string]float64, len(boosts))
	for f, b := range boosts {
		copied[f] = b
	}
	q.FieldBoosts = copied
	return q
}

// WithRerank returns a copy with the given hybrid fusion strategy.
func (q Query) WithRerank(s RerankStrategy) Query {
	q.Rerank = s
	return q
}
