package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the retrieval engines. All search errors are
// request-scoped; the engine never retries internally.
var (
	// ErrIndexUnavailable means the underlying index has never been built
	// or its handle is invalid. Distinct from a zero-length result, which
	// is a valid empty answer.
	ErrIndexUnavailable = errors.New("search index unavailable")

	// ErrEmbeddingUnavailable means the embedding collaborator failed to
	// produce a vector for the query text.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
)

// InvalidFilterError reports a filter predicate that does not parse.
type InvalidFilterError struct {
	Expr  string
	Cause error
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %q: %v", e.Expr, e.Cause)
}

func (e *InvalidFilterError) Unwrap() error { return e.Cause }

// UnknownFieldError reports a field name that is not part of the index schema.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Field)
}

// DimensionMismatchError reports a query vector whose length differs from
// the index's configured embedding dimensionality.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector dimension mismatch: index expects %d, got %d", e.Want, e.Got)
}

// StrategyMismatchError reports a rerank strategy that requires a signal
// which was not retrieved (e.g. VectorOnly under a full-text query).
type StrategyMismatchError struct {
	Strategy string
	Missing  Source
}

func (e *StrategyMismatchError) Error() string {
	return fmt.Sprintf("rerank strategy %s requires the %s list, which was not retrieved", e.Strategy, e.Missing)
}

// InvalidStrategyError reports rerank strategy parameters that are out of range.
type InvalidStrategyError struct {
	Strategy string
	Reason   string
}

func (e *InvalidStrategyError) Error() string {
	return fmt.Sprintf("invalid %s strategy: %s", e.Strategy, e.Reason)
}
