// Package vectorindex provides nearest-neighbor retrieval over item
// embeddings. Scores are similarities (inner product over normalized
// vectors, i.e. cosine) and results are ordered by descending similarity.
package vectorindex

import (
	"context"

	"github.com/stackfin/gitscout/internal/filter"
	"github.com/stackfin/gitscout/internal/models"
)

// FilterMode says when a metadata predicate is applied relative to the
// nearest-neighbor scan. Pre-filtering restricts the candidate set before
// the top-K are chosen, so a selective filter still yields K matching
// neighbors; post-filtering can return fewer.
type FilterMode string

const (
	FilterModePre  FilterMode = "pre"
	FilterModePost FilterMode = "post"
)

// VectorIndex is the vector-index provider contract. Implementations are
// read-only at query time and safe for concurrent searches.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32, meta []map[string]string) error
	// Search returns up to k hits ordered by descending similarity with
	// Source set to vector. A query vector whose length differs from the
	// configured dimensionality fails with DimensionMismatchError; it is
	// never truncated or padded.
	Search(ctx context.Context, query []float32, k int, pred filter.Expr) ([]models.RankedItem, error)
	Remove(ctx context.Context, ids []string) error
	Dimensions() int
	// FilterMode reports when predicates are applied; see FilterMode.
	FilterMode() FilterMode
	Size() int
	Save(path string) error
	Load(path string) error
	Close() error
}
