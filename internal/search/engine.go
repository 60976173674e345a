// Package search dispatches queries to the text and vector retrieval
// engines and fuses their results.
package search

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stackfin/gitscout/internal/config"
	"github.com/stackfin/gitscout/internal/embedding"
	"github.com/stackfin/gitscout/internal/filter"
	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/internal/rerank"
	"github.com/stackfin/gitscout/internal/textindex"
	"github.com/stackfin/gitscout/internal/vectorindex"
	"github.com/stackfin/gitscout/pkg/utils"
)

// Engine routes queries to the retrieval engines. Each request is
// self-contained: validation, retrieval, fusion, and windowing happen inside
// one Search call, and failures are returned to the caller without retries.
type Engine struct {
	text     textindex.TextIndex
	vector   vectorindex.VectorIndex
	embedder embedding.Embedder
	cfg      *config.SearchConfig
	logger   *zap.Logger
}

// NewEngine creates a search engine with the given dependencies. A nil index
// handle means that retrieval path is unavailable, not empty.
func NewEngine(
	text textindex.TextIndex,
	vector vectorindex.VectorIndex,
	embedder embedding.Embedder,
	cfg *config.SearchConfig,
	logger *zap.Logger,
) *Engine {
	if cfg == nil {
		c := config.Config{}
		config.ApplyDefaults(&c)
		cfg = &c.Search
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{text: text, vector: vector, embedder: embedder, cfg: cfg, logger: logger}
}

// Search validates and executes one query. Results carry dense 1-based ranks
// assigned over the full fused list before the offset/limit window is cut, so
// page boundaries never renumber items.
func (e *Engine) Search(ctx context.Context, q models.Query) ([]models.SearchResult, error) {
	start := time.Now()

	q, pred, err := e.normalize(q)
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	switch q.Mode {
	case models.ModeFullText:
		results, err = e.searchFullText(ctx, q, pred)
	case models.ModeSemantic:
		results, err = e.searchSemantic(ctx, q, pred)
	case models.ModeHybrid:
		results, err = e.searchHybrid(ctx, q, pred)
	default:
		return nil, fmt.Errorf("unknown search mode %q", q.Mode)
	}
	if err != nil {
		return nil, err
	}

	windowed := window(results, q.Offset, q.Limit)
	e.logger.Debug("search completed",
		zap.String("mode", string(q.Mode)),
		zap.String("text", utils.Truncate(q.Text, 80)),
		zap.Int("fused", len(results)),
		zap.Int("returned", len(windowed)),
		zap.Duration("elapsed", time.Since(start)))
	return windowed, nil
}

// normalize applies limit defaults and validates every request parameter
// before any retrieval work starts.
func (e *Engine) normalize(q models.Query) (models.Query, filter.Expr, error) {
	if q.Limit <= 0 {
		q.Limit = e.cfg.DefaultLimit
	}
	if e.cfg.MaxLimit > 0 && q.Limit > e.cfg.MaxLimit {
		q.Limit = e.cfg.MaxLimit
	}
	if q.Offset < 0 {
		return q, nil, fmt.Errorf("offset must be non-negative, got %d", q.Offset)
	}

	switch q.Mode {
	case models.ModeFullText, models.ModeHybrid:
		if q.Text == "" {
			return q, nil, fmt.Errorf("%s query requires text", q.Mode)
		}
	case models.ModeSemantic:
		if q.Text == "" && len(q.Vector) == 0 {
			return q, nil, fmt.Errorf("semantic query requires text or a vector")
		}
	default:
		return q, nil, fmt.Errorf("unknown search mode %q", q.Mode)
	}

	for _, f := range q.SearchFields {
		if !models.KnownSearchField(f) {
			return q, nil, &models.UnknownFieldError{Field: f}
		}
	}
	for f, boost := range q.FieldBoosts {
		if !models.KnownSearchField(f) {
			return q, nil, &models.UnknownFieldError{Field: f}
		}
		if boost <= 0 || math.IsNaN(boost) || math.IsInf(boost, 0) {
			return q, nil, fmt.Errorf("boost for field %q must be positive and finite, got %v", f, boost)
		}
	}

	pred, err := filter.Parse(q.Filter)
	if err != nil {
		return q, nil, &models.InvalidFilterError{Expr: q.Filter, Cause: err}
	}
	if pred != nil {
		for _, f := range filter.Fields(pred) {
			if !models.KnownFilterField(f) {
				return q, nil, &models.UnknownFieldError{Field: f}
			}
		}
	}
	return q, pred, nil
}

func (e *Engine) searchFullText(ctx context.Context, q models.Query, pred filter.Expr) ([]models.SearchResult, error) {
	hits, err := e.retrieveText(ctx, q, pred, q.Offset+q.Limit)
	if err != nil {
		return nil, err
	}
	strategy := q.Rerank
	if strategy == nil {
		strategy = models.TextOnly{}
	}
	return rerank.Fuse(hits, nil, true, false, strategy)
}

func (e *Engine) searchSemantic(ctx context.Context, q models.Query, pred filter.Expr) ([]models.SearchResult, error) {
	vec, err := e.queryVector(ctx, q)
	if err != nil {
		return nil, err
	}
	hits, err := e.retrieveVector(ctx, vec, pred, q.Offset+q.Limit)
	if err != nil {
		return nil, err
	}
	strategy := q.Rerank
	if strategy == nil {
		strategy = models.VectorOnly{}
	}
	return rerank.Fuse(nil, hits, false, true, strategy)
}

// searchHybrid runs both retrieval paths concurrently and fuses the lists.
// Either path failing fails the whole request: a silently half-fused result
// would be indistinguishable from a correct one.
func (e *Engine) searchHybrid(ctx context.Context, q models.Query, pred filter.Expr) ([]models.SearchResult, error) {
	depth := e.candidateDepth(q)

	var textHits, vectorHits []models.RankedItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := e.retrieveText(gctx, q, pred, depth)
		if err != nil {
			return fmt.Errorf("text retrieval: %w", err)
		}
		textHits = hits
		return nil
	})
	g.Go(func() error {
		vec, err := e.queryVector(gctx, q)
		if err != nil {
			return err
		}
		hits, err := e.retrieveVector(gctx, vec, pred, depth)
		if err != nil {
			return fmt.Errorf("vector retrieval: %w", err)
		}
		vectorHits = hits
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	strategy := q.Rerank
	if strategy == nil {
		strategy = e.cfg.DefaultRerank()
	}
	return rerank.Fuse(textHits, vectorHits, true, true, strategy)
}

// candidateDepth is how far each path retrieves before fusion. Fusing from
// deeper lists lets an item ranked low in both lists still reach the first
// page, so the depth overshoots the requested window.
func (e *Engine) candidateDepth(q models.Query) int {
	depth := (q.Offset + q.Limit) * 2
	if depth < e.cfg.TopKCandidates {
		depth = e.cfg.TopKCandidates
	}
	return depth
}

func (e *Engine) retrieveText(ctx context.Context, q models.Query, pred filter.Expr, size int) ([]models.RankedItem, error) {
	if e.text == nil {
		return nil, models.ErrIndexUnavailable
	}
	return e.text.Search(ctx, textindex.SearchRequest{
		Text:   q.Text,
		Fields: q.SearchFields,
		Boosts: q.FieldBoosts,
		Filter: pred,
		Size:   size,
	})
}

func (e *Engine) retrieveVector(ctx context.Context, vec []float32, pred filter.Expr, k int) ([]models.RankedItem, error) {
	if e.vector == nil {
		return nil, models.ErrIndexUnavailable
	}
	return e.vector.Search(ctx, vec, k, pred)
}

// queryVector resolves the query embedding: a caller-supplied vector is
// dimension-checked, otherwise the text is embedded.
func (e *Engine) queryVector(ctx context.Context, q models.Query) ([]float32, error) {
	if len(q.Vector) > 0 {
		if e.vector != nil && len(q.Vector) != e.vector.Dimensions() {
			return nil, &models.DimensionMismatchError{Want: e.vector.Dimensions(), Got: len(q.Vector)}
		}
		return q.Vector, nil
	}
	if e.embedder == nil {
		return nil, models.ErrEmbeddingUnavailable
	}
	vec, err := e.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// window cuts the offset/limit page out of the fused list without touching
// the ranks already assigned.
func window(results []models.SearchResult, offset, limit int) []models.SearchResult {
	if offset >= len(results) {
		return []models.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
