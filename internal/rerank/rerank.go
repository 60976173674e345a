// Package rerank fuses the ranked lists produced by the text and vector
// retrieval paths into one ordered result list.
package rerank

import (
	"fmt"
	"sort"

	"github.com/stackfin/gitscout/internal/models"
)

// fused accumulates one distinct item's contribution from both lists.
// order is the insertion position (text list first, then vector-only items
// in vector-list order), which makes tie-breaking independent of which
// retrieval call finished first.
type fused struct {
	id          string
	score       float64
	textScore   float64
	vectorScore float64
	textRank    int // 0 = absent
	vectorRank  int // 0 = absent
	order       int
	highlights  []models.Highlight
}

// bestRank returns the item's lowest rank across the lists it appears in.
func (f *fused) bestRank() int {
	switch {
	case f.textRank == 0:
		return f.vectorRank
	case f.vectorRank == 0:
		return f.textRank
	case f.textRank < f.vectorRank:
		return f.textRank
	default:
		return f.vectorRank
	}
}

// Fuse merges the two ranked lists according to strategy and returns the
// fused list ordered by descending score, with dense 1-based ranks.
// textRetrieved and vectorRetrieved report whether each path was actually
// invoked; a passthrough strategy naming a list that was not retrieved is a
// configuration error, not an empty result.
func Fuse(text, vector []models.RankedItem, textRetrieved, vectorRetrieved bool, strategy models.RerankStrategy) ([]models.SearchResult, error) {
	if strategy == nil {
		strategy = models.DefaultRerank()
	}
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	switch s := strategy.(type) {
	case models.TextOnly:
		if !textRetrieved {
			return nil, &models.StrategyMismatchError{Strategy: "text_only", Missing: models.SourceText}
		}
		return passthrough(text), nil
	case models.VectorOnly:
		if !vectorRetrieved {
			return nil, &models.StrategyMismatchError{Strategy: "vector_only", Missing: models.SourceVector}
		}
		return passthrough(vector), nil
	case models.RRF:
		entries := collect(text, vector)
		for _, e := range entries {
			if e.textRank > 0 {
				e.score += 1.0 / (s.K + float64(e.textRank))
			}
			if e.vectorRank > 0 {
				e.score += 1.0 / (s.K + float64(e.vectorRank))
			}
		}
		return finalize(entries), nil
	case models.Linear:
		entries := collect(text, vector)
		maxText := maxRawScore(text)
		maxVector := maxRawScore(vector)
		for _, e := range entries {
			var nt, nv float64
			if maxText > 0 {
				nt = e.textScore / maxText
			}
			if maxVector > 0 {
				nv = e.vectorScore / maxVector
			}
			e.score = s.TextWeight*nt + s.VectorWeight*nv
		}
		return finalize(entries), nil
	default:
		// Unreachable: the strategy set is closed.
		return nil, fmt.Errorf("unsupported rerank strategy %T", strategy)
	}
}

// collect builds the union of both lists, preserving insertion order.
func collect(text, vector []models.RankedItem) []*fused {
	byID := make(map[string]*fused, len(text)+len(vector))
	entries := make([]*fused, 0, len(text)+len(vector))
	for _, it := range text {
		e := &fused{
			id:         it.ItemID,
			textScore:  it.RawScore,
			textRank:   it.Rank,
			order:      len(entries),
			highlights: it.Highlights,
		}
		byID[it.ItemID] = e
		entries = append(entries, e)
	}
	for _, it := range vector {
		if e, ok := byID[it.ItemID]; ok {
			e.vectorScore = it.RawScore
			e.vectorRank = it.Rank
			continue
		}
		e := &fused{
			id:          it.ItemID,
			vectorScore: it.RawScore,
			vectorRank:  it.Rank,
			order:       len(entries),
		}
		byID[it.ItemID] = e
		entries = append(entries, e)
	}
	return entries
}

func maxRawScore(items []models.RankedItem) float64 {
	var max float64
	for _, it := range items {
		if it.RawScore > max {
			max = it.RawScore
		}
	}
	return max
}

// finalize orders entries by descending score; ties break by best (lowest)
// rank across lists, then by insertion order for full determinism.
func finalize(entries []*fused) []models.SearchResult {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if ar, br := a.bestRank(), b.bestRank(); ar != br {
			return ar < br
		}
		return a.order < b.order
	})
	out := make([]models.SearchResult, len(entries))
	for i, e := range entries {
		out[i] = models.SearchResult{
			ItemID:     e.id,
			ItemType:   models.ItemTypeFromID(e.id),
			Score:      e.score,
			Rank:       i + 1,
			Highlights: e.highlights,
		}
	}
	return out
}

// passthrough converts one list to results, keeping raw scores and order.
func passthrough(items []models.RankedItem) []models.SearchResult {
	out := make([]models.SearchResult, len(items))
	for i, it := range items {
		out[i] = models.SearchResult{
			ItemID:     it.ItemID,
			ItemType:   models.ItemTypeFromID(it.ItemID),
			Score:      it.RawScore,
			Rank:       i + 1,
			Highlights: it.Highlights,
		}
	}
	return out
}
