// Package textindex provides lexical full-text retrieval over GitHub items.
package textindex

import (
	"context"
	"strings"

	"github.com/stackfin/gitscout/internal/filter"
	"github.com/stackfin/gitscout/internal/models"
)

// SearchRequest carries the parameters of one lexical retrieval call.
type SearchRequest struct {
	// Text is the query. Double-quoted segments are matched as exact
	// phrases (contiguous token sequences); everything else is matched
	// as independent terms.
	Text string
	// Fields restricts matching to these text fields; empty means all
	// searchable fields.
	Fields []string
	// Boosts multiplies each field's score contribution; fields not
	// listed use 1.0.
	Boosts map[string]float64
	// Filter restricts hits by metadata columns; nil means no filter.
	Filter filter.Expr
	// Size caps the number of hits.
	Size int
}

// TextIndex is the inverted-index provider contract. Implementations are
// read-only at query time and safe for concurrent searches.
type TextIndex interface {
	Index(ctx context.Context, item models.Item) error
	// Search returns hits ranked by descending raw relevance with
	// Source set to text. A missing or unbuilt index yields
	// models.ErrIndexUnavailable, distinct from zero hits.
	Search(ctx context.Context, req SearchRequest) ([]models.RankedItem, error)
	Delete(ctx context.Context, id string) error
	DocCount() (uint64, error)
	Close() error
}

// splitQuery separates double-quoted phrases from bare terms. A quoted
// phrase changes matching semantics (contiguous tokens), not just scoring,
// so the engine must recognize it rather than hand the raw string down.
func splitQuery(text string) (terms string, phrases []string) {
	var bare []string
	rest := text
	for {
		start := strings.IndexByte(rest, '"')
		if start < 0 {
			bare = append(bare, rest)
			break
		}
		end := strings.IndexByte(rest[start+1:], '"')
		if end < 0 {
			// Unbalanced quote: treat the remainder as bare terms.
			bare = append(bare, strings.ReplaceAll(rest, `"`, " "))
			break
		}
		bare = append(bare, rest[:start])
		if p := strings.TrimSpace(rest[start+1 : start+1+end]); p != "" {
			phrases = append(phrases, p)
		}
		rest = rest[start+end+2:]
	}
	return strings.TrimSpace(strings.Join(bare, " ")), phrases
}
