package textindex

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/stackfin/gitscout/internal/filter"
	"github.com/stackfin/gitscout/internal/models"
)

// BleveIndex implements TextIndex using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index is
// reused so incremental ingest does not re-index unchanged items. Text
// fields use the standard analyzer (lowercase + tokenize, no stemming);
// metadata columns use the keyword analyzer so filter values match exactly.
func NewBleveIndex(path string) (*BleveIndex, error) {
	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	for _, f := range models.SearchableFields() {
		docMapping.AddFieldMappingsAt(f, textFieldMapping)
	}

	metaFieldMapping := bleve.NewTextFieldMapping()
	metaFieldMapping.Analyzer = keyword.Name
	for _, f := range models.FilterFields() {
		docMapping.AddFieldMappingsAt(f, metaFieldMapping)
	}

	im.DefaultMapping = docMapping

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// Index indexes one item under its full ID.
func (b *BleveIndex) Index(ctx context.Context, item models.Item) error {
	if b.index == nil {
		return models.ErrIndexUnavailable
	}
	return b.index.Index(item.FullID(), indexDoc(item))
}

// indexDoc flattens an item into the indexed field set: the searchable text
// fields plus the filterable metadata columns.
func indexDoc(item models.Item) map[string]interface{} {
	doc := make(map[string]interface{})
	for k, v := range item.Metadata() {
		doc[k] = v
	}
	switch it := item.(type) {
	case *models.Issue:
		doc[models.FieldTitle] = it.Title
		doc[models.FieldBody] = it.Body
		doc[models.FieldLabels] = it.LabelNames()
	case *models.PullRequest:
		doc[models.FieldTitle] = it.Title
		doc[models.FieldBody] = it.Body
		doc[models.FieldLabels] = it.LabelNames()
	case *models.Repository:
		doc[models.FieldTitle] = it.FullName
		doc[models.FieldBody] = it.Description
		doc[models.FieldLabels] = strings.Join(it.Topics, " ")
	}
	return doc
}

// Search runs the lexical query and returns ranked hits with bounded
// highlight fragments per matching field.
func (b *BleveIndex) Search(ctx context.Context, req SearchRequest) ([]models.RankedItem, error) {
	if b.index == nil {
		return nil, models.ErrIndexUnavailable
	}

	fields := req.Fields
	if len(fields) == 0 {
		fields = models.SearchableFields()
	}

	terms, phrases := splitQuery(req.Text)

	// One match (and phrase) query per field so each field's contribution
	// can carry its own boost; a hit on any field qualifies.
	var perField []blevequery.Query
	for _, f := range fields {
		boost := 1.0
		if req.Boosts != nil {
			if bv, ok := req.Boosts[f]; ok {
				boost = bv
			}
		}
		if terms != "" {
			mq := bleve.NewMatchQuery(terms)
			mq.SetField(f)
			mq.SetBoost(boost)
			perField = append(perField, mq)
		}
		for _, phrase := range phrases {
			pq := bleve.NewMatchPhraseQuery(phrase)
			pq.SetField(f)
			pq.SetBoost(boost)
			perField = append(perField, pq)
		}
	}
	if len(perField) == 0 {
		return nil, nil
	}

	var q blevequery.Query = bleve.NewDisjunctionQuery(perField...)
	if req.Filter != nil {
		q = bleve.NewConjunctionQuery(q, filterQuery(req.Filter))
	}

	size := req.Size
	if size <= 0 {
		size = 10
	}
	search := bleve.NewSearchRequestOptions(q, size, 0, false)
	search.Highlight = bleve.NewHighlight()

	results, err := b.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	out := make([]models.RankedItem, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = models.RankedItem{
			ItemID:     hit.ID,
			RawScore:   hit.Score,
			Rank:       i + 1,
			Source:     models.SourceText,
			Highlights: orderedHighlights(hit.Fragments, fields),
		}
	}
	return out, nil
}

// orderedHighlights flattens bleve fragments into a stable field order.
// Fields with no match contribute nothing.
func orderedHighlights(fragments map[string][]string, fields []string) []models.Highlight {
	if len(fragments) == 0 {
		return nil
	}
	var out []models.Highlight
	for _, f := range fields {
		for _, frag := range fragments[f] {
			out = append(out, models.Highlight{Field: f, Snippet: frag})
		}
	}
	return out
}

// filterQuery translates a metadata predicate into bleve term queries.
// Metadata columns are indexed with the keyword analyzer, so term queries
// match the stored value exactly.
func filterQuery(expr filter.Expr) blevequery.Query {
	switch e := expr.(type) {
	case *filter.Comparison:
		tq := bleve.NewTermQuery(e.Value)
		tq.SetField(e.Field)
		if e.Op == filter.OpEq {
			return tq
		}
		bq := bleve.NewBooleanQuery()
		bq.AddMust(bleve.NewMatchAllQuery())
		bq.AddMustNot(tq)
		return bq
	case *filter.And:
		return bleve.NewConjunctionQuery(filterQuery(e.Left), filterQuery(e.Right))
	case *filter.Or:
		return bleve.NewDisjunctionQuery(filterQuery(e.Left), filterQuery(e.Right))
	default:
		return bleve.NewMatchAllQuery()
	}
}

// Delete removes an item from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	if b.index == nil {
		return models.ErrIndexUnavailable
	}
	return b.index.Delete(id)
}

// DocCount returns the number of indexed items.
func (b *BleveIndex) DocCount() (uint64, error) {
	if b.index == nil {
		return 0, models.ErrIndexUnavailable
	}
	return b.index.DocCount()
}

// Close closes the underlying index.
func (b *BleveIndex) Close() error {
	if b.index == nil {
		return nil
	}
	return b.index.Close()
}
