package e2e

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stackfin/gitscout/internal/config"
	"github.com/stackfin/gitscout/internal/embedding"
	"github.com/stackfin/gitscout/internal/ingest"
	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/internal/search"
	"github.com/stackfin/gitscout/internal/storage"
	"github.com/stackfin/gitscout/internal/textindex"
	"github.com/stackfin/gitscout/internal/vectorindex"
)

const (
	e2eSearchLimit = 30
	e2eDimensions  = 16
)

type components struct {
	store   *storage.SQLiteStore
	text    *textindex.BleveIndex
	vector  *vectorindex.MemoryIndex
	engine  *search.Engine
	indexer *ingest.Indexer
}

func newComponents(t *testing.T) *components {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewSQLiteStore(filepath.Join(dir, "items.db"))
	if err != nil {
		t.Fatal(err)
	}
	text, err := textindex.NewBleveIndex(filepath.Join(dir, "bleve"))
	if err != nil {
		t.Fatal(err)
	}
	vector, err := vectorindex.NewMemoryIndex(e2eDimensions, vectorindex.FilterModePre)
	if err != nil {
		t.Fatal(err)
	}
	embedder := embedding.NewMockEmbedder(e2eDimensions)

	var cfg config.Config
	config.ApplyDefaults(&cfg)
	cfg.Search.TopKCandidates = 50

	c := &components{
		store:   store,
		text:    text,
		vector:  vector,
		engine:  search.NewEngine(text, vector, embedder, &cfg.Search, nil),
		indexer: ingest.NewIndexer(store, text, vector, embedder, nil),
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = text.Close()
		_ = vector.Close()
	})
	return c
}

func containsAny(got []models.SearchResult, expected []string) bool {
	set := make(map[string]bool, len(got))
	for _, r := range got {
		set[r.ItemID] = true
	}
	for _, id := range expected {
		if set[id] {
			return true
		}
	}
	return false
}

func TestEndToEnd_HybridSearch(t *testing.T) {
	c := newComponents(t)
	ctx := context.Background()

	corpus := BuildCorpus()
	if corpus.TotalItems == 0 || corpus.TotalQueries == 0 {
		t.Fatal("corpus is empty")
	}
	if err := c.indexer.IndexItems(ctx, corpus.Items); err != nil {
		t.Fatalf("index corpus: %v", err)
	}

	t.Logf("indexed %d items; running %d query test cases", corpus.TotalItems, corpus.TotalQueries)

	for _, tc := range corpus.TestCases {
		t.Run(tc.Description, func(t *testing.T) {
			q := models.Hybrid(tc.Query)
			q.Limit = e2eSearchLimit
			q.Rerank = models.RRF{K: models.DefaultRRFK}

			results, err := c.engine.Search(ctx, q)
			if err != nil {
				t.Fatalf("search failed: %v", err)
			}
			if !containsAny(results, tc.ExpectedItemIDs) {
				ids := make([]string, 0, len(results))
				for _, r := range results {
					ids = append(ids, r.ItemID)
				}
				t.Errorf("query %q: expected one of %v in results, got %v",
					tc.Query, tc.ExpectedItemIDs, ids)
			}
		})
	}
}

func TestEndToEnd_FilteredSearch(t *testing.T) {
	c := newComponents(t)
	ctx := context.Background()

	corpus := BuildCorpus()
	if err := c.indexer.IndexItems(ctx, corpus.Items); err != nil {
		t.Fatalf("index corpus: %v", err)
	}

	q := models.FullText("oauth token refresh")
	q.Limit = e2eSearchLimit
	q.Filter = "item_type = 'issue' AND state = 'open'"

	results, err := c.engine.Search(ctx, q)
	if err != nil {
		t.Fatalf("filtered search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results for open issues")
	}
	byID := corpus.itemByID()
	for _, r := range results {
		if r.ItemType != models.ItemTypeIssue {
			t.Errorf("result %s has type %s, want issue", r.ItemID, r.ItemType)
		}
		item, ok := byID[r.ItemID]
		if !ok {
			t.Errorf("result %s not in corpus", r.ItemID)
			continue
		}
		if item.Metadata()[models.FieldState] != "open" {
			t.Errorf("result %s is not open", r.ItemID)
		}
	}
}

func TestEndToEnd_DumpIngestion(t *testing.T) {
	c := newComponents(t)
	ctx := context.Background()

	dir := t.TempDir()
	corpus := BuildCorpus()
	raw, err := json.Marshal(corpus.ToDump())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "dump.json"), raw, 0644); err != nil {
		t.Fatal(err)
	}

	n, err := c.indexer.IngestDirectory(ctx, dir)
	if err != nil {
		t.Fatalf("ingest directory: %v", err)
	}
	if n != corpus.TotalItems {
		t.Fatalf("ingested %d items, want %d", n, corpus.TotalItems)
	}

	byType, err := c.store.CountByType(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := int64(len(corpusTopics))
	for _, tp := range []models.ItemType{models.ItemTypeIssue, models.ItemTypePullRequest, models.ItemTypeRepository} {
		if byType[tp] != want {
			t.Errorf("count[%s] = %d, want %d", tp, byType[tp], want)
		}
	}
	if c.vector.Size() != corpus.TotalItems {
		t.Errorf("vector index size = %d, want %d", c.vector.Size(), corpus.TotalItems)
	}

	// Ingested items must be searchable.
	q := models.Hybrid("memory leak in websocket handler")
	q.Limit = e2eSearchLimit
	results, err := c.engine.Search(ctx, q)
	if err != nil {
		t.Fatalf("search after ingest: %v", err)
	}
	if !containsAny(results, []string{"issue:1002", "pr:2002"}) {
		t.Error("expected the websocket leak issue or fix PR in results")
	}
}

func TestEndToEnd_SemanticDeterminism(t *testing.T) {
	c := newComponents(t)
	ctx := context.Background()

	corpus := BuildCorpus()
	if err := c.indexer.IndexItems(ctx, corpus.Items); err != nil {
		t.Fatal(err)
	}

	q := models.SemanticFromText("database connection timeout")
	q.Limit = 10

	first, err := c.engine.Search(ctx, q)
	if err != nil {
		t.Fatalf("semantic search: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected semantic results")
	}
	for i := 0; i < 3; i++ {
		again, err := c.engine.Search(ctx, q)
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d results, want %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j].ItemID != first[j].ItemID || again[j].Rank != first[j].Rank {
				t.Fatalf("run %d: result %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}
