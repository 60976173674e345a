package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stackfin/gitscout/internal/embedding"
	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/internal/storage"
	"github.com/stackfin/gitscout/internal/textindex"
	"github.com/stackfin/gitscout/internal/vectorindex"
)

func newTestIndexer(t *testing.T) (*Indexer, storage.Store, textindex.TextIndex, vectorindex.VectorIndex) {
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
	vector, err := vectorindex.NewMemoryIndex(16, vectorindex.FilterModePre)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		store.Close()
		text.Close()
		vector.Close()
	})

	ix := NewIndexer(store, text, vector, embedding.NewMockEmbedder(16), nil)
	return ix, store, text, vector
}

func writeDump(t *testing.T, path string, dump Dump) {
	t.Helper()
	data, err := json.Marshal(dump)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func sampleDump() Dump {
	return Dump{
		Issues: []models.Issue{
			{ID: 1, Repository: "acme/api", Number: 12, Title: "Timeout talking to billing", State: "open", Author: "carol"},
		},
		PullRequests: []models.PullRequest{
			{ID: 2, Repository: "acme/api", Number: 13, Title: "Retry billing requests", State: "open", Author: "dave"},
		},
		Repositories: []models.Repository{
			{ID: 3, Owner: "acme", Name: "api", FullName: "acme/api", Language: "Go"},
		},
	}
}

func TestIngestFile(t *testing.T) {
	ix, store, text, vector := newTestIndexer(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "dump.json")
	writeDump(t, path, sampleDump())

	n, err := ix.IngestFile(ctx, path)
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if n != 3 {
		t.Errorf("ingested %d items, want 3", n)
	}

	count, err := store.CountItems(ctx)
	if err != nil || count != 3 {
		t.Errorf("store count = %d (%v), want 3", count, err)
	}
	docs, err := text.DocCount()
	if err != nil || docs != 3 {
		t.Errorf("text index count = %d (%v), want 3", docs, err)
	}
	if vector.Size() != 3 {
		t.Errorf("vector index size = %d, want 3", vector.Size())
	}

	hits, err := text.Search(ctx, textindex.SearchRequest{Text: "billing", Size: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 {
		t.Error("ingested items should be searchable")
	}
}

func TestIngestFileBadJSON(t *testing.T) {
	ix, _, _, _ := newTestIndexer(t)
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ix.IngestFile(context.Background(), path); err == nil {
		t.Error("malformed dump should fail")
	}
}

func TestIngestDirectorySkipsNonJSON(t *testing.T) {
	ix, store, _, _ := newTestIndexer(t)
	ctx := context.Background()
	dir := t.TempDir()

	writeDump(t, filepath.Join(dir, "a.json"), Dump{
		Issues: []models.Issue{{ID: 10, Repository: "x/y", Number: 1, Title: "first", State: "open", Author: "a"}},
	})
	writeDump(t, filepath.Join(dir, "b.json"), Dump{
		Issues: []models.Issue{{ID: 11, Repository: "x/y", Number: 2, Title: "second", State: "open", Author: "b"}},
	})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := ix.IngestDirectory(ctx, dir)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if n != 2 {
		t.Errorf("ingested %d items, want 2", n)
	}
	count, _ := store.CountItems(ctx)
	if count != 2 {
		t.Errorf("store count = %d, want 2", count)
	}
}

func TestDeleteItem(t *testing.T) {
	ix, store, text, vector := newTestIndexer(t)
	ctx := context.Background()

	issue := &models.Issue{ID: 5, Repository: "x/y", Number: 9, Title: "stale cache", State: "open", Author: "z"}
	if err := ix.IndexItem(ctx, issue); err != nil {
		t.Fatalf("IndexItem: %v", err)
	}
	if err := ix.DeleteItem(ctx, "issue:5"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if _, err := store.GetItem(ctx, "issue:5"); err == nil {
		t.Error("item should be gone from storage")
	}
	docs, _ := text.DocCount()
	if docs != 0 {
		t.Errorf("text index count = %d, want 0", docs)
	}
	if vector.Size() != 0 {
		t.Errorf("vector index size = %d, want 0", vector.Size())
	}
}

func TestWatcherIngestsNewDump(t *testing.T) {
	dir := t.TempDir()
	ingested := make(chan string, 1)

	w := NewWatcher([]string{dir}, func(path string) {
		select {
		case ingested <- path:
		default:
		}
	}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "fresh.json")
	writeDump(t, path, Dump{Issues: []models.Issue{{ID: 1, Title: "t", State: "open"}}})

	select {
	case got := <-ingested:
		if got != path {
			t.Errorf("ingest callback got %s, want %s", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the new dump")
	}
}

func TestWatcherIgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	ingested := make(chan string, 1)

	w := NewWatcher([]string{dir}, func(path string) { ingested <- path }, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-ingested:
		t.Errorf("non-json file should be ignored, got %s", got)
	case <-time.After(time.Second):
	}
}
