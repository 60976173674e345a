// Package ingest loads GitHub item dumps into storage and both search
// indices, and can watch dump directories for changes.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/stackfin/gitscout/internal/embedding"
	"github.com/stackfin/gitscout/internal/metrics"
	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/internal/storage"
	"github.com/stackfin/gitscout/internal/textindex"
	"github.com/stackfin/gitscout/internal/vectorindex"
)

// Dump is the on-disk shape of an export file: one JSON object holding any
// mix of the three item kinds.
type Dump struct {
	Issues       []models.Issue       `json:"issues,omitempty"`
	PullRequests []models.PullRequest `json:"pull_requests,omitempty"`
	Repositories []models.Repository  `json:"repositories,omitempty"`
}

// Items flattens the dump into the interface list, issues first.
func (d *Dump) Items() []models.Item {
	items := make([]models.Item, 0, len(d.Issues)+len(d.PullRequests)+len(d.Repositories))
	for i := range d.Issues {
		items = append(items, &d.Issues[i])
	}
	for i := range d.PullRequests {
		items = append(items, &d.PullRequests[i])
	}
	for i := range d.Repositories {
		items = append(items, &d.Repositories[i])
	}
	return items
}

// Indexer writes items to storage, the text index, and the vector index.
type Indexer struct {
	store    storage.Store
	text     textindex.TextIndex
	vector   vectorindex.VectorIndex
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewIndexer creates an indexer with the given dependencies.
func NewIndexer(
	store storage.Store,
	text textindex.TextIndex,
	vector vectorindex.VectorIndex,
	embedder embedding.Embedder,
	logger *zap.Logger,
) *Indexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Indexer{store: store, text: text, vector: vector, embedder: embedder, logger: logger}
}

// IndexItem stores and indexes a single item in all three backends.
func (ix *Indexer) IndexItem(ctx context.Context, item models.Item) error {
	return ix.IndexItems(ctx, []models.Item{item})
}

// IndexItems stores and indexes a batch, embedding all texts in one call.
func (ix *Indexer) IndexItems(ctx context.Context, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.SearchableContent()
	}
	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed items: %w", err)
	}

	ids := make([]string, len(items))
	meta := make([]map[string]string, len(items))
	for i, item := range items {
		if err := ix.store.SaveItem(ctx, item); err != nil {
			return fmt.Errorf("failed to store %s: %w", item.FullID(), err)
		}
		if err := ix.text.Index(ctx, item); err != nil {
			return fmt.Errorf("failed to index %s: %w", item.FullID(), err)
		}
		ids[i] = item.FullID()
		meta[i] = item.Metadata()
	}
	if err := ix.vector.Add(ctx, ids, vectors, meta); err != nil {
		return fmt.Errorf("failed to index vectors: %w", err)
	}

	for _, item := range items {
		metrics.IndexedItemsTotal.WithLabelValues(string(item.Type())).Inc()
	}
	ix.logger.Debug("items indexed", zap.Int("count", len(items)))
	return nil
}

// DeleteItem removes an item from all three backends.
func (ix *Indexer) DeleteItem(ctx context.Context, id string) error {
	if err := ix.text.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from text index: %w", err)
	}
	if err := ix.vector.Remove(ctx, []string{id}); err != nil {
		return fmt.Errorf("failed to delete from vector index: %w", err)
	}
	if err := ix.store.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from storage: %w", err)
	}
	ix.logger.Debug("item deleted", zap.String("id", id))
	return nil
}

// IngestFile parses one dump file and indexes its items. Returns the number
// of items indexed.
func (ix *Indexer) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read dump: %w", err)
	}
	var dump Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		return 0, fmt.Errorf("failed to parse dump %s: %w", path, err)
	}
	items := dump.Items()
	if err := ix.IndexItems(ctx, items); err != nil {
		return 0, err
	}
	ix.logger.Info("dump ingested", zap.String("path", path), zap.Int("items", len(items)))
	return len(items), nil
}

// IngestDirectory ingests every .json file directly under dir. Returns the
// total number of items indexed and the first error encountered.
func (ix *Indexer) IngestDirectory(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read dump directory: %w", err)
	}
	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		n, err := ix.IngestFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
