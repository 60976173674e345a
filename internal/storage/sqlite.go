package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stackfin/gitscout/internal/models"
)

// SQLiteStore implements Store using SQLite. The full item is kept as a JSON
// blob in the data column; commonly queried metadata is denormalized into its
// own columns for listing.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		item_type TEXT NOT NULL,
		repository TEXT,
		title TEXT,
		state TEXT,
		author TEXT,
		data TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_items_type ON items(item_type);
	CREATE INDEX IF NOT EXISTS idx_items_repository ON items(repository);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveItem inserts or replaces an item.
func (s *SQLiteStore) SaveItem(ctx context.Context, item models.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	meta := item.Metadata()
	title := itemTitle(item)
	now := time.Now()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO items (id, item_type, repository, title, state, author, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   item_type = excluded.item_type,
		   repository = excluded.repository,
		   title = excluded.title,
		   state = excluded.state,
		   author = excluded.author,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		item.FullID(), string(item.Type()), meta[models.FieldRepository],
		title, meta[models.FieldState], meta[models.FieldAuthor],
		string(data), now, now,
	)
	return err
}

// GetItem returns an item by its full ID (e.g. "issue:42").
func (s *SQLiteStore) GetItem(ctx context.Context, id string) (models.Item, error) {
	var itemType, data string
	err := s.db.QueryRowContext(ctx,
		`SELECT item_type, data FROM items WHERE id = ?`, id,
	).Scan(&itemType, &data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return decodeItem(models.ItemType(itemType), []byte(data))
}

// DeleteItem removes an item by ID.
func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	return err
}

// ListItems returns items of the given type ordered by update time. An empty
// itemType lists all types.
func (s *SQLiteStore) ListItems(ctx context.Context, itemType models.ItemType, offset, limit int) ([]models.Item, error) {
	query := `SELECT item_type, data FROM items`
	args := []any{}
	if itemType != "" {
		query += ` WHERE item_type = ?`
		args = append(args, string(itemType))
	}
	query += ` ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var rowType, data string
		if err := rows.Scan(&rowType, &data); err != nil {
			return nil, err
		}
		item, err := decodeItem(models.ItemType(rowType), []byte(data))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItems returns the total number of stored items.
func (s *SQLiteStore) CountItems(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count)
	return count, err
}

// CountByType returns per-type item counts.
func (s *SQLiteStore) CountByType(ctx context.Context) (map[models.ItemType]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_type, COUNT(*) FROM items GROUP BY item_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ItemType]int64)
	for rows.Next() {
		var itemType string
		var count int64
		if err := rows.Scan(&itemType, &count); err != nil {
			return nil, err
		}
		counts[models.ItemType(itemType)] = count
	}
	return counts, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// decodeItem unmarshals the stored JSON into the concrete type for its kind.
func decodeItem(itemType models.ItemType, data []byte) (models.Item, error) {
	switch itemType {
	case models.ItemTypeIssue:
		var issue models.Issue
		if err := json.Unmarshal(data, &issue); err != nil {
			return nil, fmt.Errorf("failed to unmarshal issue: %w", err)
		}
		return &issue, nil
	case models.ItemTypePullRequest:
		var pr models.PullRequest
		if err := json.Unmarshal(data, &pr); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pull request: %w", err)
		}
		return &pr, nil
	case models.ItemTypeRepository:
		var repo models.Repository
		if err := json.Unmarshal(data, &repo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal repository: %w", err)
		}
		return &repo, nil
	default:
		return nil, fmt.Errorf("unknown item type %q", itemType)
	}
}

func itemTitle(item models.Item) string {
	switch v := item.(type) {
	case *models.Issue:
		return v.Title
	case *models.PullRequest:
		return v.Title
	case *models.Repository:
		return v.FullName
	default:
		return ""
	}
}
