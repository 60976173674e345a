// Package storage persists corpus items in SQLite and provides disk usage
// helpers for the index paths.
package storage

import (
	"context"
	"errors"

	"github.com/stackfin/gitscout/internal/models"
)

// ErrNotFound is returned when an item ID has no stored row.
var ErrNotFound = errors.New("item not found")

// Store defines item persistence operations.
type Store interface {
	SaveItem(ctx context.Context, item models.Item) error
	GetItem(ctx context.Context, id string) (models.Item, error)
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, itemType models.ItemType, offset, limit int) ([]models.Item, error)

	CountItems(ctx context.Context) (int64, error)
	CountByType(ctx context.Context) (map[models.ItemType]int64, error)

	Close() error
}
