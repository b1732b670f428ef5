package catalog

import (
	"context"
)

// CategoryRepository defines the persistence operations for categories
type CategoryRepository interface {
	// FindByID finds a category by its ERP identifier
	FindByID(ctx context.Context, id string) (*Category, error)

	// FindAll returns every mirrored category
	FindAll(ctx context.Context) ([]Category, error)

	// FindChildren returns the direct children of a category
	FindChildren(ctx context.Context, parentID string) ([]Category, error)

	// FindRoots returns all categories without a parent
	FindRoots(ctx context.Context) ([]Category, error)

	// ValidIDs returns the set of category IDs currently present
	ValidIDs(ctx context.Context) (map[string]struct{}, error)

	// Save creates or updates a single category
	Save(ctx context.Context, category *Category) error

	// UpsertBatch inserts or updates categories keyed by their ERP ID.
	// It never deletes rows absent from the batch.
	UpsertBatch(ctx context.Context, categories []*Category) error

	// Count returns the number of mirrored categories
	Count(ctx context.Context) (int64, error)
}
