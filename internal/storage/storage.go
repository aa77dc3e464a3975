// Package storage defines the persistence interface for processing history.
package storage

import (
	"context"

	"github.com/hyperjump/bunrui/internal/models"
)

// Storage persists outcomes and batch summaries.
type Storage interface {
	// Outcome operations
	SaveOutcome(ctx context.Context, batchID string, o *models.Outcome) error
	GetOutcome(ctx context.Context, id string) (*models.Outcome, error)
	ListOutcomes(ctx context.Context, offset, limit int) ([]*models.Outcome, error)

	// Batch operations
	SaveBatch(ctx context.Context, batch *models.BatchSummary) error
	GetBatch(ctx context.Context, id string) (*models.BatchSummary, error)
	ListBatches(ctx context.Context, offset, limit int) ([]*models.BatchSummary, error)

	// Stats
	CountOutcomes(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
	CountByCategory(ctx context.Context) (map[models.Category]int64, error)

	Close() error
}
