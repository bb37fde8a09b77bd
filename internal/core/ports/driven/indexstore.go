package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// IndexStore persists normalized records into a relational store with
// full-text indices and executes validated query plans against it.
// Backed by SQLite.
type IndexStore interface {
	// SaveRecords loads a batch of normalized records atomically:
	// relational rows and full-text index rows commit together, so no
	// partial-index state is ever visible to readers.
	SaveRecords(ctx context.Context, records []domain.NormalizedRecord) error

	// GetRecord retrieves one normalized record by ID.
	GetRecord(ctx context.Context, id string) (*domain.NormalizedRecord, error)

	// CountRecords returns the number of indexed records.
	CountRecords(ctx context.Context) (int, error)

	// Execute runs a validated query plan and returns the candidate set
	// with one evidence entry per contributing filter per candidate.
	// Filters combine with logical AND; OR and NOT are unsupported.
	Execute(ctx context.Context, plan domain.QueryPlan) (*domain.CandidateSet, error)

	// Close releases resources.
	Close() error
}
