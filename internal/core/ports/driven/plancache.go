package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// PlanCache is a durable, append-only store mapping query text to
// previously compiled plans. It is consulted before invoking the
// planner.
//
// Implementations must support concurrent readers during appends.
// Two processes compiling the same never-before-seen query may both
// append; the duplicate is benign, not a correctness violation.
type PlanCache interface {
	// Get returns the cached plan for the query text, or found=false.
	Get(ctx context.Context, queryText string) (plan *domain.QueryPlan, found bool, err error)

	// Put appends a compiled plan. Appends never overwrite earlier
	// entries.
	Put(ctx context.Context, plan domain.QueryPlan) error
}
