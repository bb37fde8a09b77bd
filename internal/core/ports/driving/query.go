package driving

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// QueryService compiles natural-language questions into query plans and
// executes them against the index store.
type QueryService interface {
	// Compile turns a natural-language query into a validated plan,
	// consulting the plan cache first. On planner or validation failure
	// the returned plan fails closed: empty filters plus a diagnostic,
	// never a guessed plan.
	Compile(ctx context.Context, queryText string) (*domain.QueryPlan, error)

	// Query compiles and executes in one step. A fail-closed plan is
	// returned with a nil candidate set and ErrPlanFailedClosed; an
	// empty-but-valid plan executes with the result marked
	// unconstrained.
	Query(ctx context.Context, queryText string, limit int) (*domain.QueryPlan, *domain.CandidateSet, error)
}
