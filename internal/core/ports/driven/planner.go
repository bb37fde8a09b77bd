package driven

import (
	"context"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// Planner proposes candidate filters for a natural-language query.
//
// A planner is never trusted as authority: its output passes through the
// compiler's schema validation gate, and any error or malformed proposal
// resolves to a fail-closed empty plan. Implementations may be
// deterministic rule sets or schema-constrained external models; either
// substitutes without changing the contract.
type Planner interface {
	// Propose returns candidate filters for the query text. The call
	// must honour context cancellation; external-model implementations
	// are expected to block and must carry a bounded timeout.
	Propose(ctx context.Context, queryText string) ([]domain.Filter, error)

	// Name identifies the planner in diagnostics.
	Name() string
}
