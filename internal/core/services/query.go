package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// defaultPlannerTimeout bounds one planning call when no timeout is
// configured.
const defaultPlannerTimeout = 30 * time.Second

// QueryService compiles natural-language queries into plans and
// executes them. Compilation is evidence-gated: the planner only
// proposes, the filter schema decides, and anything that fails the
// schema compiles to a fail-closed plan instead of a guess.
type QueryService struct {
	planner        driven.Planner
	cache          driven.PlanCache
	store          driven.IndexStore
	plannerTimeout time.Duration
}

// NewQueryService creates the query service. The cache may be nil, in
// which case every compile invokes the planner.
func NewQueryService(planner driven.Planner, cache driven.PlanCache, store driven.IndexStore) *QueryService {
	return &QueryService{
		planner:        planner,
		cache:          cache,
		store:          store,
		plannerTimeout: defaultPlannerTimeout,
	}
}

// SetPlannerTimeout overrides the per-call planning timeout.
func (s *QueryService) SetPlannerTimeout(d time.Duration) {
	if d > 0 {
		s.plannerTimeout = d
	}
}

// Compile turns query text into a validated plan. The cache is
// consulted first; on a miss the planner proposes filters, each
// proposal is validated against the schema, and the result is cached.
// Planner failure or an invalid proposal yields a fail-closed plan with
// a diagnostic, never a partial plan.
func (s *QueryService) Compile(ctx context.Context, queryText string) (*domain.QueryPlan, error) {
	logger.Section("Compile")
	logger.Debug("Query: %q", queryText)

	if queryText == "" {
		return nil, fmt.Errorf("%w: empty query text", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx, queryText)
		if err != nil {
			return nil, fmt.Errorf("consulting plan cache: %w", err)
		}
		if found {
			logger.Debug("Plan cache hit: %s", cached.PlanHash)
			return cached, nil
		}
	}

	plannerCtx, cancel := context.WithTimeout(ctx, s.plannerTimeout)
	defer cancel()

	filters, err := s.planner.Propose(plannerCtx, queryText)
	if err != nil {
		logger.Warn("Planner %s failed: %v", s.planner.Name(), err)
		return failClosed(queryText, fmt.Sprintf("planner %s failed: %v", s.planner.Name(), err)), nil
	}

	for _, f := range filters {
		if err := f.Validate(); err != nil {
			logger.Warn("Planner %s proposed invalid filter: %v", s.planner.Name(), err)
			return failClosed(queryText, fmt.Sprintf("planner %s proposed invalid filter: %v", s.planner.Name(), err)), nil
		}
	}

	plan := &domain.QueryPlan{
		QueryText: queryText,
		Filters:   filters,
	}
	plan.PlanHash = plan.ComputeHash()
	logger.Debug("Compiled plan %s with %d filter(s)", plan.PlanHash, len(plan.Filters))

	// Fail-closed plans are not cached: a planner outage should not
	// pin future runs of the same query to failure.
	if s.cache != nil {
		if err := s.cache.Put(ctx, *plan); err != nil {
			return nil, fmt.Errorf("caching plan: %w", err)
		}
	}

	return plan, nil
}

// Query compiles and executes in one step. A fail-closed plan is
// returned alongside ErrPlanFailedClosed and is never executed. A valid
// plan with no filters executes and the result is marked unconstrained.
func (s *QueryService) Query(ctx context.Context, queryText string, limit int) (*domain.QueryPlan, *domain.CandidateSet, error) {
	plan, err := s.Compile(ctx, queryText)
	if err != nil {
		return nil, nil, err
	}

	if plan.FailedClosed() {
		return plan, nil, fmt.Errorf("%w: %s", domain.ErrPlanFailedClosed, plan.Diagnostic)
	}

	executed := *plan
	if limit > 0 {
		executed.Limit = limit
	}

	set, err := s.store.Execute(ctx, executed)
	if err != nil {
		return plan, nil, fmt.Errorf("executing plan %s: %w", plan.PlanHash, err)
	}

	if set.Unconstrained {
		logger.Warn("Query %q compiled to an unconstrained plan; returning a capped sample", queryText)
	}
	logger.Info("Query matched %d record(s)", set.TotalCount)
	return plan, set, nil
}

// failClosed builds the empty plan recording why compilation failed.
func failClosed(queryText, diagnostic string) *domain.QueryPlan {
	plan := &domain.QueryPlan{
		QueryText:  queryText,
		Diagnostic: diagnostic,
	}
	plan.PlanHash = plan.ComputeHash()
	return plan
}
