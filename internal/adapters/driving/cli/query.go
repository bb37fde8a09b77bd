package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
)

var (
	queryDB    string
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Answer a natural-language query with evidence-backed candidates",
	Long: `Compiles the query into a typed filter plan (consulting the plan
cache first) and executes it against the index. Every candidate comes
with the stored values that satisfied each filter. A query that cannot
be compiled safely fails closed with a diagnostic instead of guessing.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryDB, "db", "", "index database path (default from config)")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 20, "maximum number of candidates")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output plan and candidates as JSON")
	rootCmd.AddCommand(queryCmd)
}

// queryResult is the JSON output envelope.
type queryResult struct {
	Plan       *domain.QueryPlan    `json:"plan"`
	Candidates *domain.CandidateSet `json:"candidates,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, store, err := buildQueryService(cfg, queryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	plan, set, err := svc.Query(cmd.Context(), args[0], queryLimit)
	if errors.Is(err, domain.ErrPlanFailedClosed) {
		// The diagnostic is printed on both surfaces, but the command
		// still fails so callers checking the exit code see it too.
		if queryJSON {
			if jsonErr := outputQueryJSON(cmd, plan, nil); jsonErr != nil {
				return jsonErr
			}
			return err
		}
		cmd.Printf("Query could not be compiled safely: %s\n", plan.Diagnostic)
		cmd.Println("No records were searched.")
		return err
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, plan, set)
	}
	return outputQueryText(cmd, plan, set)
}

func outputQueryJSON(cmd *cobra.Command, plan *domain.QueryPlan, set *domain.CandidateSet) error {
	data, err := json.MarshalIndent(queryResult{Plan: plan, Candidates: set}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, plan *domain.QueryPlan, set *domain.CandidateSet) error {
	cmd.Printf("Plan %s: %d filter(s)\n", shortHash(plan.PlanHash), len(plan.Filters))
	for _, f := range plan.Filters {
		switch f.Op {
		case domain.OpBetween:
			cmd.Printf("  %s %s %d-%d\n", f.Field, f.Op, f.Start, f.End)
		default:
			cmd.Printf("  %s %s %q\n", f.Field, f.Op, f.Value)
		}
	}

	if set.Unconstrained {
		cmd.Println()
		cmd.Println("Warning: no filters could be derived; showing a capped sample.")
	}

	cmd.Println()
	if len(set.Candidates) == 0 {
		cmd.Println("No matching records.")
		return nil
	}

	cmd.Printf("%d matching record(s), showing %d:\n\n", set.TotalCount, len(set.Candidates))
	for i, c := range set.Candidates {
		cmd.Printf("  [%d] %s\n", i+1, c.RecordID)
		if c.MatchRationale != "" {
			cmd.Printf("      %s\n", c.MatchRationale)
		}
		for _, ev := range c.Evidence {
			cmd.Printf("      %s = %q (%s %q)\n", ev.Field, ev.Value, ev.Operator, ev.MatchedAgainst)
		}
		cmd.Println()
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
