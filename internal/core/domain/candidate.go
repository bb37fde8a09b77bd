package domain

// Evidence is a field-level proof that links a match to the specific
// stored value that satisfied a filter.
type Evidence struct {
	// Field names the exact normalized-or-raw field that matched,
	// e.g. "imprint.publisher.normalized" or "language.code".
	Field string `json:"field"`

	// Value is the stored value that satisfied the filter.
	Value string `json:"value"`

	// Operator is the filter operator that was satisfied.
	Operator FilterOp `json:"operator"`

	// MatchedAgainst is the filter's comparison value.
	MatchedAgainst string `json:"matched_against"`
}

// Candidate is one matching record with its evidence. A candidate with
// an empty evidence list is a defect: every filter that contributed to
// inclusion must produce at least one entry.
type Candidate struct {
	RecordID       string     `json:"record_id"`
	MatchRationale string     `json:"match_rationale"`
	Evidence       []Evidence `json:"evidence"`
}

// CandidateSet is the result of executing one query plan.
type CandidateSet struct {
	// QueryText is the originating natural-language query.
	QueryText string `json:"query_text"`

	// GeneratedQuery is the query text the executor ran against the
	// store, kept for traceability.
	GeneratedQuery string `json:"generated_query"`

	// TotalCount is the number of matching records before the limit.
	TotalCount int `json:"total_count"`

	// Unconstrained marks a result produced from an empty filter list.
	// Such a result is never a silent dump of the collection.
	Unconstrained bool `json:"unconstrained,omitempty"`

	// Candidates are the matching records, capped by the plan limit.
	Candidates []Candidate `json:"candidates"`
}
