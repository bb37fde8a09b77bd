package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// FilterField identifies a queryable field. The set is closed: the
// executor matches over it exhaustively, so an unsupported field is a
// validation failure, never a silent fallback.
type FilterField string

// Queryable fields.
const (
	FieldDate      FilterField = "date"
	FieldPlace     FilterField = "place"
	FieldPublisher FilterField = "publisher"
	FieldLanguage  FilterField = "language"
	FieldTitle     FilterField = "title"
	FieldSubject   FilterField = "subject"
)

// FilterOp is a comparison operator. OR and NOT are deliberately absent:
// filters combine with logical AND only.
type FilterOp string

// Supported operators.
const (
	OpEquals   FilterOp = "equals"
	OpContains FilterOp = "contains"
	OpBetween  FilterOp = "between"
)

// Filter is one typed predicate in a query plan. Value carries the
// comparison text for EQUALS and CONTAINS; Start and End carry the
// inclusive year bounds for BETWEEN.
type Filter struct {
	Field FilterField `json:"field"`
	Op    FilterOp    `json:"op"`
	Value string      `json:"value,omitempty"`
	Start int         `json:"start,omitempty"`
	End   int         `json:"end,omitempty"`
}

// Validate checks a filter against the closed field/operator schema.
func (f Filter) Validate() error {
	switch f.Field {
	case FieldDate:
		if f.Op != OpBetween {
			return fmt.Errorf("%w: date supports only %q", ErrInvalidFilter, OpBetween)
		}
		if f.Start > f.End {
			return fmt.Errorf("%w: date range start %d after end %d", ErrInvalidFilter, f.Start, f.End)
		}
		if f.Start < 0 || f.End > 9999 {
			return fmt.Errorf("%w: date range %d-%d outside 0-9999", ErrInvalidFilter, f.Start, f.End)
		}
	case FieldLanguage:
		if f.Op != OpEquals {
			return fmt.Errorf("%w: language supports only %q", ErrInvalidFilter, OpEquals)
		}
		if len(f.Value) != 3 {
			return fmt.Errorf("%w: language code %q is not a three-letter code", ErrInvalidFilter, f.Value)
		}
	case FieldPlace, FieldPublisher, FieldTitle, FieldSubject:
		if f.Op != OpContains {
			return fmt.Errorf("%w: %s supports only %q", ErrInvalidFilter, f.Field, OpContains)
		}
		if f.Value == "" {
			return fmt.Errorf("%w: %s filter has empty value", ErrInvalidFilter, f.Field)
		}
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, f.Field)
	}
	return nil
}

// QueryPlan is the validated, structured representation of one
// natural-language query. An empty filter list is a valid plan for a
// low-specificity query; a non-empty Diagnostic marks a fail-closed plan
// that must not be executed.
type QueryPlan struct {
	// QueryText is the original natural-language query.
	QueryText string `json:"query_text"`

	// Filters are the typed predicates, combined with AND.
	Filters []Filter `json:"filters"`

	// Limit caps the number of candidates returned.
	Limit int `json:"limit"`

	// PlanHash is the deterministic hash of (query_text, filters), used
	// for cache lookups and reproducibility checks.
	PlanHash string `json:"plan_hash"`

	// Diagnostic explains why planning failed closed. Empty on valid
	// plans.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// FailedClosed reports whether this plan is the fail-closed result of a
// planning or validation failure.
func (p QueryPlan) FailedClosed() bool {
	return p.Diagnostic != ""
}

// ComputeHash returns the deterministic hash of the plan's query text
// and filters. Filter order is significant.
func (p QueryPlan) ComputeHash() string {
	h := sha256.New()
	h.Write([]byte(p.QueryText))
	h.Write([]byte{0})
	// Filters marshal with fixed field order, so the digest is stable.
	data, err := json.Marshal(p.Filters)
	if err == nil {
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashQueryText returns the content hash used to key the plan cache.
func HashQueryText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
