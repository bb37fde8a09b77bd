package domain

// Normalisation confidence levels. Exact parses sit at or above 0.95,
// heuristic parses in the 0.80-0.90 band, unresolved values at 0.
const (
	// ConfidenceExactYear is assigned to a bare four-digit year.
	ConfidenceExactYear = 0.99

	// ConfidenceBracketed is assigned to an uncertain bracketed year.
	ConfidenceBracketed = 0.95

	// ConfidenceCirca is assigned to an approximate "circa" date.
	ConfidenceCirca = 0.85

	// ConfidenceRange is assigned to an explicit year range.
	ConfidenceRange = 0.99

	// ConfidenceEmbedded is assigned to a year found inside free text.
	ConfidenceEmbedded = 0.90

	// ConfidenceCleaned is assigned to stage-A cleaning without an
	// alias resolution.
	ConfidenceCleaned = 0.80

	// ConfidenceAlias is assigned when a cleaned key resolves through
	// the alias table.
	ConfidenceAlias = 0.95
)

// MethodUnparsed tags a value no normalisation rule could interpret.
const MethodUnparsed = "unparsed"

// NormalizedField pairs a raw string with its computed normalized form,
// the method that produced it and a calibrated confidence in [0,1].
//
// Invariant: Normalized == nil requires Confidence == 0 and a
// human-readable reason in Method. The raw value is always retained.
type NormalizedField[T any] struct {
	// Raw is the source value, unchanged.
	Raw string `json:"raw"`

	// Normalized is the computed value, nil when unresolved.
	Normalized *T `json:"normalized"`

	// Method names the rule that produced the value, or the reason it
	// could not be produced.
	Method string `json:"method"`

	// Confidence is the calibrated certainty in [0,1].
	Confidence float64 `json:"confidence"`
}

// Resolved reports whether normalisation produced a value.
func (f NormalizedField[T]) Resolved() bool {
	return f.Normalized != nil
}

// Valid reports whether the field satisfies its invariants.
func (f NormalizedField[T]) Valid() bool {
	if f.Confidence < 0 || f.Confidence > 1 {
		return false
	}
	if f.Normalized == nil {
		return f.Confidence == 0 && f.Method != ""
	}
	return true
}

// YearRange is an inclusive span of years. A single year is represented
// as Start == End.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Intersects reports whether two year ranges overlap.
func (r YearRange) Intersects(other YearRange) bool {
	return r.Start <= other.End && r.End >= other.Start
}

// NormalizedImprint carries the normalized place, publisher and date for
// one canonical imprint, keyed by the same occurrence index.
type NormalizedImprint struct {
	Occurrence int                       `json:"occurrence"`
	Place      NormalizedField[string]   `json:"place"`
	Publisher  NormalizedField[string]   `json:"publisher"`
	Date       NormalizedField[YearRange] `json:"date"`
}

// NormalizedRecord is a CanonicalRecord plus normalized imprint fields.
// It is created once per canonical record, immutable after creation, and
// re-derivable at any time: no information exists only in normalized form.
type NormalizedRecord struct {
	// Canonical is the untouched source extraction.
	Canonical CanonicalRecord `json:"canonical"`

	// Imprints holds one normalized entry per canonical imprint, in the
	// same order.
	Imprints []NormalizedImprint `json:"imprints"`
}
