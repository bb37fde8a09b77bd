package normalise

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// circaWindow is the half-width of the year window for approximate dates.
const circaWindow = 5

// Date rule patterns. Applied to the trimmed raw string in fixed
// priority order; the first match wins.
var (
	exactYearRe = regexp.MustCompile(`^(\d{4})$`)
	bracketedRe = regexp.MustCompile(`^\[(\d{4})\??\]$`)
	circaRe     = regexp.MustCompile(`(?i)^(?:circa|ca\.?|c\.)\s*\[?(\d{4})\]?\??$`)
	rangeRe     = regexp.MustCompile(`^(\d{4})\s*[-–]\s*(\d{4})$`)
	embeddedRe  = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)
)

// NormaliseDate computes the year range for a raw imprint date string.
// The raw value is retained unchanged in the result regardless of
// outcome.
//
// Rules, in priority order: exact four-digit year, bracketed year,
// circa year (±5), explicit year range, year embedded in free text.
// When nothing matches the field stays unresolved with confidence 0.
func NormaliseDate(raw string) domain.NormalizedField[domain.YearRange] {
	trimmed := strings.TrimSpace(raw)
	// Cataloguers terminate imprint dates with ISBD punctuation; it is
	// not part of the date.
	trimmed = strings.TrimRight(trimmed, " .,;")

	if trimmed == "" {
		return unresolvedDate(raw, "empty")
	}

	if m := exactYearRe.FindStringSubmatch(trimmed); m != nil {
		return resolvedDate(raw, yearRange(m[1], m[1]), "exact_year", domain.ConfidenceExactYear)
	}

	if m := bracketedRe.FindStringSubmatch(trimmed); m != nil {
		return resolvedDate(raw, yearRange(m[1], m[1]), "bracketed", domain.ConfidenceBracketed)
	}

	if m := circaRe.FindStringSubmatch(trimmed); m != nil {
		year, _ := strconv.Atoi(m[1])
		r := domain.YearRange{Start: year - circaWindow, End: year + circaWindow}
		return resolvedDate(raw, r, "circa", domain.ConfidenceCirca)
	}

	if m := rangeRe.FindStringSubmatch(trimmed); m != nil {
		r := yearRange(m[1], m[2])
		if r.Start <= r.End {
			return resolvedDate(raw, r, "range", domain.ConfidenceRange)
		}
		// An inverted range is not a range; fall through to the
		// embedded-year rule.
	}

	if m := embeddedRe.FindStringSubmatch(trimmed); m != nil {
		return resolvedDate(raw, yearRange(m[1], m[1]), "embedded_year", domain.ConfidenceEmbedded)
	}

	return unresolvedDate(raw, domain.MethodUnparsed)
}

func yearRange(start, end string) domain.YearRange {
	s, _ := strconv.Atoi(start)
	e, _ := strconv.Atoi(end)
	return domain.YearRange{Start: s, End: e}
}

func resolvedDate(raw string, r domain.YearRange, method string, confidence float64) domain.NormalizedField[domain.YearRange] {
	return domain.NormalizedField[domain.YearRange]{
		Raw:        raw,
		Normalized: &r,
		Method:     method,
		Confidence: confidence,
	}
}

func unresolvedDate(raw, reason string) domain.NormalizedField[domain.YearRange] {
	return domain.NormalizedField[domain.YearRange]{
		Raw:        raw,
		Normalized: nil,
		Method:     reason,
		Confidence: 0,
	}
}
