// Package heuristic implements a deterministic rule-based planner. It
// is the default: no network, no model, same filters for the same query
// text every time.
package heuristic

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Planner implements the interface.
var _ driven.Planner = (*Planner)(nil)

// Planner derives filters from surface patterns in the query text.
type Planner struct{}

// New returns a rule-based planner.
func New() *Planner {
	return &Planner{}
}

// Name identifies the planner in diagnostics.
func (p *Planner) Name() string {
	return "heuristic"
}

// languageCodes maps spoken language names to MARC language codes.
var languageCodes = map[string]string{
	"english":    "eng",
	"latin":      "lat",
	"french":     "fre",
	"german":     "ger",
	"italian":    "ita",
	"spanish":    "spa",
	"dutch":      "dut",
	"greek":      "gre",
	"hebrew":     "heb",
	"portuguese": "por",
}

var (
	quotedRe  = regexp.MustCompile(`"([^"]+)"`)
	betweenRe = regexp.MustCompile(`(?i)\bbetween\s+(\d{4})\s+and\s+(\d{4})\b`)
	rangeRe   = regexp.MustCompile(`\b(\d{4})\s*[-–]\s*(\d{4})\b`)
	fromToRe  = regexp.MustCompile(`(?i)\bfrom\s+(\d{4})\s+to\s+(\d{4})\b`)
	centuryRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)\s+century\b`)
	inYearRe  = regexp.MustCompile(`(?i)\bin\s+(\d{4})\b`)
	bareYrRe  = regexp.MustCompile(`\b(1[0-9]{3}|20[0-9]{2})\b`)

	publisherRe = regexp.MustCompile(`(?i)\b(?:published|printed)\s+by\s+(.+)`)
	placeRe     = regexp.MustCompile(`(?i)\b(?:published|printed)\s+(?:in|at)\s+([a-zA-Z][a-zA-Z .'-]*)`)
	subjectRe   = regexp.MustCompile(`(?i)\babout\s+(.+)`)
	titleRe     = regexp.MustCompile(`(?i)\btitled?\s+(.+)`)
)

// stopwords end a greedily captured name or phrase. RE2 has no
// lookahead, so captures run to end of text and are cut here.
var stopwords = map[string]bool{
	"between": true, "in": true, "at": true, "from": true, "to": true,
	"before": true, "after": true, "during": true, "about": true,
	"published": true, "printed": true, "and": true, "titled": true,
}

// Propose derives filters from the query. A query matching no rule
// yields an empty list; deciding what that means is the compiler's job.
func (p *Planner) Propose(ctx context.Context, queryText string) ([]domain.Filter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var filters []domain.Filter
	text := queryText

	// A quoted phrase is a title search, and must not feed later rules.
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		filters = append(filters, domain.Filter{
			Field: domain.FieldTitle,
			Op:    domain.OpContains,
			Value: strings.TrimSpace(m[1]),
		})
		text = quotedRe.ReplaceAllString(text, " ")
	}

	if f, rest, ok := dateFilter(text); ok {
		filters = append(filters, f)
		text = rest
	}

	if m := publisherRe.FindStringSubmatch(text); m != nil {
		if name := cutAtStopword(m[1]); name != "" {
			filters = append(filters, domain.Filter{
				Field: domain.FieldPublisher,
				Op:    domain.OpContains,
				Value: strings.ToLower(name),
			})
		}
		text = publisherRe.ReplaceAllString(text, " ")
	}

	if m := placeRe.FindStringSubmatch(text); m != nil {
		if name := cutAtStopword(m[1]); name != "" {
			filters = append(filters, domain.Filter{
				Field: domain.FieldPlace,
				Op:    domain.OpContains,
				Value: strings.ToLower(name),
			})
		}
		text = placeRe.ReplaceAllString(text, " ")
	}

	if code, ok := languageFilter(text); ok {
		filters = append(filters, domain.Filter{
			Field: domain.FieldLanguage,
			Op:    domain.OpEquals,
			Value: code,
		})
	}

	if m := subjectRe.FindStringSubmatch(text); m != nil {
		if phrase := cutAtStopword(m[1]); phrase != "" {
			filters = append(filters, domain.Filter{
				Field: domain.FieldSubject,
				Op:    domain.OpContains,
				Value: strings.ToLower(phrase),
			})
		}
	} else if m := titleRe.FindStringSubmatch(text); m != nil {
		if phrase := cutAtStopword(m[1]); phrase != "" {
			filters = append(filters, domain.Filter{
				Field: domain.FieldTitle,
				Op:    domain.OpContains,
				Value: phrase,
			})
		}
	}

	return filters, nil
}

// dateFilter extracts one date range from the text, trying the most
// specific pattern first. It returns the text with the matched span
// removed so place and publisher rules do not re-read the years.
func dateFilter(text string) (domain.Filter, string, bool) {
	type rule struct {
		re    *regexp.Regexp
		build func([]string) (int, int)
	}
	rules := []rule{
		{betweenRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
		{fromToRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
		{rangeRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[2]) }},
		{centuryRe, func(m []string) (int, int) {
			start := (atoi(m[1]) - 1) * 100
			return start, start + 99
		}},
		{inYearRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[1]) }},
		{bareYrRe, func(m []string) (int, int) { return atoi(m[1]), atoi(m[1]) }},
	}

	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		start, end := r.build(m)
		if start > end {
			continue
		}
		return domain.Filter{
			Field: domain.FieldDate,
			Op:    domain.OpBetween,
			Start: start,
			End:   end,
		}, r.re.ReplaceAllString(text, " "), true
	}
	return domain.Filter{}, text, false
}

// languageFilter looks for a known language name as a standalone word.
func languageFilter(text string) (string, bool) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?")
		if code, ok := languageCodes[word]; ok {
			return code, true
		}
	}
	return "", false
}

// cutAtStopword trims a greedy capture at the first stopword and strips
// trailing punctuation.
func cutAtStopword(capture string) string {
	words := strings.Fields(capture)
	var kept []string
	for _, w := range words {
		if stopwords[strings.ToLower(strings.Trim(w, ".,;:!?"))] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Trim(strings.Join(kept, " "), " .,;:!?")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
