package normalise

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

var (
	bracketChars = regexp.MustCompile(`[\[\]()<>"]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanKey applies stage-A cleaning: casefolding, bracket and
// punctuation stripping, whitespace collapsing. The result doubles as
// the lookup key for the alias table.
func CleanKey(raw string) string {
	s := strings.ToLower(raw)
	s = bracketChars.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " \t:;,./?")
	return s
}

// NormalisePlace normalises a raw place of publication.
func NormalisePlace(raw string, table driven.AliasTable) domain.NormalizedField[string] {
	return normaliseName(raw, table)
}

// NormalisePublisher normalises a raw publisher name.
func NormalisePublisher(raw string, table driven.AliasTable) domain.NormalizedField[string] {
	return normaliseName(raw, table)
}

// normaliseName runs the two-stage place/publisher normalisation:
// stage A cleans the raw string; stage B resolves the cleaned key
// through the alias table. An alias hit replaces the value with the
// canonical key and raises confidence; a miss keeps the stage-A output
// unchanged.
func normaliseName(raw string, table driven.AliasTable) domain.NormalizedField[string] {
	cleaned := CleanKey(raw)
	if cleaned == "" {
		reason := "empty"
		if strings.TrimSpace(raw) != "" {
			reason = "cleaned_to_empty"
		}
		return domain.NormalizedField[string]{
			Raw:        raw,
			Normalized: nil,
			Method:     reason,
			Confidence: 0,
		}
	}

	if table != nil {
		if canonical, ok := table.Lookup(cleaned); ok {
			return domain.NormalizedField[string]{
				Raw:        raw,
				Normalized: &canonical,
				Method:     "alias",
				Confidence: domain.ConfidenceAlias,
			}
		}
	}

	return domain.NormalizedField[string]{
		Raw:        raw,
		Normalized: &cleaned,
		Method:     "cleaned",
		Confidence: domain.ConfidenceCleaned,
	}
}
