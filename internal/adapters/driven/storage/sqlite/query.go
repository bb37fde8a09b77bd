package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

// defaultLimit caps candidate sets when the plan carries no limit.
const defaultLimit = 20

// Execute runs a validated query plan against the index.
//
// Each filter becomes exactly one SQL predicate; predicates combine
// with logical AND. OR and NOT are unsupported by design and rejected
// at validation, never approximated. An empty filter list executes but
// the result is marked unconstrained.
func (s *Store) Execute(ctx context.Context, plan domain.QueryPlan) (*domain.CandidateSet, error) {
	for _, f := range plan.Filters {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("executing plan: %w", err)
		}
	}

	conds, args, err := buildPredicates(plan.Filters)
	if err != nil {
		return nil, err
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	limit := plan.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	countQuery := "SELECT COUNT(*) FROM records r" + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting candidates: %w", err)
	}

	selectQuery := "SELECT r.id FROM records r" + where + " ORDER BY r.id LIMIT ?"
	logger.Debug("Generated query: %s", selectQuery)

	rows, err := s.db.QueryContext(ctx, selectQuery, append(append([]any{}, args...), limit)...)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}

	set := &domain.CandidateSet{
		QueryText:      plan.QueryText,
		GeneratedQuery: selectQuery,
		TotalCount:     total,
		Unconstrained:  len(plan.Filters) == 0,
		Candidates:     make([]domain.Candidate, 0, len(ids)),
	}

	for _, id := range ids {
		candidate, err := s.buildCandidate(ctx, id, plan.Filters)
		if err != nil {
			return nil, fmt.Errorf("deriving evidence for %s: %w", id, err)
		}
		set.Candidates = append(set.Candidates, *candidate)
	}

	return set, nil
}

// buildPredicates translates filters into SQL conditions over the r
// (records) alias. The switch over the field enum is exhaustive: an
// unknown field is a hard error, not a fallback.
func buildPredicates(filters []domain.Filter) ([]string, []any, error) {
	var conds []string
	var args []any

	for _, f := range filters {
		switch f.Field {
		case domain.FieldDate:
			conds = append(conds, `EXISTS (
				SELECT 1 FROM imprints i WHERE i.record_id = r.id
				AND i.date_start IS NOT NULL AND i.date_start <= ? AND i.date_end >= ?)`)
			args = append(args, f.End, f.Start)

		case domain.FieldPlace:
			conds = append(conds, `EXISTS (
				SELECT 1 FROM imprints i WHERE i.record_id = r.id
				AND i.place_norm LIKE '%' || ? || '%' ESCAPE '\')`)
			args = append(args, escapeLike(strings.ToLower(f.Value)))

		case domain.FieldPublisher:
			conds = append(conds, `EXISTS (
				SELECT 1 FROM imprints i WHERE i.record_id = r.id
				AND i.publisher_norm LIKE '%' || ? || '%' ESCAPE '\')`)
			args = append(args, escapeLike(strings.ToLower(f.Value)))

		case domain.FieldLanguage:
			conds = append(conds, `EXISTS (
				SELECT 1 FROM languages l WHERE l.record_id = r.id AND l.code = ?)`)
			args = append(args, strings.ToLower(f.Value))

		case domain.FieldTitle:
			conds = append(conds, `r.id IN (SELECT record_id FROM titles_fts WHERE titles_fts MATCH ?)`)
			args = append(args, ftsPhrase(f.Value))

		case domain.FieldSubject:
			conds = append(conds, `r.id IN (SELECT record_id FROM subjects_fts WHERE subjects_fts MATCH ?)`)
			args = append(args, ftsPhrase(f.Value))

		default:
			return nil, nil, fmt.Errorf("%w: field %q", domain.ErrInvalidFilter, f.Field)
		}
	}

	return conds, args, nil
}

// ftsPhrase quotes a value as an FTS5 phrase query.
func ftsPhrase(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// escapeLike neutralises LIKE metacharacters so a filter value
// containing % or _ matches literally.
func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildCandidate re-derives, for each contributing filter, the evidence
// entry naming the stored field and value that satisfied it, then
// assembles the match rationale.
func (s *Store) buildCandidate(ctx context.Context, id string, filters []domain.Filter) (*domain.Candidate, error) {
	candidate := &domain.Candidate{
		RecordID: id,
		Evidence: make([]domain.Evidence, 0, len(filters)),
	}

	if len(filters) == 0 {
		candidate.MatchRationale = "unconstrained query: no filters applied"
		return candidate, nil
	}

	var phrases []string
	for _, f := range filters {
		ev, err := s.evidenceFor(ctx, id, f)
		if err != nil {
			return nil, err
		}
		candidate.Evidence = append(candidate.Evidence, *ev)
		phrases = append(phrases, rationalePhrase(f, *ev))
	}
	candidate.MatchRationale = strings.Join(phrases, "; ")

	return candidate, nil
}

// evidenceFor finds the stored value that satisfied one filter for one
// record. A candidate row always has such a value; failing to find one
// is an execution error, never a silent omission.
func (s *Store) evidenceFor(ctx context.Context, id string, f domain.Filter) (*domain.Evidence, error) {
	switch f.Field {
	case domain.FieldDate:
		row := s.db.QueryRowContext(ctx, `
			SELECT occurrence, date_raw, date_start, date_end FROM imprints
			WHERE record_id = ? AND date_start IS NOT NULL AND date_start <= ? AND date_end >= ?
			ORDER BY occurrence LIMIT 1
		`, id, f.End, f.Start)

		var occ, start, end int
		var raw string
		if err := row.Scan(&occ, &raw, &start, &end); err != nil {
			return nil, evidenceScanErr(f, err)
		}
		return &domain.Evidence{
			Field:          fmt.Sprintf("imprint[%d].date.normalized", occ),
			Value:          formatYears(start, end),
			Operator:       f.Op,
			MatchedAgainst: formatYears(f.Start, f.End),
		}, nil

	case domain.FieldPlace:
		return s.imprintNameEvidence(ctx, id, f, "place")

	case domain.FieldPublisher:
		return s.imprintNameEvidence(ctx, id, f, "publisher")

	case domain.FieldLanguage:
		row := s.db.QueryRowContext(ctx, `
			SELECT position, code FROM languages
			WHERE record_id = ? AND code = ? LIMIT 1
		`, id, strings.ToLower(f.Value))

		var pos int
		var code string
		if err := row.Scan(&pos, &code); err != nil {
			return nil, evidenceScanErr(f, err)
		}
		return &domain.Evidence{
			Field:          fmt.Sprintf("language[%d].code", pos),
			Value:          code,
			Operator:       f.Op,
			MatchedAgainst: strings.ToLower(f.Value),
		}, nil

	case domain.FieldTitle:
		return s.textEvidence(ctx, id, f, "titles", "title")

	case domain.FieldSubject:
		return s.textEvidence(ctx, id, f, "subjects", "subject")

	default:
		return nil, fmt.Errorf("%w: field %q", domain.ErrInvalidFilter, f.Field)
	}
}

// imprintNameEvidence covers the place and publisher columns, which
// share a layout.
func (s *Store) imprintNameEvidence(ctx context.Context, id string, f domain.Filter, column string) (*domain.Evidence, error) {
	//nolint:gosec // column is one of two fixed identifiers
	query := fmt.Sprintf(`
		SELECT occurrence, %s_norm FROM imprints
		WHERE record_id = ? AND %s_norm LIKE '%%' || ? || '%%' ESCAPE '\'
		ORDER BY occurrence LIMIT 1
	`, column, column)

	row := s.db.QueryRowContext(ctx, query, id, escapeLike(strings.ToLower(f.Value)))

	var occ int
	var norm string
	if err := row.Scan(&occ, &norm); err != nil {
		return nil, evidenceScanErr(f, err)
	}
	return &domain.Evidence{
		Field:          fmt.Sprintf("imprint[%d].%s.normalized", occ, column),
		Value:          norm,
		Operator:       f.Op,
		MatchedAgainst: strings.ToLower(f.Value),
	}, nil
}

// textEvidence covers title and subject matches. The matching text is
// taken from the full-text index itself, the same predicate that
// selected the candidate, so the evidence always names the value that
// actually satisfied the filter.
func (s *Store) textEvidence(ctx context.Context, id string, f domain.Filter, table, label string) (*domain.Evidence, error) {
	//nolint:gosec // table is one of two fixed identifiers
	ftsQuery := fmt.Sprintf(`
		SELECT text FROM %s_fts
		WHERE record_id = ? AND %s_fts MATCH ?
		ORDER BY rowid LIMIT 1
	`, table, table)

	var text string
	if err := s.db.QueryRowContext(ctx, ftsQuery, id, ftsPhrase(f.Value)).Scan(&text); err != nil {
		return nil, evidenceScanErr(f, err)
	}

	//nolint:gosec // table is one of two fixed identifiers
	posQuery := fmt.Sprintf(`
		SELECT position FROM %s
		WHERE record_id = ? AND text = ?
		ORDER BY position LIMIT 1
	`, table)

	var pos int
	if err := s.db.QueryRowContext(ctx, posQuery, id, text).Scan(&pos); err != nil {
		return nil, evidenceScanErr(f, err)
	}

	return &domain.Evidence{
		Field:          fmt.Sprintf("%s[%d].raw", label, pos),
		Value:          text,
		Operator:       f.Op,
		MatchedAgainst: f.Value,
	}, nil
}

func evidenceScanErr(f domain.Filter, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("no stored value satisfies %s filter", f.Field)
	}
	return fmt.Errorf("scanning %s evidence: %w", f.Field, err)
}

// rationalePhrase renders one evidence entry for the human-readable
// match rationale.
func rationalePhrase(f domain.Filter, ev domain.Evidence) string {
	switch f.Op {
	case domain.OpBetween:
		return fmt.Sprintf("date %s within %s", ev.Value, ev.MatchedAgainst)
	case domain.OpEquals:
		return fmt.Sprintf("%s equals %q", f.Field, ev.Value)
	default:
		return fmt.Sprintf("%s %q contains %q", f.Field, ev.Value, ev.MatchedAgainst)
	}
}

func formatYears(start, end int) string {
	if start == end {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}
