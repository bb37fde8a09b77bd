// Package marc parses MARCXML catalog records into canonical records.
//
// The parser preserves the order of repeated fields through occurrence
// indices and records, for every extracted field, the exact source tag
// and subfield path in the record's provenance map. A record that
// decodes but fails conversion produces an isolated RecordError and the
// rest of the batch continues. Broken XML syntax is a stream-level
// failure: the decoder cannot resync past it, so it aborts the
// remainder of that file (records already decoded are kept).
package marc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/folio/internal/core/domain"
)

// RecordError is an isolated per-record parse failure.
type RecordError struct {
	// Ordinal is the zero-based position of the record in the input
	// stream.
	Ordinal int

	// ControlNumber is the record's control number when one was
	// readable before the failure.
	ControlNumber string

	// Err is the underlying failure.
	Err error
}

func (e *RecordError) Error() string {
	if e.ControlNumber != "" {
		return fmt.Sprintf("record %d (%s): %v", e.Ordinal, e.ControlNumber, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Ordinal, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// xmlRecord mirrors one MARCXML <record> element.
type xmlRecord struct {
	Leader        string            `xml:"leader"`
	ControlFields []xmlControlField `xml:"controlfield"`
	DataFields    []xmlDataField    `xml:"datafield"`
}

type xmlControlField struct {
	Tag   string `xml:"tag,attr"`
	Value string `xml:",chardata"`
}

type xmlDataField struct {
	Tag       string        `xml:"tag,attr"`
	Ind1      string        `xml:"ind1,attr"`
	Ind2      string        `xml:"ind2,attr"`
	Subfields []xmlSubfield `xml:"subfield"`
}

type xmlSubfield struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

// Parser converts MARCXML into canonical records.
type Parser struct{}

// NewParser creates a parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseCollection reads every <record> element from r, wrapped in a
// <collection> or standing alone, and converts each independently.
// Records that fail conversion are returned as RecordErrors alongside
// the successful ones; only a malformed XML stream fails the whole
// read.
func (p *Parser) ParseCollection(r io.Reader) ([]domain.CanonicalRecord, []RecordError, error) {
	dec := xml.NewDecoder(r)

	var records []domain.CanonicalRecord
	var recordErrs []RecordError
	ordinal := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, recordErrs, fmt.Errorf("reading record stream: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "record" {
			continue
		}

		var raw xmlRecord
		if err := dec.DecodeElement(&raw, &start); err != nil {
			// The decoder cannot resync inside a broken element.
			return records, recordErrs, fmt.Errorf("decoding record %d: %w", ordinal, err)
		}

		rec, err := convert(&raw)
		if err != nil {
			recordErrs = append(recordErrs, RecordError{
				Ordinal:       ordinal,
				ControlNumber: controlNumber(&raw),
				Err:           err,
			})
		} else {
			records = append(records, *rec)
		}
		ordinal++
	}

	return records, recordErrs, nil
}

// controlNumber returns the 001 value, if any.
func controlNumber(raw *xmlRecord) string {
	for _, cf := range raw.ControlFields {
		if cf.Tag == tagControlNumber {
			return strings.TrimSpace(cf.Value)
		}
	}
	return ""
}

// convert builds a canonical record from a decoded MARCXML record.
func convert(raw *xmlRecord) (*domain.CanonicalRecord, error) {
	if len(raw.ControlFields) == 0 && len(raw.DataFields) == 0 {
		return nil, domain.ErrInvalidInput
	}

	rec := domain.CanonicalRecord{
		Provenance: make(map[string]string),
	}

	if cn := controlNumber(raw); cn != "" {
		rec.ID = cn
		rec.Provenance["id"] = tagControlNumber
	} else {
		rec.ID = uuid.New().String()
		rec.Provenance["id"] = "generated"
	}

	// Per-tag occurrence counters keep repeated fields distinguishable
	// in provenance paths.
	tagOccurrence := make(map[string]int)

	for _, df := range raw.DataFields {
		occ := tagOccurrence[df.Tag]
		tagOccurrence[df.Tag]++

		switch {
		case isTitleTag(df.Tag):
			extractTitle(&rec, df, occ)
		case isImprintTag(df.Tag):
			extractImprint(&rec, df, occ)
		case isSubjectTag(df.Tag):
			extractSubject(&rec, df, occ)
		case isAgentTag(df.Tag):
			extractAgent(&rec, df, occ)
		case df.Tag == tagLanguageCode:
			extractLanguages(&rec, df, occ)
		}
	}

	if len(rec.Languages) == 0 {
		extractFixedLanguage(&rec, raw)
	}

	return &rec, nil
}

// subfieldJoin collects every subfield whose code is in codes, in field
// order, joined by sep. It also returns the codes actually used, for
// the provenance path.
func subfieldJoin(df xmlDataField, codes string, sep string) (string, string) {
	var parts []string
	var used strings.Builder
	for _, sf := range df.Subfields {
		if !strings.Contains(codes, sf.Code) {
			continue
		}
		value := strings.TrimSpace(sf.Value)
		if value == "" {
			continue
		}
		parts = append(parts, value)
		used.WriteString(sf.Code)
	}
	return strings.Join(parts, sep), used.String()
}

// sourcePath formats a provenance value, e.g. "260[1]$ab".
func sourcePath(tag string, occ int, codes string) string {
	if codes == "" {
		return fmt.Sprintf("%s[%d]", tag, occ)
	}
	return fmt.Sprintf("%s[%d]$%s", tag, occ, codes)
}

func extractTitle(rec *domain.CanonicalRecord, df xmlDataField, occ int) {
	text, codes := subfieldJoin(df, "ab", " ")
	if text == "" {
		return
	}

	kind := "main"
	if df.Tag == tagVariantTitle {
		kind = "variant"
	}

	idx := len(rec.Titles)
	rec.Titles = append(rec.Titles, domain.Title{Text: text, Kind: kind})
	rec.Provenance[fmt.Sprintf("title[%d]", idx)] = sourcePath(df.Tag, occ, codes)
}

func extractImprint(rec *domain.CanonicalRecord, df xmlDataField, occ int) {
	place, placeCodes := subfieldJoin(df, "a", " ; ")
	publisher, pubCodes := subfieldJoin(df, "b", " ; ")
	date, dateCodes := subfieldJoin(df, "c", " ; ")

	if place == "" && publisher == "" && date == "" {
		return
	}

	idx := len(rec.Imprints)
	rec.Imprints = append(rec.Imprints, domain.Imprint{
		Occurrence: idx,
		Place:      place,
		Publisher:  publisher,
		Date:       date,
	})

	if place != "" {
		rec.Provenance[fmt.Sprintf("imprint[%d].place", idx)] = sourcePath(df.Tag, occ, placeCodes)
	}
	if publisher != "" {
		rec.Provenance[fmt.Sprintf("imprint[%d].publisher", idx)] = sourcePath(df.Tag, occ, pubCodes)
	}
	if date != "" {
		rec.Provenance[fmt.Sprintf("imprint[%d].date", idx)] = sourcePath(df.Tag, occ, dateCodes)
	}
}

func extractSubject(rec *domain.CanonicalRecord, df xmlDataField, occ int) {
	// Heading plus topical/chronological/geographic subdivisions.
	text, codes := subfieldJoin(df, "axyz", " -- ")
	if text == "" {
		return
	}

	idx := len(rec.Subjects)
	rec.Subjects = append(rec.Subjects, domain.Subject{Text: text})
	rec.Provenance[fmt.Sprintf("subject[%d]", idx)] = sourcePath(df.Tag, occ, codes)
}

func extractAgent(rec *domain.CanonicalRecord, df xmlDataField, occ int) {
	name, nameCodes := subfieldJoin(df, "a", " ")
	if name == "" {
		return
	}

	role, _ := subfieldJoin(df, "e", " ")
	role = strings.Trim(role, " .,")
	if role == "" {
		if isMainEntryTag(df.Tag) {
			role = "creator"
		} else {
			role = "contributor"
		}
	}

	idx := len(rec.Agents)
	rec.Agents = append(rec.Agents, domain.Agent{Name: name, Role: role})
	rec.Provenance[fmt.Sprintf("agent[%d]", idx)] = sourcePath(df.Tag, occ, nameCodes)
}

func extractLanguages(rec *domain.CanonicalRecord, df xmlDataField, occ int) {
	for _, sf := range df.Subfields {
		if sf.Code != "a" {
			continue
		}
		// A single $a may carry several concatenated three-letter
		// codes ("engfre").
		value := strings.TrimSpace(sf.Value)
		for i := 0; i+3 <= len(value); i += 3 {
			code := strings.ToLower(value[i : i+3])
			if hasLanguage(rec, code) {
				continue
			}
			idx := len(rec.Languages)
			rec.Languages = append(rec.Languages, code)
			rec.Provenance[fmt.Sprintf("language[%d]", idx)] = sourcePath(df.Tag, occ, "a")
		}
	}
}

// extractFixedLanguage falls back to 008 positions 35-37 when no 041
// field is present.
func extractFixedLanguage(rec *domain.CanonicalRecord, raw *xmlRecord) {
	for _, cf := range raw.ControlFields {
		if cf.Tag != tagFixedData || len(cf.Value) < fixedLangEnd {
			continue
		}
		code := strings.ToLower(strings.TrimSpace(cf.Value[fixedLangStart:fixedLangEnd]))
		if code == "" || code == "|||" {
			return
		}
		rec.Languages = append(rec.Languages, code)
		rec.Provenance["language[0]"] = fmt.Sprintf("%s/%d-%d", tagFixedData, fixedLangStart, fixedLangEnd-1)
		return
	}
}

func hasLanguage(rec *domain.CanonicalRecord, code string) bool {
	for _, existing := range rec.Languages {
		if existing == code {
			return true
		}
	}
	return false
}
