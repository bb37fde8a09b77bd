package domain

// CanonicalRecord is the structured extraction of one source catalog
// record, before normalisation. Raw string values are never overwritten,
// only annotated; every populated field resolves to at least one entry
// in the provenance map.
type CanonicalRecord struct {
	// ID is the unique record identifier, taken from the source control
	// number when present.
	ID string `json:"id"`

	// Titles holds the main and variant titles in source order.
	Titles []Title `json:"titles,omitempty"`

	// Imprints holds publication statements in source order. Repeated
	// imprint fields keep distinct occurrence indices.
	Imprints []Imprint `json:"imprints,omitempty"`

	// Subjects holds subject headings in source order.
	Subjects []Subject `json:"subjects,omitempty"`

	// Agents holds named persons and bodies with their roles.
	Agents []Agent `json:"agents,omitempty"`

	// Languages holds language codes (ISO 639-2/B).
	Languages []string `json:"languages,omitempty"`

	// Provenance maps a logical field path (e.g. "imprint[1].place") to
	// the source tag and subfield path that produced it (e.g. "264[1]$a").
	Provenance map[string]string `json:"provenance"`
}

// Title is one title statement from the source record.
type Title struct {
	// Text is the raw title text.
	Text string `json:"text"`

	// Kind distinguishes the main title from variants ("main", "variant").
	Kind string `json:"kind"`
}

// Imprint is one publication statement: place, publisher and date as raw
// strings exactly as they appear in the source record.
type Imprint struct {
	// Occurrence is the ordinal position of this imprint within the
	// record, so a second imprint field stays distinguishable from the
	// first.
	Occurrence int `json:"occurrence"`

	// Place is the raw place of publication.
	Place string `json:"place,omitempty"`

	// Publisher is the raw publisher name.
	Publisher string `json:"publisher,omitempty"`

	// Date is the raw date string.
	Date string `json:"date,omitempty"`
}

// Subject is one subject heading from the source record.
type Subject struct {
	// Text is the raw heading text.
	Text string `json:"text"`
}

// Agent is a named person or corporate body associated with the record.
type Agent struct {
	// Name is the raw agent name.
	Name string `json:"name"`

	// Role describes the agent's relationship to the work
	// (e.g. "creator", "contributor", "printer").
	Role string `json:"role"`
}
