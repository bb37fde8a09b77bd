// Package normalise computes normalized, confidence-scored fields from
// canonical catalog records.
//
// Normalisation is a pure function of the canonical record and the
// injected alias table: no I/O, no hidden state, deterministic across
// calls and process restarts for a fixed table version. Raw values are
// never mutated or discarded; an unresolvable value is represented as
// data (nil normalized form, confidence 0, reason in the method tag),
// never as an error.
package normalise

import (
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Normaliser derives normalized records from canonical records.
type Normaliser struct {
	aliases driven.AliasTable
}

// New creates a normaliser. The alias table may be nil, in which case
// place and publisher normalisation stops at stage-A cleaning.
func New(table driven.AliasTable) *Normaliser {
	return &Normaliser{aliases: table}
}

// TableVersion returns the version of the injected alias table, or ""
// when running without one.
func (n *Normaliser) TableVersion() string {
	if n.aliases == nil {
		return ""
	}
	return n.aliases.Version()
}

// Normalise computes the normalized record for a canonical record.
// One normalized imprint is produced per canonical imprint, in the same
// order and with the same occurrence index.
func (n *Normaliser) Normalise(rec domain.CanonicalRecord) domain.NormalizedRecord {
	imprints := make([]domain.NormalizedImprint, 0, len(rec.Imprints))
	for _, imp := range rec.Imprints {
		imprints = append(imprints, domain.NormalizedImprint{
			Occurrence: imp.Occurrence,
			Place:      NormalisePlace(imp.Place, n.aliases),
			Publisher:  NormalisePublisher(imp.Publisher, n.aliases),
			Date:       NormaliseDate(imp.Date),
		})
	}

	return domain.NormalizedRecord{
		Canonical: rec,
		Imprints:  imprints,
	}
}
