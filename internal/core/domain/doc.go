// Package domain defines the core business entities for Folio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CanonicalRecord: A structured, provenance-tagged catalog record
//   - NormalizedRecord: A canonical record plus normalized imprint fields
//   - QueryPlan: A validated, typed representation of a query
//   - CandidateSet: Matching record identifiers with field-level evidence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
