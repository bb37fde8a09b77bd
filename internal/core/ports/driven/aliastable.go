package driven

// AliasTable is a versioned, read-only lookup from cleaned raw keys to
// canonical keys. It is shared freely across normalisation workers
// without locking.
//
// A nil table is a valid degenerate case: normalisation falls back to
// stage-A cleaning only.
type AliasTable interface {
	// Lookup returns the canonical key for a cleaned raw key.
	Lookup(key string) (canonical string, ok bool)

	// Version identifies the table revision, so normalisation stays
	// reproducible against a fixed table version.
	Version() string

	// Len returns the number of entries.
	Len() int
}
