// Package sqlite implements the index store on an embedded SQLite
// database.
//
// Normalized records land in relational tables (records, imprints,
// titles, subjects, agents, languages) plus FTS5 full-text indices over
// title and subject text. A batch load is one transaction: relational
// rows and full-text rows commit together, so no partial-index state is
// ever visible to readers. Query execution is read-only and runs under
// WAL snapshot isolation, so it may proceed concurrently with loads.
package sqlite
