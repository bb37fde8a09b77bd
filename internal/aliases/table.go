// Package aliases loads the versioned alias table used during place and
// publisher normalisation.
//
// The table is a read-only TOML file mapping cleaned raw keys to
// canonical keys:
//
//	version = "2024-03"
//
//	[aliases]
//	venetiis = "venice"
//	lugduni = "lyon"
//
// Regeneration of the table is an offline concern; Folio only ever
// consumes it. A missing table is a valid degenerate case: callers hold
// a nil *Table and normalisation stops at stage-A cleaning.
package aliases

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Table implements the interface.
var _ driven.AliasTable = (*Table)(nil)

// Table is an immutable alias lookup table. It is safe for concurrent
// use without locking.
type Table struct {
	version string
	entries map[string]string
}

// tableFile is the on-disk TOML shape.
type tableFile struct {
	Version string            `toml:"version"`
	Aliases map[string]string `toml:"aliases"`
}

// Load reads an alias table from a TOML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading alias table: %w", err)
	}

	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing alias table %s: %w", path, err)
	}
	if file.Version == "" {
		return nil, fmt.Errorf("alias table %s has no version", path)
	}

	entries := make(map[string]string, len(file.Aliases))
	for k, v := range file.Aliases {
		entries[k] = v
	}

	return &Table{version: file.Version, entries: entries}, nil
}

// New builds a table directly from entries. Used in tests and by tools
// that embed a fixed table.
func New(version string, entries map[string]string) *Table {
	copied := make(map[string]string, len(entries))
	for k, v := range entries {
		copied[k] = v
	}
	return &Table{version: version, entries: copied}
}

// Lookup returns the canonical key for a cleaned raw key.
// A nil table never matches.
func (t *Table) Lookup(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	canonical, ok := t.entries[key]
	return canonical, ok
}

// Version identifies the table revision. Empty for a nil table.
func (t *Table) Version() string {
	if t == nil {
		return ""
	}
	return t.version
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
