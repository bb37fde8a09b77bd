package aliases

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aliases.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTable(t, `
version = "2024-03"

[aliases]
venetiis = "venice"
lugduni = "lyon"
"apud elzevirios" = "elzevier"
`)

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2024-03", table.Version())
	assert.Equal(t, 3, table.Len())

	canonical, ok := table.Lookup("venetiis")
	require.True(t, ok)
	assert.Equal(t, "venice", canonical)

	_, ok = table.Lookup("parisiis")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadMissingVersion(t *testing.T) {
	path := writeTable(t, `
[aliases]
venetiis = "venice"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no version")
}

func TestLoadMalformed(t *testing.T) {
	path := writeTable(t, "version = [broken")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNilTable(t *testing.T) {
	var table *Table

	_, ok := table.Lookup("venetiis")
	assert.False(t, ok)
	assert.Equal(t, "", table.Version())
	assert.Equal(t, 0, table.Len())
}

func TestNewCopiesEntries(t *testing.T) {
	entries := map[string]string{"venetiis": "venice"}
	table := New("v1", entries)

	entries["venetiis"] = "mutated"

	canonical, ok := table.Lookup("venetiis")
	require.True(t, ok)
	assert.Equal(t, "venice", canonical)
}
