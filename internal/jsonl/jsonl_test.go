package jsonl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   string `json:"id"`
	Year int    `json:"year"`
}

func TestWriteReadRoundTrip(t *testing.T) {
	items := []sample{
		{ID: "rec-1", Year: 1680},
		{ID: "rec-2", Year: 1712},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAll(&buf, items))

	got, err := ReadAll[sample](&buf)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestReadAllSkipsBlankLines(t *testing.T) {
	input := "{\"id\":\"a\",\"year\":1600}\n\n{\"id\":\"b\",\"year\":1601}\n"

	got, err := ReadAll[sample](strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestReadAllMalformedLine(t *testing.T) {
	input := "{\"id\":\"a\"}\nnot json\n"

	_, err := ReadAll[sample](strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadAllEmpty(t *testing.T) {
	got, err := ReadAll[sample](strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}
