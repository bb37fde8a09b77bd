package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestDebugSilentByDefault(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("should not appear")
	assert.Empty(t, buf.String())
}

func TestDebugVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("parsed %d records", 3)
	assert.Contains(t, buf.String(), "[DEBUG] parsed 3 records")
}

func TestSectionAndLevels(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Query Compilation")
	Info("cache miss")
	Warn("record 12 skipped")

	out := buf.String()
	assert.Contains(t, out, "=== Query Compilation ===")
	assert.Contains(t, out, "[INFO] cache miss")
	assert.Contains(t, out, "[WARN] record 12 skipped")
}

func TestErrorAlwaysPrints(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Error("store unavailable: %s", "no such file")
	assert.Contains(t, buf.String(), "[ERROR] store unavailable: no such file")
}

func TestIsVerbose(t *testing.T) {
	defer reset()

	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}
