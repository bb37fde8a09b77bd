package normalise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/aliases"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Venetiis :", "venetiis"},
		{"[Amsterdam]", "amsterdam"},
		{"Oxford : Clarendon Press,", "oxford : clarendon press"},
		{"  Apud   Elzevirios  ", "apud elzevirios"},
		{"(s.l.)", "s.l"},
		{"", ""},
		{" : ; , ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanKey(tt.raw))
		})
	}
}

func TestNormalisePlaceStageAOnly(t *testing.T) {
	got := NormalisePlace("Venetiis :", nil)

	assert.Equal(t, "Venetiis :", got.Raw)
	require.NotNil(t, got.Normalized)
	assert.Equal(t, "venetiis", *got.Normalized)
	assert.Equal(t, "cleaned", got.Method)
	assert.InDelta(t, 0.80, got.Confidence, 1e-9)
}

func TestNormalisePlaceAliasHit(t *testing.T) {
	table := aliases.New("v1", map[string]string{"venetiis": "venice"})

	got := NormalisePlace("Venetiis :", table)

	assert.Equal(t, "Venetiis :", got.Raw)
	require.NotNil(t, got.Normalized)
	assert.Equal(t, "venice", *got.Normalized)
	assert.Equal(t, "alias", got.Method)
	assert.InDelta(t, 0.95, got.Confidence, 1e-9)
}

func TestNormalisePlaceAliasMiss(t *testing.T) {
	table := aliases.New("v1", map[string]string{"venetiis": "venice"})

	got := NormalisePlace("Lugduni Batavorum", table)

	require.NotNil(t, got.Normalized)
	assert.Equal(t, "lugduni batavorum", *got.Normalized)
	assert.Equal(t, "cleaned", got.Method)
	assert.InDelta(t, 0.80, got.Confidence, 1e-9)
}

func TestAliasConfidenceNotBelowStageA(t *testing.T) {
	table := aliases.New("v1", map[string]string{"venetiis": "venice"})

	stageA := NormalisePlace("Venetiis :", nil)
	resolved := NormalisePlace("Venetiis :", table)

	assert.GreaterOrEqual(t, resolved.Confidence, stageA.Confidence)
}

func TestNormalisePublisher(t *testing.T) {
	table := aliases.New("v1", map[string]string{"apud elzevirios": "elzevier"})

	got := NormalisePublisher("Apud Elzevirios,", table)
	require.NotNil(t, got.Normalized)
	assert.Equal(t, "elzevier", *got.Normalized)
	assert.Equal(t, "alias", got.Method)

	got = NormalisePublisher("Clarendon Press,", table)
	require.NotNil(t, got.Normalized)
	assert.Equal(t, "clarendon press", *got.Normalized)
	assert.Equal(t, "cleaned", got.Method)
}

func TestNormaliseNameEmpty(t *testing.T) {
	got := NormalisePlace("", nil)
	assert.Nil(t, got.Normalized)
	assert.Zero(t, got.Confidence)
	assert.Equal(t, "empty", got.Method)
	assert.True(t, got.Valid())

	got = NormalisePlace(" : ; ", nil)
	assert.Nil(t, got.Normalized)
	assert.Zero(t, got.Confidence)
	assert.Equal(t, "cleaned_to_empty", got.Method)
	assert.True(t, got.Valid())
}
