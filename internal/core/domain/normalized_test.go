package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedFieldValid(t *testing.T) {
	year := YearRange{Start: 1680, End: 1680}

	tests := []struct {
		name  string
		field NormalizedField[YearRange]
		want  bool
	}{
		{
			name:  "resolved field",
			field: NormalizedField[YearRange]{Raw: "1680", Normalized: &year, Method: "exact_year", Confidence: 0.99},
			want:  true,
		},
		{
			name:  "unresolved with zero confidence and reason",
			field: NormalizedField[YearRange]{Raw: "n.d.", Method: MethodUnparsed, Confidence: 0},
			want:  true,
		},
		{
			name:  "unresolved with nonzero confidence",
			field: NormalizedField[YearRange]{Raw: "n.d.", Method: MethodUnparsed, Confidence: 0.5},
			want:  false,
		},
		{
			name:  "unresolved without reason",
			field: NormalizedField[YearRange]{Raw: "n.d.", Confidence: 0},
			want:  false,
		},
		{
			name:  "confidence above one",
			field: NormalizedField[YearRange]{Raw: "1680", Normalized: &year, Method: "exact_year", Confidence: 1.5},
			want:  false,
		},
		{
			name:  "negative confidence",
			field: NormalizedField[YearRange]{Raw: "1680", Normalized: &year, Method: "exact_year", Confidence: -0.1},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Valid())
		})
	}
}

func TestYearRangeIntersects(t *testing.T) {
	century := YearRange{Start: 1500, End: 1599}

	assert.True(t, century.Intersects(YearRange{Start: 1580, End: 1580}))
	assert.True(t, century.Intersects(YearRange{Start: 1590, End: 1620}))
	assert.True(t, century.Intersects(YearRange{Start: 1400, End: 1500}))
	assert.False(t, century.Intersects(YearRange{Start: 1600, End: 1650}))
	assert.False(t, century.Intersects(YearRange{Start: 1400, End: 1499}))
}
