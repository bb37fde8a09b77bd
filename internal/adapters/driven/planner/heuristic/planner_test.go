package heuristic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func propose(t *testing.T, query string) []domain.Filter {
	t.Helper()
	filters, err := New().Propose(context.Background(), query)
	require.NoError(t, err)
	return filters
}

func TestProposePublisherAndDateRange(t *testing.T) {
	filters := propose(t, "books published by Oxford between 1500 and 1599")

	require.Len(t, filters, 2)
	assert.Equal(t, domain.Filter{
		Field: domain.FieldDate, Op: domain.OpBetween, Start: 1500, End: 1599,
	}, filters[0])
	assert.Equal(t, domain.Filter{
		Field: domain.FieldPublisher, Op: domain.OpContains, Value: "oxford",
	}, filters[1])
}

func TestProposeDatePatterns(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		start, end int
	}{
		{"between", "between 1600 and 1650", 1600, 1650},
		{"from to", "from 1500 to 1520", 1500, 1520},
		{"hyphen range", "works 1580-1600", 1580, 1600},
		{"century", "17th century pamphlets", 1600, 1699},
		{"in year", "printed in 1683", 1683, 1683},
		{"bare year", "the 1588 armada tracts", 1588, 1588},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := propose(t, tt.query)
			require.NotEmpty(t, filters)
			assert.Equal(t, domain.Filter{
				Field: domain.FieldDate, Op: domain.OpBetween,
				Start: tt.start, End: tt.end,
			}, filters[0])
		})
	}
}

func TestProposePlace(t *testing.T) {
	filters := propose(t, "books printed in Venice")

	require.Len(t, filters, 1)
	assert.Equal(t, domain.Filter{
		Field: domain.FieldPlace, Op: domain.OpContains, Value: "venice",
	}, filters[0])
}

func TestProposePlaceAndDate(t *testing.T) {
	filters := propose(t, "books printed in Venice between 1600 and 1700")

	require.Len(t, filters, 2)
	assert.Equal(t, domain.FieldDate, filters[0].Field)
	assert.Equal(t, domain.Filter{
		Field: domain.FieldPlace, Op: domain.OpContains, Value: "venice",
	}, filters[1])
}

func TestProposeYearAfterInIsDateNotPlace(t *testing.T) {
	filters := propose(t, "works published in 1580")

	require.Len(t, filters, 1)
	assert.Equal(t, domain.FieldDate, filters[0].Field)
	assert.Equal(t, 1580, filters[0].Start)
}

func TestProposeLanguage(t *testing.T) {
	filters := propose(t, "works in latin")

	require.Len(t, filters, 1)
	assert.Equal(t, domain.Filter{
		Field: domain.FieldLanguage, Op: domain.OpEquals, Value: "lat",
	}, filters[0])
}

func TestProposeSubject(t *testing.T) {
	filters := propose(t, "books about astronomy")

	require.Len(t, filters, 1)
	assert.Equal(t, domain.Filter{
		Field: domain.FieldSubject, Op: domain.OpContains, Value: "astronomy",
	}, filters[0])
}

func TestProposeQuotedTitle(t *testing.T) {
	filters := propose(t, `editions of "Opera omnia" printed in Venice`)

	require.Len(t, filters, 2)
	assert.Equal(t, domain.Filter{
		Field: domain.FieldTitle, Op: domain.OpContains, Value: "Opera omnia",
	}, filters[0])
	assert.Equal(t, domain.FieldPlace, filters[1].Field)
}

func TestProposeCombined(t *testing.T) {
	filters := propose(t, "latin books about astronomy printed in Venice between 1600 and 1700")

	require.Len(t, filters, 4)

	fields := make([]domain.FilterField, 0, len(filters))
	for _, f := range filters {
		fields = append(fields, f.Field)
	}
	assert.Equal(t, []domain.FilterField{
		domain.FieldDate, domain.FieldPlace, domain.FieldLanguage, domain.FieldSubject,
	}, fields)
}

func TestProposeLowSpecificity(t *testing.T) {
	filters := propose(t, "interesting old books")
	assert.Empty(t, filters)
}

func TestProposeDeterministic(t *testing.T) {
	query := "english books published by Elzevir between 1620 and 1680"

	first := propose(t, query)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, propose(t, query))
	}
}

func TestProposeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Propose(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProposedFiltersValidate(t *testing.T) {
	queries := []string{
		"books published by Oxford between 1500 and 1599",
		"latin works about medicine printed in Basel",
		`"De revolutionibus" in 1543`,
	}
	for _, q := range queries {
		for _, f := range propose(t, q) {
			assert.NoError(t, f.Validate(), "query %q filter %+v", q, f)
		}
	}
}
