package marc

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

const sampleCollection = `<?xml version="1.0" encoding="UTF-8"?>
<collection xmlns="http://www.loc.gov/MARC21/slim">
  <record>
    <leader>00000nam a2200000 a 4500</leader>
    <controlfield tag="001">rec-001</controlfield>
    <datafield tag="100" ind1="1" ind2=" ">
      <subfield code="a">Galilei, Galileo,</subfield>
    </datafield>
    <datafield tag="245" ind1="1" ind2="0">
      <subfield code="a">Dialogo sopra i due massimi sistemi del mondo</subfield>
      <subfield code="b">tolemaico e copernicano</subfield>
    </datafield>
    <datafield tag="260" ind1=" " ind2=" ">
      <subfield code="a">Fiorenza :</subfield>
      <subfield code="b">Per Gio: Batista Landini,</subfield>
      <subfield code="c">1632.</subfield>
    </datafield>
    <datafield tag="260" ind1=" " ind2=" ">
      <subfield code="a">Venetiis :</subfield>
      <subfield code="c">[1680]</subfield>
    </datafield>
    <datafield tag="650" ind1=" " ind2="0">
      <subfield code="a">Astronomy</subfield>
      <subfield code="y">17th century</subfield>
    </datafield>
    <datafield tag="700" ind1="1" ind2=" ">
      <subfield code="a">Landini, Giovanni Battista,</subfield>
      <subfield code="e">printer.</subfield>
    </datafield>
    <datafield tag="041" ind1="0" ind2=" ">
      <subfield code="a">italat</subfield>
    </datafield>
  </record>
  <record>
    <controlfield tag="001">rec-002</controlfield>
    <datafield tag="245" ind1="0" ind2="0">
      <subfield code="a">Opera omnia</subfield>
    </datafield>
    <datafield tag="264" ind1=" " ind2="1">
      <subfield code="a">Lugduni Batavorum :</subfield>
      <subfield code="b">Apud Elzevirios,</subfield>
      <subfield code="c">c. 1650</subfield>
    </datafield>
  </record>
</collection>`

func TestParseCollection(t *testing.T) {
	p := NewParser()

	records, recordErrs, err := p.ParseCollection(strings.NewReader(sampleCollection))
	require.NoError(t, err)
	assert.Empty(t, recordErrs)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "rec-001", first.ID)
	assert.Equal(t, tagControlNumber, first.Provenance["id"])

	require.Len(t, first.Titles, 1)
	assert.Equal(t, "Dialogo sopra i due massimi sistemi del mondo tolemaico e copernicano", first.Titles[0].Text)
	assert.Equal(t, "main", first.Titles[0].Kind)
	assert.Equal(t, "245[0]$ab", first.Provenance["title[0]"])

	require.Len(t, first.Imprints, 2)
	assert.Equal(t, 0, first.Imprints[0].Occurrence)
	assert.Equal(t, "Fiorenza :", first.Imprints[0].Place)
	assert.Equal(t, "Per Gio: Batista Landini,", first.Imprints[0].Publisher)
	assert.Equal(t, "1632.", first.Imprints[0].Date)
	assert.Equal(t, 1, first.Imprints[1].Occurrence)
	assert.Equal(t, "Venetiis :", first.Imprints[1].Place)
	assert.Equal(t, "[1680]", first.Imprints[1].Date)
	assert.Equal(t, "260[0]$a", first.Provenance["imprint[0].place"])
	assert.Equal(t, "260[1]$a", first.Provenance["imprint[1].place"])
	assert.Equal(t, "260[1]$c", first.Provenance["imprint[1].date"])

	require.Len(t, first.Subjects, 1)
	assert.Equal(t, "Astronomy -- 17th century", first.Subjects[0].Text)
	assert.Equal(t, "650[0]$ay", first.Provenance["subject[0]"])

	require.Len(t, first.Agents, 2)
	assert.Equal(t, "Galilei, Galileo,", first.Agents[0].Name)
	assert.Equal(t, "creator", first.Agents[0].Role)
	assert.Equal(t, "Landini, Giovanni Battista,", first.Agents[1].Name)
	assert.Equal(t, "printer", first.Agents[1].Role)

	assert.Equal(t, []string{"ita", "lat"}, first.Languages)
	assert.Equal(t, "041[0]$a", first.Provenance["language[0]"])

	second := records[1]
	assert.Equal(t, "rec-002", second.ID)
	require.Len(t, second.Imprints, 1)
	assert.Equal(t, "Lugduni Batavorum :", second.Imprints[0].Place)
	assert.Equal(t, "Apud Elzevirios,", second.Imprints[0].Publisher)
	assert.Equal(t, "c. 1650", second.Imprints[0].Date)
	assert.Equal(t, "264[0]$a", second.Provenance["imprint[0].place"])
}

func TestParseCollectionEveryFieldHasProvenance(t *testing.T) {
	p := NewParser()

	records, _, err := p.ParseCollection(strings.NewReader(sampleCollection))
	require.NoError(t, err)

	for _, rec := range records {
		assert.Contains(t, rec.Provenance, "id")
		for i := range rec.Titles {
			assert.Contains(t, rec.Provenance, "title["+itoa(i)+"]")
		}
		for i, imp := range rec.Imprints {
			if imp.Place != "" {
				assert.Contains(t, rec.Provenance, "imprint["+itoa(i)+"].place")
			}
			if imp.Publisher != "" {
				assert.Contains(t, rec.Provenance, "imprint["+itoa(i)+"].publisher")
			}
			if imp.Date != "" {
				assert.Contains(t, rec.Provenance, "imprint["+itoa(i)+"].date")
			}
		}
		for i := range rec.Subjects {
			assert.Contains(t, rec.Provenance, "subject["+itoa(i)+"]")
		}
		for i := range rec.Agents {
			assert.Contains(t, rec.Provenance, "agent["+itoa(i)+"]")
		}
		for i := range rec.Languages {
			assert.Contains(t, rec.Provenance, "language["+itoa(i)+"]")
		}
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func TestParseCollectionIsolatesMalformedRecord(t *testing.T) {
	input := `<collection>
  <record></record>
  <record>
    <controlfield tag="001">rec-ok</controlfield>
    <datafield tag="245"><subfield code="a">Survivor</subfield></datafield>
  </record>
</collection>`

	p := NewParser()
	records, recordErrs, err := p.ParseCollection(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, recordErrs, 1)
	assert.Equal(t, 0, recordErrs[0].Ordinal)
	assert.ErrorIs(t, recordErrs[0].Err, domain.ErrInvalidInput)

	require.Len(t, records, 1)
	assert.Equal(t, "rec-ok", records[0].ID)
}

func TestParseCollectionGeneratedID(t *testing.T) {
	input := `<record>
  <datafield tag="245"><subfield code="a">Anonymous work</subfield></datafield>
</record>`

	p := NewParser()
	records, recordErrs, err := p.ParseCollection(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, recordErrs)
	require.Len(t, records, 1)

	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "generated", records[0].Provenance["id"])
}

func TestParseCollectionFixedFieldLanguageFallback(t *testing.T) {
	fixed := strings.Repeat(" ", 35) + "lat" + "  "
	input := `<record>
  <controlfield tag="001">rec-008</controlfield>
  <controlfield tag="008">` + fixed + `</controlfield>
  <datafield tag="245"><subfield code="a">Latin work</subfield></datafield>
</record>`

	p := NewParser()
	records, _, err := p.ParseCollection(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, []string{"lat"}, records[0].Languages)
	assert.Equal(t, "008/35-37", records[0].Provenance["language[0]"])
}

func TestParseCollectionBrokenXML(t *testing.T) {
	input := `<collection>` +
		`<record><controlfield tag="001">rec-ok</controlfield>` +
		`<datafield tag="245"><subfield code="a">Kept</subfield></datafield></record>` +
		`<record><controlfield tag="001">x</controlfield>`

	p := NewParser()
	records, _, err := p.ParseCollection(strings.NewReader(input))

	// Broken XML aborts the stream, but records decoded before the
	// break survive.
	assert.Error(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-ok", records[0].ID)
}

func TestRecordErrorString(t *testing.T) {
	err := &RecordError{Ordinal: 3, ControlNumber: "rec-x", Err: domain.ErrInvalidInput}
	assert.Contains(t, err.Error(), "record 3")
	assert.Contains(t, err.Error(), "rec-x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
