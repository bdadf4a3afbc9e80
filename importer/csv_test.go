package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
)

func TestColumnsInference(t *testing.T) {
	data := []byte("EGID;Flaeche;Aktiv;Baujahr;Erhebungsdatum;Gemeinde\n" +
		"1001;12.5;true;1987;2024-01-31;Bern\n" +
		"1002;7.25;false;2003;2024-02-15;Biel\n")

	cols, err := Columns(data, 0)
	require.NoError(t, err)
	require.Len(t, cols, 6)

	want := map[string]string{
		"EGID":           "xsd:integer",
		"Flaeche":        "xsd:decimal",
		"Aktiv":          "xsd:boolean",
		"Baujahr":        "xsd:date",
		"Erhebungsdatum": "xsd:date",
		"Gemeinde":       "xsd:string",
	}
	for _, col := range cols {
		assert.Equal(t, want[col.Name], col.Datatype, col.Name)
	}
	assert.Equal(t, 0, cols[0].Order)
	assert.Equal(t, 5, cols[5].Order)
}

func TestColumnsCommaDelimiter(t *testing.T) {
	cols, err := Columns([]byte("a,b\n1,x\n"), 0)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "xsd:integer", cols[0].Datatype)
	assert.Equal(t, "xsd:string", cols[1].Datatype)
}

func TestColumnsStripsBOM(t *testing.T) {
	cols, err := Columns([]byte("\uFEFFJahr;Wert\n2021;3\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, "Jahr", cols[0].Name)
	assert.Equal(t, "xsd:date", cols[0].Datatype)
}

func TestColumnsEmptyInput(t *testing.T) {
	_, err := Columns([]byte("   \n"), 0)
	assert.True(t, serr.IsInvalid(err))
	assert.ErrorIs(t, err, serr.ErrInvalidData)
}

func TestColumnsHeaderOnly(t *testing.T) {
	cols, err := Columns([]byte("a;b\n"), 0)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	// No sample values, everything defaults to string.
	assert.Equal(t, "xsd:string", cols[0].Datatype)
}

func TestColumnsUnnamedHeader(t *testing.T) {
	cols, err := Columns([]byte("a;;c\n1;2;3\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, "column_2", cols[1].Name)
}

func TestInferDatatypeMixedValues(t *testing.T) {
	tests := []struct {
		name   string
		column string
		values []string
		want   string
	}{
		{"digits with gap value", "wert", []string{"12", "abc"}, "xsd:string"},
		{"negative numbers are decimal", "wert", []string{"-3", "4"}, "xsd:decimal"},
		{"year column with non-year values", "jahrgang", []string{"viele"}, "xsd:string"},
		{"numeric bool tokens", "flag", []string{"1", "0"}, "xsd:integer"},
		{"date shape without calendar check", "datum", []string{"2024-99-99"}, "xsd:date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferDatatype(tt.column, tt.values))
		})
	}
}

func TestImportCSVReplacesGraph(t *testing.T) {
	g := schema.New("Alt", "")
	stale, err := g.AddNode(schema.KindClass, "Altlast", "")
	require.NoError(t, err)
	_, err = g.Connect(g.Dataset().ID, stale.ID)
	require.NoError(t, err)

	data := []byte("EGID;Gemeinde\n1001;Bern\n")
	nodes, err := ImportCSV(g, data, Options{DatasetName: "Gebäude", Lang: "de"})
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	// Old content is gone, dataset node survives with the new title.
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, "Gebäude", g.Dataset().Title.Resolve())

	assert.Equal(t, schema.KindDataElement, nodes[0].Kind)
	assert.Equal(t, "xsd:integer", nodes[0].Datatype)
	assert.Equal(t, "EGID", nodes[0].Title.Resolve())
	require.NotNil(t, nodes[1].Order)
	assert.Equal(t, 1, *nodes[1].Order)

	for _, n := range nodes {
		assert.True(t, g.Dataset().ConnectedTo(n.ID))
	}
}

func TestImportCSVBadData(t *testing.T) {
	g := schema.New("Test", "")
	_, err := ImportCSV(g, []byte(""), Options{})
	assert.True(t, serr.IsInvalid(err))
}
