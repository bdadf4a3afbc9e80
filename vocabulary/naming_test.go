package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces to underscore", input: "Anzahl Personen", want: "Anzahl_Personen"},
		{name: "hyphens to underscore", input: "E-Mail-Adresse", want: "E_Mail_Adresse"},
		{name: "parentheses dropped", input: "Alter (Jahre)", want: "Alter_Jahre"},
		{name: "underscore runs collapse", input: "a - b", want: "a_b"},
		{name: "leading and trailing trimmed", input: " _x_ ", want: "x"},
		{name: "empty falls back", input: "", want: "property"},
		{name: "only separators falls back", input: " -() ", want: "property"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeID(tt.input))
		})
	}
}

func TestDatasetID(t *testing.T) {
	assert.Equal(t, "BEVÖLKERUNG_2024", DatasetID("Bevölkerung 2024"))
	assert.Equal(t, "DATASET", DatasetID(""))
	assert.Equal(t, "DATASET", DatasetID("()"))
}

func TestURIBuilders(t *testing.T) {
	assert.Equal(t,
		"https://www.i14y.admin.ch/resources/datasets/BEV_2024/structure/",
		DatasetNamespace("BEV_2024"))
	assert.Equal(t,
		"https://www.i14y.admin.ch/catalog/concepts/08d94b48/description",
		ConceptURI("08d94b48"))
	assert.Equal(t,
		"https://www.i14y.admin.ch/catalog/datasets/abc/description",
		DatasetURI("abc"))
}
