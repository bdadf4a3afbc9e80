package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextResolve(t *testing.T) {
	tests := []struct {
		name string
		text Text
		want string
	}{
		{
			name: "plain text",
			text: PlainText("Bevölkerung"),
			want: "Bevölkerung",
		},
		{
			name: "german preferred",
			text: LocalizedText(map[string]string{"en": "Population", "de": "Bevölkerung"}),
			want: "Bevölkerung",
		},
		{
			name: "english fallback",
			text: LocalizedText(map[string]string{"fr": "Population", "en": "Population count"}),
			want: "Population count",
		},
		{
			name: "romansh before unknown",
			text: LocalizedText(map[string]string{"rm": "Populaziun"}),
			want: "Populaziun",
		},
		{
			name: "unknown language only",
			text: LocalizedText(map[string]string{"es": "Población"}),
			want: "Población",
		},
		{
			name: "empty",
			text: Text{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.text.Resolve())
		})
	}
}

func TestLocalizedTextNormalizesTags(t *testing.T) {
	// Regional subtags collapse to the base language.
	txt := LocalizedText(map[string]string{"de-CH": "Grüezi", "en-US": "Hello"})
	langs := txt.Languages()
	assert.Equal(t, "Grüezi", langs["de"])
	assert.Equal(t, "Hello", langs["en"])
}

func TestTextLanguagesFansOutPlain(t *testing.T) {
	langs := PlainText("Hund").Languages()
	for _, lang := range []string{"de", "en", "fr", "it"} {
		assert.Equal(t, "Hund", langs[lang])
	}
}

func TestTextJSONRoundTrip(t *testing.T) {
	// String form stays a string.
	var txt Text
	require.NoError(t, json.Unmarshal([]byte(`"Hund"`), &txt))
	assert.Equal(t, "Hund", txt.Resolve())
	data, err := json.Marshal(txt)
	require.NoError(t, err)
	assert.JSONEq(t, `"Hund"`, string(data))

	// Object form keeps per-language values.
	require.NoError(t, json.Unmarshal([]byte(`{"de":"Hund","en":"Dog"}`), &txt))
	out, err := json.Marshal(txt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"de":"Hund","en":"Dog"}`, string(out))
}

func TestSanitizeLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "collapses whitespace", input: "a \n b\t\tc", want: "a b c"},
		{name: "escapes quotes", input: `say "hi"`, want: `say \"hi\"`},
		{name: "trims", input: "  padded  ", want: "padded"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeLiteral(tt.input))
		})
	}
}

func TestUniqueLangValues(t *testing.T) {
	// Identical content in two languages keeps only the higher
	// priority language.
	got := UniqueLangValues(map[string]string{"de": "Hund", "en": "Hund"})
	assert.Equal(t, map[string]string{"de": "Hund"}, got)

	// Distinct content keeps every language.
	got = UniqueLangValues(map[string]string{"de": "Hund", "en": "Dog", "fr": "Chien"})
	assert.Len(t, got, 3)

	// Duplicates after sanitization collapse too.
	got = UniqueLangValues(map[string]string{"de": "Hund ", "fr": " Hund"})
	assert.Equal(t, map[string]string{"de": "Hund"}, got)

	// Empty values are dropped.
	got = UniqueLangValues(map[string]string{"de": "", "en": "Dog"})
	assert.Equal(t, map[string]string{"en": "Dog"}, got)
}
