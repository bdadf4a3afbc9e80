package schema

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Languages recognised in catalog metadata, in display fallback order.
var fallbackOrder = []string{"de", "en", "fr", "it", "rm"}

// Languages eligible for literal emission, in dedup priority order.
// Romansh is kept in the model but never emitted (catalog ingestion
// accepts de/fr/it/en tags only).
var emitPriority = []string{"de", "en", "fr", "it"}

// Text is a human-readable value that is either a plain string or a
// mapping from language code to string. The zero value is empty.
type Text struct {
	plain     string
	localized map[string]string
}

// PlainText creates a Text holding a single untagged string.
func PlainText(s string) Text {
	return Text{plain: s}
}

// LocalizedText creates a Text from a language-to-string mapping.
// Language tags are normalized to their base ("de-CH" becomes "de");
// unparsable tags are dropped.
func LocalizedText(values map[string]string) Text {
	localized := make(map[string]string, len(values))
	for lang, value := range values {
		if value == "" {
			continue
		}
		base, ok := normalizeLang(lang)
		if !ok {
			continue
		}
		if _, exists := localized[base]; !exists {
			localized[base] = value
		}
	}
	return Text{localized: localized}
}

// normalizeLang reduces a BCP-47 tag to its base language code.
func normalizeLang(tag string) (string, bool) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := parsed.Base()
	return base.String(), true
}

// IsEmpty reports whether the text has no content in any language.
func (t Text) IsEmpty() bool {
	if t.plain != "" {
		return false
	}
	for _, v := range t.localized {
		if v != "" {
			return false
		}
	}
	return true
}

// Resolve returns the single display string using the fixed fallback
// order de, en, fr, it, rm, then the first available language.
func (t Text) Resolve() string {
	if len(t.localized) == 0 {
		return t.plain
	}
	for _, lang := range fallbackOrder {
		if v := t.localized[lang]; v != "" {
			return v
		}
	}
	// First available under lexical order, for determinism.
	langs := make([]string, 0, len(t.localized))
	for lang := range t.localized {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if v := t.localized[lang]; v != "" {
			return v
		}
	}
	return t.plain
}

// Languages returns the per-language values eligible for emission.
// A plain text fans out to every emission language so the dedup policy
// can reduce it back to a single tagged literal.
func (t Text) Languages() map[string]string {
	out := make(map[string]string, len(emitPriority))
	if len(t.localized) == 0 {
		if t.plain == "" {
			return out
		}
		for _, lang := range emitPriority {
			out[lang] = t.plain
		}
		return out
	}
	base := t.Resolve()
	for _, lang := range emitPriority {
		if v := t.localized[lang]; v != "" {
			out[lang] = v
		} else if base != "" {
			out[lang] = base
		}
	}
	return out
}

// MarshalJSON encodes plain text as a JSON string and localized text as
// a language-to-string object.
func (t Text) MarshalJSON() ([]byte, error) {
	if len(t.localized) > 0 {
		return json.Marshal(t.localized)
	}
	return json.Marshal(t.plain)
}

// UnmarshalJSON accepts either form.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = PlainText(s)
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*t = LocalizedText(m)
	return nil
}

// SanitizeLiteral collapses internal whitespace and newlines to single
// spaces and escapes embedded double quotes, making the value safe to
// embed in a Turtle literal.
func SanitizeLiteral(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	return strings.ReplaceAll(cleaned, `"`, `\"`)
}

// UniqueLangValues reduces a language-to-text mapping so that no two
// languages carry the same sanitized content. Each distinct content value
// is attributed to exactly one language, chosen by priority de > en >
// fr > it. Catalog ingestion rejects duplicate literal values under the
// same property with different language tags, so this runs before any
// multilingual literal is emitted.
func UniqueLangValues(values map[string]string) map[string]string {
	seen := make(map[string]bool, len(values))
	unique := make(map[string]string, len(values))
	for _, lang := range emitPriority {
		value := values[lang]
		if value == "" {
			continue
		}
		cleaned := SanitizeLiteral(value)
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		unique[lang] = cleaned
	}
	return unique
}
