package i14y

import (
	"encoding/json"
	"fmt"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
	"github.com/I14Y-ch/structure-generator/vocabulary"
)

// ConceptLink converts a catalog concept record plus its extracted
// facts into the link applied to a graph node.
func ConceptLink(record Record, facts schema.ConstraintFacts) (schema.ConceptLink, error) {
	id := scalarString(record["id"])
	if id == "" {
		return schema.ConceptLink{}, serr.WrapInvalid(
			fmt.Errorf("concept record without id: %w", serr.ErrInvalidData),
			"i14y", "ConceptLink", "read concept id")
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return schema.ConceptLink{}, serr.WrapInvalid(err, "i14y", "ConceptLink", "serialize record")
	}

	return schema.ConceptLink{
		ID:          id,
		URI:         vocabulary.ConceptURI(id),
		Title:       textField(record, "title"),
		Description: textField(record, "description"),
		Raw:         raw,
		Facts:       facts,
	}, nil
}

// textField reads a string-or-multilingual field into a Text.
func textField(record Record, field string) schema.Text {
	switch v := record[field].(type) {
	case string:
		return schema.PlainText(v)
	case map[string]any:
		values := make(map[string]string, len(v))
		for lang, raw := range v {
			if s := scalarString(raw); s != "" {
				values[lang] = s
			}
		}
		return schema.LocalizedText(values)
	}
	return schema.Text{}
}
