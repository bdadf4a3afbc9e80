package i14y

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/I14Y-ch/structure-generator/schema"
)

// Source derives constraint facts for catalog concepts by combining
// the concept record with its codelist export. It implements
// schema.ConstraintSource.
type Source struct {
	client *Client
}

// NewSource creates a constraint source backed by the given client.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Facts fetches the concept record and its codelist in parallel and
// extracts whatever constraints they state. A concept that yields no
// facts is not an error.
func (s *Source) Facts(ctx context.Context, conceptID string) (schema.ConstraintFacts, error) {
	var (
		record  Record
		entries []Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		record, err = s.client.ConceptDetails(gctx, conceptID)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.client.CodelistEntries(gctx, conceptID)
		return err
	})
	if err := g.Wait(); err != nil {
		return schema.ConstraintFacts{}, err
	}

	return ExtractFacts(record, entries), nil
}

// ExtractFacts derives constraint facts from a concept record and its
// codelist entries. Only explicitly stated facts are taken; nothing is
// guessed from free text.
func ExtractFacts(record Record, entries []Record) schema.ConstraintFacts {
	var facts schema.ConstraintFacts

	if pattern, ok := record["pattern"].(string); ok && pattern != "" {
		facts.Pattern = pattern
	}

	facts.InValues = codelistValues(entries)
	facts.Datatype = extractDatatype(record)
	facts.MinLength = intField(record, "minLength")
	facts.MaxLength = intField(record, "maxLength")

	return facts
}

// Fields checked for an entry's code value, in preference order.
var codeFields = []string{"code", "value", "identifier", "id", "key", "Code", "Value"}

// Multilingual fields used when no direct code value exists.
var nameFields = []string{"name", "title", "label", "Name", "Title", "Label"}

// codelistValues extracts one enumeration value per entry, preferring
// code-like fields and falling back to multilingual names.
func codelistValues(entries []Record) []string {
	var values []string
	for _, entry := range entries {
		if v := entryValue(entry); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func entryValue(entry Record) string {
	for _, field := range codeFields {
		if v := scalarString(entry[field]); v != "" {
			return v
		}
	}
	for _, field := range nameFields {
		raw, ok := entry[field]
		if !ok {
			continue
		}
		if localized, ok := raw.(map[string]any); ok {
			for _, lang := range []string{"de", "en", "fr", "it"} {
				if v := scalarString(localized[lang]); v != "" {
					return v
				}
			}
			continue
		}
		if v := scalarString(raw); v != "" {
			return v
		}
	}
	return ""
}

// scalarString renders a scalar JSON value as a string. Containers
// yield empty.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// extractDatatype maps the record's explicit type fields to an XSD
// datatype. Precedence: datatype, then conceptValueType, then format.
func extractDatatype(record Record) string {
	if dt, ok := record["datatype"].(string); ok && dt != "" {
		if mapped := mapDatatype(strings.ToLower(dt)); mapped != "" {
			return mapped
		}
	}

	if ct, ok := record["conceptValueType"].(string); ok && ct != "" {
		if mapped := mapValueType(strings.ToLower(ct)); mapped != "" {
			return mapped
		}
	}

	if format, ok := record["format"].(string); ok && format != "" {
		switch f := strings.ToLower(format); {
		case strings.Contains(f, "date"):
			return "xsd:date"
		case strings.Contains(f, "uri"), strings.Contains(f, "url"):
			return "xsd:anyURI"
		case strings.Contains(f, "email"):
			return "xsd:string"
		}
	}

	return ""
}

func mapDatatype(dt string) string {
	switch {
	case strings.Contains(dt, "string"), strings.Contains(dt, "text"):
		return "xsd:string"
	case strings.Contains(dt, "datetime"):
		return "xsd:dateTime"
	case strings.Contains(dt, "date"):
		return "xsd:date"
	case strings.Contains(dt, "int"), strings.Contains(dt, "number"),
		strings.Contains(dt, "decimal"), strings.Contains(dt, "float"):
		return "xsd:decimal"
	case strings.Contains(dt, "bool"):
		return "xsd:boolean"
	case strings.Contains(dt, "uri"), strings.Contains(dt, "url"):
		return "xsd:anyURI"
	}
	return ""
}

func mapValueType(ct string) string {
	switch {
	case strings.Contains(ct, "date") && strings.Contains(ct, "time"):
		return "xsd:dateTime"
	case strings.Contains(ct, "date"):
		return "xsd:date"
	case strings.Contains(ct, "number"), strings.Contains(ct, "integer"),
		strings.Contains(ct, "numeric"):
		return "xsd:decimal"
	case strings.Contains(ct, "bool"):
		return "xsd:boolean"
	case strings.Contains(ct, "string"), strings.Contains(ct, "text"):
		return "xsd:string"
	case strings.Contains(ct, "uri"), strings.Contains(ct, "url"):
		return "xsd:anyURI"
	}
	return ""
}

// intField reads an integer-valued field, accepting both JSON numbers
// and numeric strings.
func intField(record Record, field string) *int {
	switch v := record[field].(type) {
	case float64:
		n := int(v)
		return &n
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}
