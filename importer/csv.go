package importer

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
)

// yearKeywords marks column names that usually hold years, per language.
var yearKeywords = []string{
	"year", "yr", // en
	"jahr", "jahrgang", // de
	"année", "an", // fr
	"anno", "annata", // it
}

var boolTokens = map[string]bool{
	"true": true, "false": true,
	"t": true, "f": true,
	"yes": true, "no": true,
	"1": true, "0": true,
}

// Options configures a CSV import.
type Options struct {
	// DatasetName replaces the dataset node title.
	DatasetName string
	// Lang is the language tag for column titles. Empty means plain
	// literals.
	Lang string
	// Delimiter overrides autodetection when non-zero.
	Delimiter rune
}

// Column is one inferred CSV column.
type Column struct {
	Name     string
	Datatype string
	Order    int
}

// ImportCSV replaces the graph content with one data element per CSV
// column, connected to the dataset node. Returns the created nodes in
// column order.
func ImportCSV(g *schema.Graph, data []byte, opts Options) ([]*schema.Node, error) {
	cols, err := Columns(data, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	g.Reset()

	ds := g.Dataset()
	if ds == nil {
		return nil, serr.WrapFatal(serr.ErrDatasetMissing, "importer", "ImportCSV", "graph has no dataset node")
	}
	if opts.DatasetName != "" {
		title := schema.PlainText(opts.DatasetName)
		if err := g.UpdateNode(ds.ID, schema.NodeUpdate{Title: &title}); err != nil {
			return nil, err
		}
	}

	nodes := make([]*schema.Node, 0, len(cols))
	for _, col := range cols {
		node, err := g.AddNode(schema.KindDataElement, col.Name, "")
		if err != nil {
			return nil, err
		}
		node.Datatype = col.Datatype
		order := col.Order
		node.Order = &order
		if opts.Lang != "" {
			node.Title = schema.LocalizedText(map[string]string{opts.Lang: col.Name})
		}
		if _, err := g.Connect(ds.ID, node.ID); err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// Columns parses the CSV and infers a datatype per column. A zero
// delimiter autodetects between ';' and ','.
func Columns(data []byte, delimiter rune) ([]Column, error) {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return nil, serr.WrapInvalid(serr.ErrInvalidData, "importer", "Columns", "csv data is empty")
	}

	if delimiter == 0 {
		delimiter = detectDelimiter(text)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delimiter
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, serr.WrapInvalid(err, "importer", "Columns", "parse csv")
	}
	if len(records) == 0 {
		return nil, serr.WrapInvalid(serr.ErrInvalidData, "importer", "Columns", "csv has no header row")
	}

	header := records[0]
	rows := records[1:]

	cols := make([]Column, 0, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(strings.Trim(raw, "\uFEFF"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}

		var values []string
		for _, row := range rows {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				values = append(values, strings.TrimSpace(row[i]))
			}
		}

		cols = append(cols, Column{
			Name:     name,
			Datatype: inferDatatype(name, values),
			Order:    i,
		})
	}

	return cols, nil
}

func detectDelimiter(text string) rune {
	firstLine := text
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		firstLine = text[:i]
	}
	if strings.ContainsRune(firstLine, ';') {
		return ';'
	}
	return ','
}

// inferDatatype guesses an XSD datatype from the column name and sample
// values. Year columns are checked first, then progressively weaker value
// patterns, defaulting to string.
func inferDatatype(name string, values []string) string {
	if len(values) == 0 {
		return "xsd:string"
	}

	if isYearColumn(name) {
		sample := values[0]
		if (len(sample) == 4 && allDigits(sample)) || isISODate(sample) {
			return "xsd:date"
		}
	}

	if allMatch(values, allDigits) {
		return "xsd:integer"
	}
	if allMatch(values, isDecimal) {
		return "xsd:decimal"
	}
	if allMatch(values, func(v string) bool { return boolTokens[strings.ToLower(v)] }) {
		return "xsd:boolean"
	}
	if allMatch(values, isISODate) {
		return "xsd:date"
	}

	return "xsd:string"
}

func isYearColumn(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range yearKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func allMatch(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDecimal(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// isISODate accepts YYYY-MM-DD shaped values without calendar validation.
func isISODate(s string) bool {
	parts := strings.Split(s, "-")
	return len(parts) == 3 &&
		len(parts[0]) == 4 && allDigits(parts[0]) &&
		allDigits(parts[1]) && allDigits(parts[2])
}
