package rdf

import (
	"strings"
	"unicode"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Turtle serializes the graph to Turtle text: one @prefix line per
// bound namespace, a blank line, then subject-grouped triples in
// insertion order.
func (g *Graph) Turtle() string {
	var b strings.Builder
	for _, p := range g.prefixes {
		b.WriteString("@prefix ")
		b.WriteString(p.Name)
		b.WriteString(": <")
		b.WriteString(p.Namespace)
		b.WriteString(">.\n")
	}
	if len(g.prefixes) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(g.serializeBody())
	return b.String()
}

// serializeBody renders the triples grouped by subject. Subjects keep
// first-seen order; within a subject, predicates keep first-seen order
// and repeated predicates render as comma lists.
func (g *Graph) serializeBody() string {
	type predGroup struct {
		pred    Term
		objects []Term
	}
	type subjGroup struct {
		subj  Term
		preds []*predGroup
		index map[Term]*predGroup
	}

	var subjects []*subjGroup
	subjIndex := make(map[Term]*subjGroup)
	for _, t := range g.triples {
		sg, ok := subjIndex[t.Subject]
		if !ok {
			sg = &subjGroup{subj: t.Subject, index: make(map[Term]*predGroup)}
			subjIndex[t.Subject] = sg
			subjects = append(subjects, sg)
		}
		pg, ok := sg.index[t.Predicate]
		if !ok {
			pg = &predGroup{pred: t.Predicate}
			sg.index[t.Predicate] = pg
			sg.preds = append(sg.preds, pg)
		}
		pg.objects = append(pg.objects, t.Object)
	}

	var b strings.Builder
	for i, sg := range subjects {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(g.formatTerm(sg.subj))
		for j, pg := range sg.preds {
			if j == 0 {
				b.WriteString(" ")
			} else {
				b.WriteString(" ;\n    ")
			}
			if pg.pred.Kind == KindIRI && pg.pred.Value == rdfType {
				b.WriteString("a")
			} else {
				b.WriteString(g.formatTerm(pg.pred))
			}
			for k, o := range pg.objects {
				if k == 0 {
					b.WriteString(" ")
				} else {
					b.WriteString(",\n        ")
				}
				b.WriteString(g.formatTerm(o))
			}
		}
		b.WriteString(" .\n")
	}
	return b.String()
}

func (g *Graph) formatTerm(t Term) string {
	switch t.Kind {
	case KindIRI:
		return g.formatIRI(t.Value)
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		return `"` + escapeLiteral(t.Value) + `"`
	case KindLangLiteral:
		return `"` + escapeLiteral(t.Value) + `"@` + t.Lang
	case KindTypedLiteral:
		return `"` + escapeLiteral(t.Value) + `"^^` + g.formatIRI(t.Datatype)
	}
	return ""
}

// formatIRI shortens an IRI against the bound prefixes when the
// remainder is a valid local name, otherwise wraps it in angle
// brackets. The longest matching namespace wins.
func (g *Graph) formatIRI(iri string) string {
	bestName, bestNS := "", ""
	for _, p := range g.prefixes {
		if strings.HasPrefix(iri, p.Namespace) && len(p.Namespace) > len(bestNS) {
			bestName, bestNS = p.Name, p.Namespace
		}
	}
	if bestNS != "" {
		local := iri[len(bestNS):]
		if validLocalName(local) {
			return bestName + ":" + local
		}
	}
	return "<" + iri + ">"
}

// validLocalName reports whether s can stand after a prefix colon
// without escaping. Letters, digits, underscores and interior
// dots/hyphens are accepted.
func validLocalName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		case (r == '-' || r == '.') && i > 0 && i < len(s)-1:
		default:
			return false
		}
	}
	return !strings.HasSuffix(s, ".")
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
