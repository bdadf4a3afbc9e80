// Package rdf provides a minimal in-memory triple store and Turtle
// serializer tailored to SHACL structure-definition export.
package rdf

// TermKind discriminates the RDF term variants.
type TermKind int

const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
	KindLangLiteral
	KindTypedLiteral
)

// Term is an RDF term. Value holds the IRI, blank node label or
// literal lexical form depending on Kind.
type Term struct {
	Kind     TermKind
	Value    string
	Lang     string
	Datatype string
}

// IRI creates an IRI term.
func IRI(value string) Term {
	return Term{Kind: KindIRI, Value: value}
}

// Blank creates a blank node term with an explicit label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal creates a plain string literal.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral creates a language-tagged literal.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLangLiteral, Value: value, Lang: lang}
}

// TypedLiteral creates a literal with an explicit datatype IRI.
func TypedLiteral(value, datatype string) Term {
	return Term{Kind: KindTypedLiteral, Value: value, Datatype: datatype}
}

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool {
	return t.Kind == KindIRI
}

// Triple is a single RDF statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}
