package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddDeduplicates(t *testing.T) {
	g := NewGraph()
	s := IRI("http://example.org/s")
	p := IRI("http://example.org/p")
	o := Literal("v")

	assert.True(t, g.Add(s, p, o))
	assert.False(t, g.Add(s, p, o))
	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(s, p, o))
}

func TestGraphList(t *testing.T) {
	g := NewGraph()
	first := IRI(rdfFirst)
	rest := IRI(rdfRest)
	b0, b1 := Blank("autos0"), Blank("autos1")
	g.Add(b0, first, Literal("a"))
	g.Add(b0, rest, b1)
	g.Add(b1, first, Literal("b"))
	g.Add(b1, rest, IRI(rdfNil))

	values := g.List(b0)
	require.Len(t, values, 2)
	assert.Equal(t, "a", values[0].Value)
	assert.Equal(t, "b", values[1].Value)
}

func TestTurtleSerialization(t *testing.T) {
	g := NewGraph()
	g.Bind("ex", "http://example.org/")
	g.Bind("sh", "http://www.w3.org/ns/shacl#")

	s := IRI("http://example.org/shape")
	g.Add(s, IRI(rdfType), IRI("http://www.w3.org/ns/shacl#NodeShape"))
	g.Add(s, IRI(rdfType), IRI("http://www.w3.org/ns/shacl#PropertyShape"))
	g.Add(s, IRI("http://example.org/label"), LangLiteral("Hund", "de"))

	out := g.Turtle()
	assert.Contains(t, out, "@prefix ex: <http://example.org/>.")
	// rdf:type renders as "a" and repeated predicates as comma lists.
	assert.Contains(t, out, "ex:shape a sh:NodeShape,")
	assert.Contains(t, out, "sh:PropertyShape ;")
	assert.Contains(t, out, `ex:label "Hund"@de .`)
}

func TestFormatIRIShortening(t *testing.T) {
	g := NewGraph()
	g.Bind("ex", "http://example.org/")

	// Shortens when the local part is a plain name.
	assert.Equal(t, "ex:name", g.formatIRI("http://example.org/name"))
	// Falls back to angle brackets when the remainder has a slash.
	assert.Equal(t, "<http://example.org/a/b>", g.formatIRI("http://example.org/a/b"))
	// Unknown namespaces stay absolute.
	assert.Equal(t, "<http://other.org/x>", g.formatIRI("http://other.org/x"))
}

func TestLiteralEscaping(t *testing.T) {
	g := NewGraph()
	s := IRI("http://example.org/s")
	g.Add(s, IRI("http://example.org/p"), Literal(`a "quoted" \ value`))

	out := g.Turtle()
	assert.Contains(t, out, `"a \"quoted\" \\ value"`)
}

func TestTurtleIsDeterministic(t *testing.T) {
	build := func() string {
		g := NewGraph()
		g.Bind("ex", "http://example.org/")
		for _, name := range []string{"c", "a", "b"} {
			s := IRI("http://example.org/" + name)
			g.Add(s, IRI(rdfType), IRI("http://example.org/T"))
			g.Add(s, IRI("http://example.org/v"), Literal(name))
		}
		return g.Turtle()
	}
	first := build()
	for range 5 {
		assert.Equal(t, first, build())
	}
	// Subjects appear in insertion order.
	assert.Less(t, strings.Index(first, "ex:c"), strings.Index(first, "ex:a"))
}
