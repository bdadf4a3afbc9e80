package rdf

// Prefix binds a short prefix name to a namespace IRI.
type Prefix struct {
	Name      string
	Namespace string
}

// Graph is an insertion-ordered triple store with duplicate
// suppression. Triples serialize in the order they were first added,
// which keeps export output stable across runs.
type Graph struct {
	triples  []Triple
	index    map[Triple]struct{}
	prefixes []Prefix
	bound    map[string]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[Triple]struct{}),
		bound: make(map[string]string),
	}
}

// Bind registers a prefix for serialization. Rebinding an existing
// prefix name is ignored.
func (g *Graph) Bind(name, namespace string) {
	if _, ok := g.bound[name]; ok {
		return
	}
	g.bound[name] = namespace
	g.prefixes = append(g.prefixes, Prefix{Name: name, Namespace: namespace})
}

// Prefixes returns the bound prefixes in binding order.
func (g *Graph) Prefixes() []Prefix {
	out := make([]Prefix, len(g.prefixes))
	copy(out, g.prefixes)
	return out
}

// Add inserts a triple, reporting whether it was new.
func (g *Graph) Add(s, p, o Term) bool {
	t := Triple{Subject: s, Predicate: p, Object: o}
	if _, dup := g.index[t]; dup {
		return false
	}
	g.index[t] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(s, p, o Term) bool {
	_, ok := g.index[Triple{Subject: s, Predicate: p, Object: o}]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns all triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Objects returns the objects of all triples matching subject and
// predicate, in insertion order.
func (g *Graph) Objects(s, p Term) []Term {
	var out []Term
	for _, t := range g.triples {
		if t.Subject == s && t.Predicate == p {
			out = append(out, t.Object)
		}
	}
	return out
}

// Subjects returns the distinct subjects carrying the given
// predicate/object pair, in insertion order.
func (g *Graph) Subjects(p, o Term) []Term {
	var out []Term
	seen := make(map[Term]struct{})
	for _, t := range g.triples {
		if t.Predicate == p && t.Object == o {
			if _, dup := seen[t.Subject]; !dup {
				seen[t.Subject] = struct{}{}
				out = append(out, t.Subject)
			}
		}
	}
	return out
}

// List walks an RDF collection from its head term, returning the
// rdf:first objects in list order. Walking stops at rdf:nil or at a
// malformed link.
func (g *Graph) List(head Term) []Term {
	var out []Term
	nilTerm := IRI(rdfNil)
	for head != nilTerm {
		first := g.Objects(head, IRI(rdfFirst))
		if len(first) == 0 {
			break
		}
		out = append(out, first[0])
		rest := g.Objects(head, IRI(rdfRest))
		if len(rest) == 0 {
			break
		}
		head = rest[0]
	}
	return out
}

const (
	rdfFirst = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	rdfRest  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	rdfNil   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
)
