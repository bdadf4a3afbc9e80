package schema

import (
	"encoding/json"

	"github.com/google/uuid"
)

// DefaultDatatype is the XSD datatype assigned to property nodes that
// carry no explicit datatype.
const DefaultDatatype = "xsd:string"

// Node is a single schema element. Nodes are owned by a Graph and must
// only be mutated through Graph operations or while holding the owning
// session's lock.
type Node struct {
	ID          string
	Kind        NodeKind
	Title       Text
	Description Text

	// Datatype is an XSD datatype reference such as "xsd:date", or a
	// full IRI for non-XSD types.
	Datatype string

	// SHACL constraint set. Nil pointers mean "unset".
	MinCount      *int
	MaxCount      *int
	MinLength     *int
	MaxLength     *int
	Pattern       string
	InValues      []string
	NodeReference string
	Range         string
	Order         *int
	XoneGroups    [][]string

	// Catalog linkage for concepts and data elements.
	ConceptID  string
	ConceptURI string
	DatasetURI string
	Linked     bool
	// External holds the raw catalog metadata blob, passed through
	// unchanged on snapshot round-trips.
	External json.RawMessage

	// connections holds ids of connected nodes in insertion order.
	// Always symmetric: if A lists B, B lists A.
	connections []string
}

// newNode creates an unconnected node with a fresh id.
func newNode(kind NodeKind, title, description string) *Node {
	return &Node{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       PlainText(title),
		Description: PlainText(description),
		Datatype:    DefaultDatatype,
	}
}

// DisplayTitle resolves the title to a single display string.
func (n *Node) DisplayTitle() string {
	return n.Title.Resolve()
}

// Connections returns the ids of connected nodes in insertion order.
// The returned slice is a copy.
func (n *Node) Connections() []string {
	out := make([]string, len(n.connections))
	copy(out, n.connections)
	return out
}

// ConnectedTo reports whether the node lists id as a connection.
func (n *Node) ConnectedTo(id string) bool {
	for _, c := range n.connections {
		if c == id {
			return true
		}
	}
	return false
}

// addConnection appends id if not already present.
func (n *Node) addConnection(id string) {
	if !n.ConnectedTo(id) {
		n.connections = append(n.connections, id)
	}
}

// removeConnection drops id, preserving the order of the rest.
func (n *Node) removeConnection(id string) {
	for i, c := range n.connections {
		if c == id {
			n.connections = append(n.connections[:i], n.connections[i+1:]...)
			return
		}
	}
}

// ConstraintFacts are the optional constraint-related facts a
// ConstraintSource can derive from an external concept record. Absent
// facts are zero-valued and leave the node untouched.
type ConstraintFacts struct {
	Pattern   string
	InValues  []string
	Datatype  string
	MinLength *int
	MaxLength *int
}

// ApplyFacts merges extracted constraint facts into the node. Only
// present facts overwrite; absence never clears an existing value.
func (n *Node) ApplyFacts(f ConstraintFacts) {
	if f.Pattern != "" {
		n.Pattern = f.Pattern
	}
	if len(f.InValues) > 0 {
		n.InValues = append([]string(nil), f.InValues...)
	}
	if f.Datatype != "" {
		n.Datatype = f.Datatype
	}
	if f.MinLength != nil {
		v := *f.MinLength
		n.MinLength = &v
	}
	if f.MaxLength != nil {
		v := *f.MaxLength
		n.MaxLength = &v
	}
}

// ConceptLink carries everything needed to bind a node to an external
// catalog concept.
type ConceptLink struct {
	ID          string
	URI         string
	Title       Text
	Description Text
	Raw         json.RawMessage
	Facts       ConstraintFacts
}

// LinkConcept binds the node to an external concept: identity, canonical
// URI, multilingual metadata, the opaque raw record, and any extracted
// constraint facts.
func (n *Node) LinkConcept(link ConceptLink) {
	n.ConceptID = link.ID
	n.ConceptURI = link.URI
	n.Linked = true
	n.External = link.Raw
	if !link.Title.IsEmpty() {
		n.Title = link.Title
	}
	if !link.Description.IsEmpty() {
		n.Description = link.Description
	}
	n.ApplyFacts(link.Facts)
}

// UnlinkConcept removes the external concept binding, keeping title,
// description and constraints as they are.
func (n *Node) UnlinkConcept() {
	n.ConceptID = ""
	n.ConceptURI = ""
	n.Linked = false
	n.External = nil
}
