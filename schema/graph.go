package schema

import (
	"fmt"

	serr "github.com/I14Y-ch/structure-generator/errors"
)

// Graph is the in-memory schema model: one dataset node plus the
// classes, concepts and data elements attached to it. A Graph is not
// safe for concurrent use; callers serialize access.
type Graph struct {
	nodes map[string]*Node
	// order preserves node insertion order for deterministic emission.
	order     []string
	edges     map[string]*Edge
	datasetID string
}

// New creates a graph seeded with a single dataset node.
func New(title, description string) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
	}
	ds := newNode(KindDataset, title, description)
	ds.Datatype = ""
	g.nodes[ds.ID] = ds
	g.order = append(g.order, ds.ID)
	g.datasetID = ds.ID
	return g
}

// Dataset returns the graph's dataset node.
func (g *Graph) Dataset() *Node {
	return g.nodes[g.datasetID]
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, serr.ErrNodeNotFound)
	}
	return n, nil
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodesOfKind returns the nodes of one kind, in insertion order.
func (g *Graph) NodesOfKind(kind NodeKind) []*Node {
	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// AddNode creates a new node of the given kind. A graph holds exactly
// one dataset node; adding a second is rejected.
func (g *Graph) AddNode(kind NodeKind, title, description string) (*Node, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("kind %q: %w", kind, serr.ErrInvalidKind)
	}
	if kind == KindDataset {
		return nil, fmt.Errorf("dataset node already present: %w", serr.ErrDatasetExists)
	}
	n := newNode(kind, title, description)
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return n, nil
}

// DeleteNode removes a node, its connections and its edges. The
// dataset node cannot be deleted.
func (g *Graph) DeleteNode(id string) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, serr.ErrNodeNotFound)
	}
	if n.Kind == KindDataset {
		return fmt.Errorf("node %s: %w", id, serr.ErrDatasetProtected)
	}
	for _, other := range n.Connections() {
		if o, ok := g.nodes[other]; ok {
			o.removeConnection(id)
		}
		delete(g.edges, EdgeID(id, other))
		delete(g.edges, EdgeID(other, id))
	}
	delete(g.nodes, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return nil
}

// Connect links two nodes symmetrically and records one edge with the
// default cardinality. Connecting an already connected pair is a no-op
// that returns the existing edge.
func (g *Graph) Connect(from, to string) (*Edge, error) {
	if from == to {
		return nil, fmt.Errorf("self connection %s: %w", from, serr.ErrInvalidData)
	}
	a, ok := g.nodes[from]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", from, serr.ErrNodeNotFound)
	}
	b, ok := g.nodes[to]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", to, serr.ErrNodeNotFound)
	}
	if e := g.edgeBetween(from, to); e != nil {
		return e, nil
	}
	a.addConnection(to)
	b.addConnection(from)
	e := &Edge{ID: EdgeID(from, to), From: from, To: to, Cardinality: DefaultCardinality}
	g.edges[e.ID] = e
	return e, nil
}

// Disconnect removes the link between two nodes. Disconnecting nodes
// that are not connected is a no-op.
func (g *Graph) Disconnect(from, to string) error {
	a, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("node %s: %w", from, serr.ErrNodeNotFound)
	}
	b, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("node %s: %w", to, serr.ErrNodeNotFound)
	}
	a.removeConnection(to)
	b.removeConnection(from)
	delete(g.edges, EdgeID(from, to))
	delete(g.edges, EdgeID(to, from))
	return nil
}

// EdgeBetween returns the edge linking two nodes in either direction.
func (g *Graph) EdgeBetween(from, to string) (*Edge, error) {
	if e := g.edgeBetween(from, to); e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("edge %s-%s: %w", from, to, serr.ErrEdgeNotFound)
}

func (g *Graph) edgeBetween(from, to string) *Edge {
	if e, ok := g.edges[EdgeID(from, to)]; ok {
		return e
	}
	if e, ok := g.edges[EdgeID(to, from)]; ok {
		return e
	}
	return nil
}

// UpdateEdgeCardinality sets the cardinality expression on the edge
// between two nodes. The expression is stored as given; malformed
// expressions simply yield no counts at emission time.
func (g *Graph) UpdateEdgeCardinality(from, to, cardinality string) error {
	e := g.edgeBetween(from, to)
	if e == nil {
		return fmt.Errorf("edge %s-%s: %w", from, to, serr.ErrEdgeNotFound)
	}
	e.Cardinality = cardinality
	return nil
}

// Reset drops every node except the dataset node and clears all edges.
// The dataset's own metadata is kept.
func (g *Graph) Reset() {
	ds := g.Dataset()
	ds.connections = nil
	g.nodes = map[string]*Node{ds.ID: ds}
	g.order = []string{ds.ID}
	g.edges = make(map[string]*Edge)
}

// NodeUpdate carries metadata changes for a node. Nil fields are left
// unchanged.
type NodeUpdate struct {
	Title       *Text
	Description *Text
	Datatype    *string
}

// UpdateNode applies metadata changes to a node.
func (g *Graph) UpdateNode(id string, u NodeUpdate) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, serr.ErrNodeNotFound)
	}
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Description != nil {
		n.Description = *u.Description
	}
	if u.Datatype != nil {
		n.Datatype = *u.Datatype
	}
	return nil
}

// ConstraintUpdate carries constraint changes for a node. Numeric
// fields arrive as strings; anything that does not parse as a count is
// ignored rather than rejected. Nil fields are left unchanged, empty
// strings clear the constraint.
type ConstraintUpdate struct {
	MinCount  *string
	MaxCount  *string
	MinLength *string
	MaxLength *string
	Pattern   *string
	InValues  []string
}

// UpdateConstraints applies constraint changes to a node.
func (g *Graph) UpdateConstraints(id string, u ConstraintUpdate) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, serr.ErrNodeNotFound)
	}
	applyCount(&n.MinCount, u.MinCount)
	applyCount(&n.MaxCount, u.MaxCount)
	applyCount(&n.MinLength, u.MinLength)
	applyCount(&n.MaxLength, u.MaxLength)
	if u.Pattern != nil {
		n.Pattern = *u.Pattern
	}
	if u.InValues != nil {
		n.InValues = append([]string(nil), u.InValues...)
	}
	return nil
}

// applyCount updates a count field from a string form. Empty clears,
// non-numeric input leaves the field alone.
func applyCount(dst **int, src *string) {
	if src == nil {
		return
	}
	if *src == "" {
		*dst = nil
		return
	}
	if n := parseCount(*src); n != nil {
		*dst = n
	}
}
