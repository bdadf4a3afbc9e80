package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	serr "github.com/I14Y-ch/structure-generator/errors"
)

// SnapshotVersion is the current snapshot wire format version.
const SnapshotVersion = 1

//go:embed snapshot_schema.json
var snapshotSchema []byte

// Snapshot is the JSON wire format for a full graph.
type Snapshot struct {
	Version int          `json:"version"`
	Nodes   []NodeRecord `json:"nodes"`
	Edges   []EdgeRecord `json:"edges"`
}

// NodeRecord is the wire form of a Node.
type NodeRecord struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Title         Text            `json:"title"`
	Description   Text            `json:"description,omitempty"`
	Datatype      string          `json:"datatype,omitempty"`
	MinCount      *int            `json:"min_count,omitempty"`
	MaxCount      *int            `json:"max_count,omitempty"`
	MinLength     *int            `json:"min_length,omitempty"`
	MaxLength     *int            `json:"max_length,omitempty"`
	Pattern       string          `json:"pattern,omitempty"`
	InValues      []string        `json:"in_values,omitempty"`
	NodeReference string          `json:"node_reference,omitempty"`
	Range         string          `json:"range,omitempty"`
	Order         *int            `json:"order,omitempty"`
	XoneGroups    [][]string      `json:"xone_groups,omitempty"`
	ConceptID     string          `json:"concept_id,omitempty"`
	ConceptURI    string          `json:"concept_uri,omitempty"`
	DatasetURI    string          `json:"dataset_uri,omitempty"`
	Linked        bool            `json:"linked,omitempty"`
	External      json.RawMessage `json:"external,omitempty"`
	Connections   []string        `json:"connections,omitempty"`
}

// EdgeRecord is the wire form of an Edge.
type EdgeRecord struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Cardinality string `json:"cardinality"`
}

// Snapshot captures the full graph state in insertion order. Nodes and
// Edges are never nil so the wire form always carries arrays.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Version: SnapshotVersion,
		Nodes:   []NodeRecord{},
		Edges:   []EdgeRecord{},
	}
	for _, n := range g.Nodes() {
		s.Nodes = append(s.Nodes, NodeRecord{
			ID:            n.ID,
			Kind:          string(n.Kind),
			Title:         n.Title,
			Description:   n.Description,
			Datatype:      n.Datatype,
			MinCount:      n.MinCount,
			MaxCount:      n.MaxCount,
			MinLength:     n.MinLength,
			MaxLength:     n.MaxLength,
			Pattern:       n.Pattern,
			InValues:      n.InValues,
			NodeReference: n.NodeReference,
			Range:         n.Range,
			Order:         n.Order,
			XoneGroups:    n.XoneGroups,
			ConceptID:     n.ConceptID,
			ConceptURI:    n.ConceptURI,
			DatasetURI:    n.DatasetURI,
			Linked:        n.Linked,
			External:      n.External,
			Connections:   n.Connections(),
		})
	}
	for _, n := range g.Nodes() {
		for _, other := range n.Connections() {
			if e, ok := g.edges[EdgeID(n.ID, other)]; ok {
				s.Edges = append(s.Edges, EdgeRecord{
					ID:          e.ID,
					From:        e.From,
					To:          e.To,
					Cardinality: e.Cardinality,
				})
			}
		}
	}
	return s
}

// MarshalSnapshot serializes the graph to its JSON wire form.
func (g *Graph) MarshalSnapshot() ([]byte, error) {
	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		return nil, serr.Wrap(err, "schema", "MarshalSnapshot", "serialize graph")
	}
	return data, nil
}

// ValidateSnapshot checks raw snapshot JSON against the wire format
// schema and reports every violation at once.
func ValidateSnapshot(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return serr.WrapInvalid(err, "schema", "ValidateSnapshot", "parse snapshot")
	}
	if !result.Valid() {
		msg := ""
		for i, e := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += e.String()
		}
		return serr.WrapInvalid(fmt.Errorf("%s: %w", msg, serr.ErrInvalidData),
			"schema", "ValidateSnapshot", "validate snapshot")
	}
	return nil
}

// LoadSnapshot validates and reconstructs a graph from its JSON wire
// form. The snapshot must contain exactly one dataset node.
func LoadSnapshot(data []byte) (*Graph, error) {
	if err := ValidateSnapshot(data); err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, serr.WrapInvalid(err, "schema", "LoadSnapshot", "decode snapshot")
	}
	return s.Restore()
}

// Restore rebuilds a graph from a decoded snapshot.
func (s Snapshot) Restore() (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string]*Edge),
	}
	for _, r := range s.Nodes {
		kind, err := ParseKind(r.Kind)
		if err != nil {
			return nil, serr.WrapInvalid(err, "schema", "Restore", "parse node kind")
		}
		if kind == KindDataset {
			if g.datasetID != "" {
				return nil, serr.WrapInvalid(serr.ErrDatasetExists,
					"schema", "Restore", "restore dataset node")
			}
			g.datasetID = r.ID
		}
		n := &Node{
			ID:            r.ID,
			Kind:          kind,
			Title:         r.Title,
			Description:   r.Description,
			Datatype:      r.Datatype,
			MinCount:      r.MinCount,
			MaxCount:      r.MaxCount,
			MinLength:     r.MinLength,
			MaxLength:     r.MaxLength,
			Pattern:       r.Pattern,
			InValues:      r.InValues,
			NodeReference: r.NodeReference,
			Range:         r.Range,
			Order:         r.Order,
			XoneGroups:    r.XoneGroups,
			ConceptID:     r.ConceptID,
			ConceptURI:    r.ConceptURI,
			DatasetURI:    r.DatasetURI,
			Linked:        r.Linked,
			External:      r.External,
			connections:   append([]string(nil), r.Connections...),
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, serr.WrapInvalid(
				fmt.Errorf("duplicate node %s: %w", n.ID, serr.ErrInvalidData),
				"schema", "Restore", "restore node")
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	if g.datasetID == "" {
		return nil, serr.WrapInvalid(serr.ErrDatasetMissing,
			"schema", "Restore", "locate dataset node")
	}
	for _, id := range g.order {
		n := g.nodes[id]
		for _, other := range n.connections {
			peer, ok := g.nodes[other]
			if !ok {
				return nil, serr.WrapInvalid(
					fmt.Errorf("connection %s-%s: %w", n.ID, other, serr.ErrNodeNotFound),
					"schema", "Restore", "restore connection")
			}
			// Connections are symmetric. An unmirrored one would leave a
			// dangling reference after the peer is deleted.
			if !peer.ConnectedTo(n.ID) {
				return nil, serr.WrapInvalid(
					fmt.Errorf("connection %s-%s not mirrored: %w", n.ID, other, serr.ErrInvalidData),
					"schema", "Restore", "restore connection")
			}
		}
	}
	for _, r := range s.Edges {
		if _, ok := g.nodes[r.From]; !ok {
			return nil, serr.WrapInvalid(
				fmt.Errorf("edge endpoint %s: %w", r.From, serr.ErrNodeNotFound),
				"schema", "Restore", "restore edge")
		}
		if _, ok := g.nodes[r.To]; !ok {
			return nil, serr.WrapInvalid(
				fmt.Errorf("edge endpoint %s: %w", r.To, serr.ErrNodeNotFound),
				"schema", "Restore", "restore edge")
		}
		id := r.ID
		if id == "" {
			id = EdgeID(r.From, r.To)
		}
		card := r.Cardinality
		if card == "" {
			card = DefaultCardinality
		}
		g.edges[id] = &Edge{ID: id, From: r.From, To: r.To, Cardinality: card}
	}
	for _, e := range g.edges {
		if !g.nodes[e.From].ConnectedTo(e.To) {
			return nil, serr.WrapInvalid(
				fmt.Errorf("edge %s-%s without connection: %w", e.From, e.To, serr.ErrInvalidData),
				"schema", "Restore", "restore edge")
		}
	}
	// Connected pairs without an edge record get the default cardinality,
	// matching what Connect would have created.
	for _, id := range g.order {
		n := g.nodes[id]
		for _, other := range n.connections {
			if _, ok := g.edges[EdgeID(n.ID, other)]; ok {
				continue
			}
			if _, ok := g.edges[EdgeID(other, n.ID)]; ok {
				continue
			}
			eid := EdgeID(n.ID, other)
			g.edges[eid] = &Edge{ID: eid, From: n.ID, To: other, Cardinality: DefaultCardinality}
		}
	}
	return g, nil
}
