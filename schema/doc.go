// Package schema implements the in-memory schema graph model: nodes,
// edges, constraints, multilingual text, and the structural operations
// used to build a dataset structure description interactively.
//
// # Model
//
// A Graph owns all nodes and edges by id. Exactly one Dataset node exists
// at any time; Class, Concept, and DataElement nodes hang off it through
// symmetric connections. Every connection is mirrored by exactly one edge
// record carrying a cardinality string ("1..1", "0..n", ...).
//
// The graph has no persistence lifecycle of its own. Snapshot() produces
// the wire format used for save/load and offline export; serialization to
// Turtle is a pure read performed by the rdf package.
//
// # Concurrency
//
// Graph is not safe for concurrent use. The session package serializes
// all operations on a graph through a per-session lock.
package schema
