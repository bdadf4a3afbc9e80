// Package structuregenerator is the root of the structure-generator
// module, a service for building I14Y dataset structures and emitting
// them as SHACL Turtle documents.
//
// The schema package holds the editable graph model, rdf emits it as
// Turtle, i14y talks to the Swiss I14Y catalog, importer builds graphs
// from CSV files, session and api expose the editor over HTTP, and store
// persists named snapshots in NATS. See cmd/structure-generator for the
// service binary and cmd/ttl-export for offline emission.
package structuregenerator
