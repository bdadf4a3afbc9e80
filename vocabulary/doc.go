// Package vocabulary defines the RDF namespaces and naming rules used
// when emitting SHACL structure definitions for the I14Y catalog.
//
// It covers two concerns:
//
// **Namespaces**: the W3C and catalog namespace IRIs every exported
// document binds (SHACL, RDF Schema, Dublin Core, the RDF Data Cube
// vocabulary, PAV provenance, schema.org and the I14Y resource space).
//
// **Naming**: free-text titles from the editor become URI path
// segments. NormalizeID produces property and class segments, DatasetID
// the uppercased dataset segment that anchors the per-dataset
// namespace.
//
// Internal code passes titles around untouched; IRIs are built only at
// the export boundary.
package vocabulary
