// Package importer builds schema graphs from tabular sources.
//
// The CSV importer reads a header row plus sample rows, infers an XSD
// datatype per column and replaces the graph content with one data element
// node per column, all connected to the dataset node. Serialization stays
// with the rdf package; the importer only produces graph model objects.
package importer
