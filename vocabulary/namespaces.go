package vocabulary

// Standard vocabulary namespaces
//
// These constants cover the vocabularies bound in every exported
// structure definition. Use them when constructing IRIs so that the
// serializer can shorten terms against the canonical prefix block.
//
// References:
// - SHACL: https://www.w3.org/TR/shacl/
// - RDF Data Cube: https://www.w3.org/TR/vocab-data-cube/
// - Dublin Core: https://www.dublincore.org/specifications/dublin-core/dcmi-terms/
// - PAV: https://pav-ontology.github.io/pav/
const (
	RDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	XSD    = "http://www.w3.org/2001/XMLSchema#"
	XML    = "http://www.w3.org/XML/1998/namespace"
	OWL    = "http://www.w3.org/2002/07/owl#"
	SH     = "http://www.w3.org/ns/shacl#"
	QB     = "http://purl.org/linked-data/cube#"
	DCT    = "http://purl.org/dc/terms/"
	PAV    = "http://purl.org/pav/"
	Schema = "https://schema.org/"
)

// I14Y catalog namespaces
const (
	// I14YBase is the root of the Swiss interoperability platform's
	// public resource space.
	I14YBase = "https://www.i14y.admin.ch"

	// I14YVocab is the prefix bound as i14y: in exported documents.
	I14YVocab = I14YBase + "/resources/datasets/"
)

// RDF core terms
const (
	RDFType  = RDF + "type"
	RDFFirst = RDF + "first"
	RDFRest  = RDF + "rest"
	RDFNil   = RDF + "nil"
)

// RDF Schema terms
const (
	RDFSClass   = RDFS + "Class"
	RDFSLabel   = RDFS + "label"
	RDFSComment = RDFS + "comment"
	RDFSRange   = RDFS + "range"
)

// SHACL terms
const (
	SHNodeShape     = SH + "NodeShape"
	SHPropertyShape = SH + "PropertyShape"
	SHProperty      = SH + "property"
	SHPath          = SH + "path"
	SHName          = SH + "name"
	SHDescription   = SH + "description"
	SHDatatype      = SH + "datatype"
	SHNodeKind      = SH + "nodeKind"
	SHNode          = SH + "node"
	SHClass         = SH + "class"
	SHMinCount      = SH + "minCount"
	SHMaxCount      = SH + "maxCount"
	SHMinLength     = SH + "minLength"
	SHMaxLength     = SH + "maxLength"
	SHPattern       = SH + "pattern"
	SHIn            = SH + "in"
	SHXone          = SH + "xone"
	SHOrder         = SH + "order"
	SHClosed        = SH + "closed"
	SHLiteral       = SH + "Literal"
	SHIRI           = SH + "IRI"
)

// OWL terms
const (
	OWLDatatypeProperty = OWL + "DatatypeProperty"
	OWLObjectProperty   = OWL + "ObjectProperty"
)

// RDF Data Cube terms
const (
	QBStructureDefinition = QB + "DataStructureDefinition"
	QBAttributeProperty   = QB + "AttributeProperty"
	QBDimensionProperty   = QB + "DimensionProperty"
	QBCodedProperty       = QB + "CodedProperty"
)

// Dublin Core terms
const (
	DCTTitle       = DCT + "title"
	DCTDescription = DCT + "description"
	DCTIdentifier  = DCT + "identifier"
	DCTConformsTo  = DCT + "conformsTo"
)

// PAV and schema.org provenance terms
const (
	PAVVersion      = PAV + "version"
	SchemaVersion   = Schema + "version"
	SchemaValidFrom = Schema + "validFrom"
)

// XSD datatypes the editor offers for properties. Values entered as
// prefixed names resolve against this namespace.
const (
	XSDString  = XSD + "string"
	XSDInteger = XSD + "integer"
	XSDDecimal = XSD + "decimal"
	XSDBoolean = XSD + "boolean"
	XSDDate    = XSD + "date"
	XSDAnyURI  = XSD + "anyURI"
)
