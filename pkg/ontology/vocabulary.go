package ontology

import (
	"strings"

	"github.com/cayleygraph/cayley/quad"
)

// =============================================================================
// Namespaces
// =============================================================================

// Namespace is the OntoUML vocabulary namespace used by catalog datasets.
const Namespace = "https://w3id.org/ontouml#"

// Well-known namespaces.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// XSDString is the implicit datatype of plain literals.
const XSDString = XSDNamespace + "string"

// =============================================================================
// Terms
// =============================================================================

// RDFType is rdf:type.
var RDFType = quad.IRI(RDFNamespace + "type")

// OntoUML predicates consulted by the data quality checks.
var (
	Name           = Term("name")
	Stereotype     = Term("stereotype")
	RelationEnd    = Term("relationEnd")
	PropertyType   = Term("propertyType")
	General        = Term("general")
	Specific       = Term("specific")
	Generalization = Term("generalization")
	IsComplete     = Term("isComplete")
	IsDisjoint     = Term("isDisjoint")
)

// OntoUML type markers.
var (
	Class                 = Term("Class")
	GeneralizationType    = Term("Generalization")
	GeneralizationSetType = Term("GeneralizationSet")
)

// Term returns the IRI of a local name in the OntoUML namespace.
func Term(local string) quad.IRI {
	return quad.IRI(Namespace + local)
}

// LocalName strips the OntoUML namespace from an IRI string.
// Strings outside the namespace are returned with every occurrence of the
// namespace removed, matching plain textual replacement.
func LocalName(iri string) string {
	return strings.ReplaceAll(iri, Namespace, "")
}

// DefaultPrefixes is the prefix table bound on release files.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"ontouml": Namespace,
		"dcat":    "http://www.w3.org/ns/dcat#",
		"dct":     "http://purl.org/dc/terms/",
		"ocmv":    "https://w3id.org/ontouml-models/vocabulary#",
		"skos":    "http://www.w3.org/2004/02/skos/core#",
		"mod":     "https://w3id.org/mod#",
		"vcard":   "http://www.w3.org/2006/vcard/ns#",
		"vann":    "http://purl.org/vocab/vann/",
	}
}
