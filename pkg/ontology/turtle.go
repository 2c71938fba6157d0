package ontology

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/cayleygraph/cayley/quad"
	"github.com/knakk/rdf"
)

// Document is a parsed Turtle file.
type Document struct {
	Path     string
	Triples  []rdf.Triple
	Prefixes map[string]string // prefix -> namespace IRI
}

// prefixDecl matches both "@prefix p: <ns> ." and SPARQL-style "PREFIX p: <ns>".
var prefixDecl = regexp.MustCompile(`(?mi)^\s*@?prefix\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)

// ReadTurtle reads and parses a Turtle file.
func ReadTurtle(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read ontology file %s: %w", path, err)
	}
	doc, err := ParseTurtle(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse ontology file %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// ParseTurtle parses Turtle content.
func ParseTurtle(data []byte) (*Document, error) {
	doc := &Document{Prefixes: make(map[string]string)}

	for _, m := range prefixDecl.FindAllSubmatch(data, -1) {
		doc.Prefixes[string(m[1])] = string(m[2])
	}

	dec := rdf.NewTripleDecoder(bytes.NewReader(data), rdf.Turtle)
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		doc.Triples = append(doc.Triples, t)
	}

	return doc, nil
}

// Load reads a Turtle file into a Graph.
func Load(path string) (*Graph, error) {
	doc, err := ReadTurtle(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// FromDocument builds a Graph from a parsed document.
func FromDocument(doc *Document) (*Graph, error) {
	triples := make([]Triple, 0, len(doc.Triples))
	for _, t := range doc.Triples {
		triples = append(triples, Triple{
			Subject:   FromRDF(t.Subj),
			Predicate: FromRDF(t.Pred),
			Object:    FromRDF(t.Obj),
		})
	}
	g, err := New(triples, doc.Prefixes)
	if err != nil && doc.Path != "" {
		return nil, fmt.Errorf("could not load ontology %s: %w", doc.Path, err)
	}
	return g, err
}

// FromRDF converts a parsed RDF term into a quad value. Plain and
// xsd:string literals become quad.String; other datatypes keep their type.
func FromRDF(t rdf.Term) quad.Value {
	switch v := t.(type) {
	case rdf.IRI:
		return quad.IRI(v.String())
	case rdf.Blank:
		return quad.BNode(strings.TrimPrefix(v.String(), "_:"))
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return quad.LangString{Value: quad.String(v.String()), Lang: lang}
		}
		dt := v.DataType.String()
		if dt == "" || dt == XSDString {
			return quad.String(v.String())
		}
		return quad.TypedString{Value: quad.String(v.String()), Type: quad.IRI(dt)}
	case nil:
		return nil
	default:
		return quad.String(t.String())
	}
}
