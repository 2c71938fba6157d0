// Package ontology provides the in-memory Ontology Graph consumed by the
// data quality checks.
//
// A Graph supports two access styles:
//
//   - Pattern iteration over (subject, predicate, object) triples through
//     Triples, Objects, Subjects and Value. These read from plain indexes and
//     keep the order in which triples were parsed.
//   - Declarative graph-pattern queries through Path and Select, backed by a
//     cayley in-memory quad store. Select returns DISTINCT rows of bound
//     variables, like a SPARQL SELECT DISTINCT.
//
// A Graph is immutable once built and is never shared across datasets.
package ontology

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/cayley"
	"github.com/cayleygraph/cayley/graph/path"
	"github.com/cayleygraph/cayley/quad"
)

// Triple is a single (subject, predicate, object) statement.
type Triple struct {
	Subject   quad.Value
	Predicate quad.Value
	Object    quad.Value
}

func (t Triple) key() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String()
}

// Row is one solution of a graph-pattern query, keyed by variable (tag) name.
type Row map[string]quad.Value

// Text returns the lexical form of a bound variable, or "" when unbound.
func (r Row) Text(name string) string {
	return Lexical(r[name])
}

// Graph is an indexed, read-only set of triples plus a namespace prefix table.
type Graph struct {
	triples  []Triple
	bySubj   map[string][]int
	byPred   map[string][]int
	prefixes map[string]string
	store    *cayley.Handle
}

// New builds a Graph from triples. Duplicate triples are dropped so the graph
// has set semantics. The prefix table may be nil.
func New(triples []Triple, prefixes map[string]string) (*Graph, error) {
	g := &Graph{
		triples:  make([]Triple, 0, len(triples)),
		bySubj:   make(map[string][]int),
		byPred:   make(map[string][]int),
		prefixes: make(map[string]string, len(prefixes)),
	}
	for p, ns := range prefixes {
		g.prefixes[p] = ns
	}

	seen := make(map[string]struct{}, len(triples))
	quads := make([]quad.Quad, 0, len(triples))
	for _, t := range triples {
		if t.Subject == nil || t.Predicate == nil || t.Object == nil {
			return nil, fmt.Errorf("incomplete triple: %v %v %v", t.Subject, t.Predicate, t.Object)
		}
		k := t.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		idx := len(g.triples)
		g.triples = append(g.triples, t)
		g.bySubj[t.Subject.String()] = append(g.bySubj[t.Subject.String()], idx)
		g.byPred[t.Predicate.String()] = append(g.byPred[t.Predicate.String()], idx)
		quads = append(quads, quad.Quad{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object})
	}

	store, err := cayley.NewMemoryGraph()
	if err != nil {
		return nil, fmt.Errorf("failed to create quad store: %w", err)
	}
	if len(quads) > 0 {
		if err := store.AddQuadSet(quads); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to load quads: %w", err)
		}
	}
	g.store = store

	return g, nil
}

// Close releases the quad store.
func (g *Graph) Close() error {
	if g.store == nil {
		return nil
	}
	return g.store.Close()
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Prefixes returns a copy of the namespace prefix table.
func (g *Graph) Prefixes() map[string]string {
	out := make(map[string]string, len(g.prefixes))
	for p, ns := range g.prefixes {
		out[p] = ns
	}
	return out
}

// =============================================================================
// Pattern iteration
// =============================================================================

// Triples returns every triple matching the pattern in parse order.
// A nil term is a wildcard.
func (g *Graph) Triples(s, p, o quad.Value) []Triple {
	var candidates []int
	switch {
	case s != nil:
		candidates = g.bySubj[s.String()]
	case p != nil:
		candidates = g.byPred[p.String()]
	default:
		out := make([]Triple, 0, len(g.triples))
		for _, t := range g.triples {
			if matches(o, t.Object) {
				out = append(out, t)
			}
		}
		return out
	}

	var out []Triple
	for _, idx := range candidates {
		t := g.triples[idx]
		if matches(s, t.Subject) && matches(p, t.Predicate) && matches(o, t.Object) {
			out = append(out, t)
		}
	}
	return out
}

// Objects returns the objects of every (s, p, *) triple.
func (g *Graph) Objects(s, p quad.Value) []quad.Value {
	var out []quad.Value
	for _, t := range g.Triples(s, p, nil) {
		out = append(out, t.Object)
	}
	return out
}

// Subjects returns the subjects of every (*, p, o) triple.
func (g *Graph) Subjects(p, o quad.Value) []quad.Value {
	var out []quad.Value
	for _, t := range g.Triples(nil, p, o) {
		out = append(out, t.Subject)
	}
	return out
}

// Value returns the first object of (s, p, *), if any.
func (g *Graph) Value(s, p quad.Value) (quad.Value, bool) {
	objs := g.Objects(s, p)
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0], true
}

func matches(pattern, v quad.Value) bool {
	return pattern == nil || pattern.String() == v.String()
}

// =============================================================================
// Declarative queries
// =============================================================================

// Path starts a cayley path over the graph. With no nodes the path starts at
// every node in the graph. Tags saved along the path stay bound as the path
// moves, so a chain of Save and Out calls joins several hops in one query.
func (g *Graph) Path(nodes ...quad.Value) *path.Path {
	return cayley.StartPath(g.store, nodes...)
}

// Select runs p and returns the DISTINCT combinations of the given tags.
// Solutions missing any of the tags are skipped. Rows are sorted by the
// lexical values of vars, in order, so results do not depend on store
// iteration order.
func (g *Graph) Select(ctx context.Context, p *path.Path, vars ...string) ([]Row, error) {
	var rows []Row
	seen := make(map[string]struct{})

	err := p.Iterate(ctx).TagValues(g.store, func(tags map[string]quad.Value) {
		row := make(Row, len(vars))
		keys := make([]string, 0, len(vars))
		for _, name := range vars {
			v, ok := tags[name]
			if !ok || v == nil {
				return
			}
			row[name] = v
			keys = append(keys, v.String())
		}
		k := strings.Join(keys, "\x00")
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		rows = append(rows, row)
	})
	if err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, name := range vars {
			a, b := rows[i].Text(name), rows[j].Text(name)
			if a != b {
				return a < b
			}
		}
		return false
	})
	return rows, nil
}

// Lexical returns the text of a term: the literal value without quotes,
// datatype or language tag, or the bare IRI.
func Lexical(v quad.Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case quad.String:
		return string(t)
	case quad.TypedString:
		return string(t.Value)
	case quad.LangString:
		return string(t.Value)
	case quad.IRI:
		return string(t)
	case quad.BNode:
		return "_:" + string(t)
	default:
		return v.String()
	}
}
