package quality

import (
	"context"
	"testing"

	"github.com/cayleygraph/cayley/quad"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(local string) quad.IRI {
	return quad.IRI("https://example.org/model#" + local)
}

func triple(s, p, o quad.Value) ontology.Triple {
	return ontology.Triple{Subject: s, Predicate: p, Object: o}
}

func newGraph(t *testing.T, triples ...ontology.Triple) *ontology.Graph {
	t.Helper()
	g, err := ontology.New(triples, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func namedClass(id, name string) []ontology.Triple {
	return []ontology.Triple{
		triple(node(id), ontology.RDFType, ontology.Class),
		triple(node(id), ontology.Name, quad.String(name)),
	}
}

func TestParseCheckID(t *testing.T) {
	tests := []struct {
		in      string
		want    CheckID
		wantErr bool
	}{
		{"char", CheckCharacters, false},
		{"ENDS", CheckAssociationEnds, false},
		{" gens ", CheckGeneralizations, false},
		{"ster", CheckOldStereotypes, false},
		{"spelling", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCheckID(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCheck)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCheckIDs_KeepsRunOrder(t *testing.T) {
	got, err := ParseCheckIDs([]string{"ster", "char", "ster"})
	require.NoError(t, err)
	assert.Equal(t, []CheckID{CheckCharacters, CheckOldStereotypes}, got)

	_, err = ParseCheckIDs([]string{"char", "nope"})
	require.ErrorIs(t, err, ErrUnknownCheck)
}

func TestDefinitions(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, len(AllChecks()))
	for i, id := range AllChecks() {
		assert.Equal(t, id, defs[i].ID)
		assert.NotEmpty(t, defs[i].Name)
		assert.NotEmpty(t, defs[i].Description)
		assert.NotNil(t, defs[i].Run)
	}
}

func TestHeader(t *testing.T) {
	tests := []struct {
		id   CheckID
		want []string
	}{
		{CheckCharacters, []string{"dataset", "instance", "type", "problem"}},
		{CheckAssociationEnds, []string{"dataset", "related_class", "relation_name", "end_value", "problem"}},
		{CheckGeneralizations, []string{"dataset", "generalization_name", "specific_name", "general_name", "problem"}},
		{CheckOldStereotypes, []string{"dataset", "class_name", "old_stereotype", "new_stereotype"}},
	}
	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			got, err := Header(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Header("nope")
	require.ErrorIs(t, err, ErrUnknownCheck)
}

func TestRun_UnknownCheck(t *testing.T) {
	g := newGraph(t)
	problems, err := Run(context.Background(), CheckID("nope"), g)
	require.ErrorIs(t, err, ErrUnknownCheck)
	assert.Nil(t, problems)
}

func TestRun_DispatchesToCheck(t *testing.T) {
	g := newGraph(t, namedClass("person", " Person")...)

	problems, err := Run(context.Background(), CheckCharacters, g)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, CheckCharacters, problems[0].Check())
	assert.Equal(t, []string{" Person", "Class", "starts with space"}, problems[0].Fields())

	for _, id := range []CheckID{CheckAssociationEnds, CheckGeneralizations, CheckOldStereotypes} {
		problems, err := Run(context.Background(), id, g)
		require.NoError(t, err)
		assert.Empty(t, problems, id.String())
	}
}

// End-to-end: one class with a leading space and one relation end named "2".
func TestRun_AllChecksOnDataset(t *testing.T) {
	doc, err := ontology.ParseTurtle([]byte(`@prefix ontouml: <https://w3id.org/ontouml#> .
@prefix ex: <https://example.org/model#> .

ex:person a ontouml:Class ;
    ontouml:name " Person" .

ex:car a ontouml:Class ;
    ontouml:name "Car" .

ex:owns a ontouml:Relation ;
    ontouml:name "owns" ;
    ontouml:relationEnd ex:end1 .

ex:end1 a ontouml:Property ;
    ontouml:name "2" ;
    ontouml:propertyType ex:car .
`))
	require.NoError(t, err)
	g, err := ontology.FromDocument(doc)
	require.NoError(t, err)
	defer g.Close()

	got := make(map[CheckID][][]string)
	for _, id := range AllChecks() {
		problems, err := Run(context.Background(), id, g)
		require.NoError(t, err)
		for _, p := range problems {
			got[id] = append(got[id], p.Fields())
		}
	}

	assert.Equal(t, [][]string{{" Person", "Class", "starts with space"}}, got[CheckCharacters])
	assert.Equal(t, [][]string{{"Car", "owns", "2", "association end with possible multiplicity"}}, got[CheckAssociationEnds])
	assert.Empty(t, got[CheckGeneralizations])
	assert.Empty(t, got[CheckOldStereotypes])
}
