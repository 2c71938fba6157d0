package quality

import (
	"testing"

	"github.com/cayleygraph/cayley/quad"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterDefects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []CharacterProblem
	}{
		{
			name: "clean name",
			in:   "Person",
			want: nil,
		},
		{
			name: "tab",
			in:   "Per\tson",
			want: []CharacterProblem{{"Per\tson", "Class", DefectIndentation}},
		},
		{
			name: "tab with other defects",
			in:   " Per\tson  x",
			want: []CharacterProblem{
				{" Per\tson  x", "Class", DefectLeadingSpace},
				{" Per\tson  x", "Class", DefectDoubleSpace},
				{" Per\tson  x", "Class", DefectIndentation},
			},
		},
		{
			name: "leading and trailing space",
			in:   " Person ",
			want: []CharacterProblem{
				{" Person ", "Class", DefectLeadingSpace},
				{" Person ", "Class", DefectTrailingSpace},
			},
		},
		{
			name: "line break is stripped before later tests",
			in:   "Person\n ",
			want: []CharacterProblem{
				{"Person ", "Class", DefectLineBreak},
				{"Person ", "Class", DefectTrailingSpace},
			},
		},
		{
			name: "invalid utf-8 is dropped",
			in:   "Pers\xffon",
			want: []CharacterProblem{{"Person", "Class", DefectNonUTF8}},
		},
		{
			name: "replacement character",
			in:   "Pers\uFFFDon",
			want: []CharacterProblem{{"Person", "Class", DefectNonUTF8}},
		},
		{
			name: "replacement character and invalid byte",
			in:   "\uFFFDPers\xffon ",
			want: []CharacterProblem{
				{"Person ", "Class", DefectNonUTF8},
				{"Person ", "Class", DefectTrailingSpace},
			},
		},
		{
			name: "stereotype delimiters",
			in:   "<<kind>> Person",
			want: []CharacterProblem{{"<<kind>> Person", "Class", DefectStereotypeInName}},
		},
		{
			name: "closing delimiter only",
			in:   "Person>>",
			want: []CharacterProblem{{"Person>>", "Class", DefectStereotypeInName}},
		},
		{
			name: "derivation",
			in:   "/age",
			want: []CharacterProblem{{"/age", "Class", DefectDerivationInName}},
		},
		{
			name: "imported class",
			in:   "Core::Person",
			want: []CharacterProblem{{"Core::Person", "Class", DefectImportedClassName}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, characterDefects(tt.in, "Class"))
		})
	}
}

func TestVerifyCharacters(t *testing.T) {
	g := newGraph(t,
		triple(node("person"), ontology.RDFType, ontology.Class),
		triple(node("person"), ontology.Name, quad.String(" Person")),
		triple(node("gen"), ontology.RDFType, ontology.GeneralizationType),
		triple(node("gen"), ontology.Name, quad.String("a\tb")),
		triple(node("untyped"), ontology.Name, quad.String(" ignored")),
	)

	got := VerifyCharacters(g)
	assert.Equal(t, []CharacterProblem{
		{" Person", "Class", DefectLeadingSpace},
		{"a\tb", "Generalization", DefectIndentation},
	}, got)
}

func TestVerifyCharacters_Idempotent(t *testing.T) {
	g := newGraph(t,
		triple(node("a"), ontology.RDFType, ontology.Class),
		triple(node("a"), ontology.Name, quad.String(" A ")),
		triple(node("b"), ontology.RDFType, ontology.Class),
		triple(node("b"), ontology.Name, quad.String("B\tB")),
		triple(node("c"), ontology.RDFType, ontology.Class),
		triple(node("c"), ontology.Name, quad.String("/C::D")),
	)

	first := VerifyCharacters(g)
	second := VerifyCharacters(g)
	require.Len(t, first, 5)
	assert.Equal(t, first, second)
}

func TestVerifyCharacters_EntityTypeOutsideNamespace(t *testing.T) {
	g := newGraph(t,
		triple(node("x"), ontology.RDFType, quad.IRI("http://www.w3.org/2002/07/owl#Class")),
		triple(node("x"), ontology.Name, quad.String("X ")),
	)

	got := VerifyCharacters(g)
	require.Len(t, got, 1)
	assert.Equal(t, "http://www.w3.org/2002/07/owl#Class", got[0].EntityType)
}
