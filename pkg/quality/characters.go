package quality

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/ontolint/pkg/ontology"
)

func init() {
	register(CheckDef{
		ID:          CheckCharacters,
		Name:        "characters",
		Description: "Names with line breaks, invalid UTF-8, stray spaces, tabs or embedded UML notation",
		Columns:     []string{"instance", "type", "problem"},
		Run: func(_ context.Context, g *ontology.Graph) ([]Problem, error) {
			return toProblems(VerifyCharacters(g)), nil
		},
		Rationale: "Names are rendered verbatim by catalog tooling. Whitespace and notation " +
			"such as <<kind>>, /derived or Pkg::Class belong in dedicated model fields.",
		Fix: "Edit the element name in the source model and move stereotypes, derivation " +
			"markers and package qualifiers to their own properties.",
	})
}

// VerifyCharacters tests every (entity, name) pair. Entities are visited in
// parse order of their rdf:type statements, and an entity with several types
// is reported once per type.
func VerifyCharacters(g *ontology.Graph) []CharacterProblem {
	var problems []CharacterProblem
	for _, typed := range g.Triples(nil, ontology.RDFType, nil) {
		entityType := ontology.LocalName(ontology.Lexical(typed.Object))
		for _, name := range g.Objects(typed.Subject, ontology.Name) {
			problems = append(problems, characterDefects(ontology.Lexical(name), entityType)...)
		}
	}
	return problems
}

// characterDefects applies the tests in order. The line break and UTF-8
// tests rewrite name, so later tests and records see the cleaned value.
func characterDefects(name, entityType string) []CharacterProblem {
	var out []CharacterProblem
	flag := func(d CharacterDefect) {
		out = append(out, CharacterProblem{InstanceName: name, EntityType: entityType, Description: d})
	}

	if strings.Contains(name, "\n") {
		name = strings.ReplaceAll(name, "\n", "")
		flag(DefectLineBreak)
	}
	if !utf8.ValidString(name) || strings.ContainsRune(name, utf8.RuneError) {
		name = dropInvalidUTF8(name)
		flag(DefectNonUTF8)
	}
	if strings.HasPrefix(name, " ") {
		flag(DefectLeadingSpace)
	}
	if strings.HasSuffix(name, " ") {
		flag(DefectTrailingSpace)
	}
	if strings.Contains(name, "  ") {
		flag(DefectDoubleSpace)
	}
	if strings.Contains(name, "\t") {
		flag(DefectIndentation)
	}
	if strings.Contains(name, "<<") || strings.Contains(name, ">>") {
		flag(DefectStereotypeInName)
	}
	if strings.HasPrefix(name, "/") {
		flag(DefectDerivationInName)
	}
	if strings.Contains(name, "::") {
		flag(DefectImportedClassName)
	}
	return out
}

// dropInvalidUTF8 removes invalid byte sequences and replacement characters.
// The Turtle reader turns undecodable bytes into U+FFFD, so a replacement
// character is treated as invalid input even when the source wrote it
// literally.
func dropInvalidUTF8(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, string(utf8.RuneError), "")
}
