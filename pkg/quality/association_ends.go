package quality

import (
	"context"
	"strings"
	"unicode"

	"github.com/leapstack-labs/ontolint/pkg/ontology"
)

func init() {
	register(CheckDef{
		ID:          CheckAssociationEnds,
		Name:        "association-ends",
		Description: "Relation end labels containing digits or '*'",
		Columns:     []string{"related_class", "relation_name", "end_value", "problem"},
		Run: func(ctx context.Context, g *ontology.Graph) ([]Problem, error) {
			problems, err := VerifyAssociationEnds(ctx, g)
			return toProblems(problems), err
		},
		Rationale: "Labels such as \"0..*\" or \"1\" on a relation end are multiplicities typed " +
			"into the name field. The end keeps a wrong name and loses its cardinality.",
		Fix: "Clear the end name and set the multiplicity on the property's cardinality field.",
	})
}

// VerifyAssociationEnds flags every distinct (class, relation, end label)
// whose label contains a decimal digit or "*".
func VerifyAssociationEnds(ctx context.Context, g *ontology.Graph) ([]AssociationEndProblem, error) {
	// relation -> relationEnd -> property -> propertyType -> class
	p := g.Path().
		Save(ontology.Name, "relation_name").
		Out(ontology.RelationEnd).
		Save(ontology.Name, "end_label").
		Out(ontology.PropertyType).
		Save(ontology.Name, "class_name")

	rows, err := g.Select(ctx, p, "class_name", "relation_name", "end_label")
	if err != nil {
		return nil, err
	}

	var problems []AssociationEndProblem
	for _, row := range rows {
		label := row.Text("end_label")
		if !looksLikeMultiplicity(label) {
			continue
		}
		problems = append(problems, AssociationEndProblem{
			RelatedClassName: stripLineBreaks(row.Text("class_name")),
			RelationName:     stripLineBreaks(row.Text("relation_name")),
			EndLabel:         stripLineBreaks(label),
			Description:      DescriptionPossibleMultiplicity,
		})
	}
	return problems, nil
}

func looksLikeMultiplicity(label string) bool {
	return strings.ContainsRune(label, '*') || strings.IndexFunc(label, unicode.IsDigit) >= 0
}

func stripLineBreaks(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}
