package quality

import (
	"context"
	"strings"

	"github.com/leapstack-labs/ontolint/pkg/ontology"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func init() {
	register(CheckDef{
		ID:          CheckOldStereotypes,
		Name:        "old-stereotypes",
		Description: "Classes using a stereotype from the deprecated OntoUML vocabulary",
		Columns:     []string{"class_name", "old_stereotype", "new_stereotype"},
		Run: func(ctx context.Context, g *ontology.Graph) ([]Problem, error) {
			problems, err := VerifyOldStereotypes(ctx, g)
			return toProblems(problems), err
		},
		Rationale: "OntoUML 2 replaced the UFO-A 1.0 stereotypes. Old names are not " +
			"recognised by current validators and transformation tools.",
		Fix: "Change the class stereotype to the replacement listed in new_stereotype.",
	})
}

// replacementStereotypes maps a normalized deprecated stereotype to its
// current equivalent.
var replacementStereotypes = map[string]string{
	"powertype":      "type",
	"highordertype":  "type",
	"hou":            "type",
	"universal":      "type",
	"2ndot":          "type",
	"relatorkind":    "relator",
	"modekind":       "mode",
	"quantitykind":   "quantity",
	"collectivekind": "collective",
	"qualitykind":    "quality",
}

// VerifyOldStereotypes flags classes whose stereotype is deprecated.
func VerifyOldStereotypes(ctx context.Context, g *ontology.Graph) ([]OldStereotypeProblem, error) {
	p := g.Path().
		Has(ontology.RDFType, ontology.Class).
		Save(ontology.Name, "class_name").
		Save(ontology.Stereotype, "stereotype")

	rows, err := g.Select(ctx, p, "class_name", "stereotype")
	if err != nil {
		return nil, err
	}

	var problems []OldStereotypeProblem
	for _, row := range rows {
		old := ontology.LocalName(row.Text("stereotype"))
		replacement, ok := ReplacementStereotype(old)
		if !ok {
			continue
		}
		problems = append(problems, OldStereotypeProblem{
			ClassName:     stripLineBreaks(row.Text("class_name")),
			OldStereotype: old,
			NewStereotype: replacement,
		})
	}
	return problems, nil
}

// ReplacementStereotype looks up a stereotype local name, ignoring case,
// "_" and "-".
func ReplacementStereotype(local string) (string, bool) {
	r, ok := replacementStereotypes[normalizeStereotype(local)]
	return r, ok
}

func normalizeStereotype(local string) string {
	s := cases.Lower(language.Und).String(local)
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}
