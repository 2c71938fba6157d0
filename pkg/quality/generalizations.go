package quality

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/cayleygraph/cayley/quad"
	"github.com/leapstack-labs/ontolint/pkg/ontology"
)

func init() {
	register(CheckDef{
		ID:          CheckGeneralizations,
		Name:        "generalizations",
		Description: "Metaproperties in generalization names and malformed generalization sets",
		Columns:     []string{"generalization_name", "specific_name", "general_name", "problem"},
		Run: func(ctx context.Context, g *ontology.Graph) ([]Problem, error) {
			problems, err := VerifyGeneralizations(ctx, g)
			return toProblems(problems), err
		},
		Rationale: "Completeness and disjointness are properties of a generalization set. " +
			"Writing them into a generalization name, or declaring a set that groups fewer " +
			"than two generalizations, hides the intended semantics from tools.",
		Fix: "Group the generalizations into a generalization set and set isComplete and isDisjoint on it.",
	})
}

// metaproperties are the substrings that mark a generalization name as
// carrying set metadata. Matching is case-sensitive.
var metaproperties = []string{"{", "}", "over", "disj", "joint", "compl", "cover"}

// VerifyGeneralizations runs the three generalization tests and concatenates
// their findings: metaproperty names, vacuous sets, then sets with too few
// generalizations.
func VerifyGeneralizations(ctx context.Context, g *ontology.Graph) ([]GeneralizationProblem, error) {
	named, err := metapropertyNames(ctx, g)
	if err != nil {
		return nil, err
	}
	vacuous, err := vacuousSets(ctx, g)
	if err != nil {
		return nil, err
	}

	problems := make([]GeneralizationProblem, 0, len(named)+len(vacuous))
	problems = append(problems, named...)
	problems = append(problems, vacuous...)
	problems = append(problems, undersizedSets(g)...)
	return problems, nil
}

// metapropertyNames inspects named generalizations outside any generalization set.
func metapropertyNames(ctx context.Context, g *ontology.Graph) ([]GeneralizationProblem, error) {
	// specific class <- specific - generalization - general -> general class
	inSet := g.Path().Out(ontology.Generalization)
	p := g.Path().
		Save(ontology.Name, "specific_name").
		In(ontology.Specific).
		Has(ontology.RDFType, ontology.GeneralizationType).
		Except(inSet).
		Save(ontology.Name, "gen_name").
		Out(ontology.General).
		Save(ontology.Name, "general_name")

	rows, err := g.Select(ctx, p, "gen_name", "specific_name", "general_name")
	if err != nil {
		return nil, err
	}

	var problems []GeneralizationProblem
	for _, row := range rows {
		name := row.Text("gen_name")
		if !hasMetaproperty(name) {
			continue
		}
		problems = append(problems, GeneralizationProblem{
			Name:         name,
			SpecificName: row.Text("specific_name"),
			GeneralName:  row.Text("general_name"),
			Description:  DefectMetapropertyInName,
		})
	}
	return problems, nil
}

func hasMetaproperty(name string) bool {
	for _, m := range metaproperties {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// vacuousSets flags named generalization sets whose isComplete flag is false.
// isDisjoint is bound by the query but not consulted.
func vacuousSets(ctx context.Context, g *ontology.Graph) ([]GeneralizationProblem, error) {
	p := g.Path().
		Has(ontology.RDFType, ontology.GeneralizationSetType).
		Save(ontology.Name, "genset_name").
		Save(ontology.IsComplete, "is_complete").
		Save(ontology.IsDisjoint, "is_disjoint")

	rows, err := g.Select(ctx, p, "genset_name", "is_complete", "is_disjoint")
	if err != nil {
		return nil, err
	}

	var problems []GeneralizationProblem
	for _, row := range rows {
		if truthy(row["is_complete"]) {
			continue
		}
		problems = append(problems, GeneralizationProblem{
			Name:        row.Text("genset_name"),
			Description: DefectVacuousSet,
		})
	}
	return problems, nil
}

// undersizedSets counts the generalizations linked to each set by walking
// triples directly. Sets are visited in parse order.
func undersizedSets(g *ontology.Graph) []GeneralizationProblem {
	var problems []GeneralizationProblem
	for _, set := range g.Subjects(ontology.RDFType, ontology.GeneralizationSetType) {
		n := len(g.Objects(set, ontology.Generalization))
		if n > 1 {
			continue
		}
		name, _ := g.Value(set, ontology.Name)
		problems = append(problems, GeneralizationProblem{
			Name:         ontology.Lexical(name),
			SpecificName: generalizationCountText(n),
			Description:  DefectTooFewGeneralizations,
		})
	}
	return problems
}

// truthy evaluates a literal the way its datatype reads: booleans by their
// lexical form, numbers by comparison with zero and anything else by being
// non-empty.
func truthy(v quad.Value) bool {
	typed, ok := v.(quad.TypedString)
	if !ok {
		return ontology.Lexical(v) != ""
	}

	lex := strings.TrimSpace(string(typed.Value))
	switch string(typed.Type) {
	case ontology.XSDNamespace + "boolean":
		return strings.EqualFold(lex, "true") || lex == "1"
	default:
		if isNumericType(string(typed.Type)) {
			f, err := strconv.ParseFloat(lex, 64)
			return err != nil || f != 0
		}
		return lex != ""
	}
}

var numericTypes = func() []string {
	local := []string{
		"byte", "decimal", "double", "float", "int", "integer", "long",
		"negativeInteger", "nonNegativeInteger", "nonPositiveInteger",
		"positiveInteger", "short", "unsignedByte", "unsignedInt",
		"unsignedLong", "unsignedShort",
	}
	out := make([]string, len(local))
	for i, l := range local {
		out[i] = ontology.XSDNamespace + l
	}
	sort.Strings(out)
	return out
}()

func isNumericType(dt string) bool {
	i := sort.SearchStrings(numericTypes, dt)
	return i < len(numericTypes) && numericTypes[i] == dt
}
