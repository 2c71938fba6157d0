package quality

import "strconv"

// Problem is a single finding. The set of implementations is closed: one
// record shape per check family. Fields returns the report row without the
// leading dataset column.
type Problem interface {
	Check() CheckID
	Fields() []string
	problem()
}

// =============================================================================
// Character problems
// =============================================================================

// CharacterDefect describes why a name breaks the naming conventions.
type CharacterDefect string

// Character defects, in the order they are tested.
const (
	DefectLineBreak         CharacterDefect = "has line break"
	DefectNonUTF8           CharacterDefect = "non utf-8 characters"
	DefectLeadingSpace      CharacterDefect = "starts with space"
	DefectTrailingSpace     CharacterDefect = "ends with space"
	DefectDoubleSpace       CharacterDefect = "has double space"
	DefectIndentation       CharacterDefect = "has indentation"
	DefectStereotypeInName  CharacterDefect = "stereotype in name"
	DefectDerivationInName  CharacterDefect = "derivation in name"
	DefectImportedClassName CharacterDefect = "imported class in name"
)

// CharacterProblem is a naming defect found in a "name" value.
type CharacterProblem struct {
	InstanceName string
	EntityType   string
	Description  CharacterDefect
}

func (CharacterProblem) Check() CheckID { return CheckCharacters }

func (p CharacterProblem) Fields() []string {
	return []string{p.InstanceName, p.EntityType, string(p.Description)}
}

func (CharacterProblem) problem() {}

// =============================================================================
// Association end problems
// =============================================================================

// DescriptionPossibleMultiplicity is the only association end defect.
const DescriptionPossibleMultiplicity = "association end with possible multiplicity"

// AssociationEndProblem is a relation end label that looks like a multiplicity.
type AssociationEndProblem struct {
	RelatedClassName string
	RelationName     string
	EndLabel         string
	Description      string
}

func (AssociationEndProblem) Check() CheckID { return CheckAssociationEnds }

func (p AssociationEndProblem) Fields() []string {
	return []string{p.RelatedClassName, p.RelationName, p.EndLabel, p.Description}
}

func (AssociationEndProblem) problem() {}

// =============================================================================
// Generalization problems
// =============================================================================

// GeneralizationDefect describes a generalization or generalization set defect.
type GeneralizationDefect string

// Generalization defects.
const (
	DefectMetapropertyInName    GeneralizationDefect = "metaproperty in generalization name"
	DefectVacuousSet            GeneralizationDefect = "complete and disjoint are false"
	DefectTooFewGeneralizations GeneralizationDefect = "generalization set with less than two generalizations"
)

// GeneralizationProblem is a defect of a generalization or generalization set.
// For sets with too few generalizations SpecificName carries the count text
// and GeneralName is empty.
type GeneralizationProblem struct {
	Name         string
	SpecificName string
	GeneralName  string
	Description  GeneralizationDefect
}

func (GeneralizationProblem) Check() CheckID { return CheckGeneralizations }

func (p GeneralizationProblem) Fields() []string {
	return []string{p.Name, p.SpecificName, p.GeneralName, string(p.Description)}
}

func (GeneralizationProblem) problem() {}

func generalizationCountText(n int) string {
	return "has only " + strconv.Itoa(n) + " generalizations"
}

// =============================================================================
// Old stereotype problems
// =============================================================================

// OldStereotypeProblem is a class using a deprecated stereotype.
type OldStereotypeProblem struct {
	ClassName     string
	OldStereotype string
	NewStereotype string
}

func (OldStereotypeProblem) Check() CheckID { return CheckOldStereotypes }

func (p OldStereotypeProblem) Fields() []string {
	return []string{p.ClassName, p.OldStereotype, p.NewStereotype}
}

func (OldStereotypeProblem) problem() {}

func toProblems[P Problem](in []P) []Problem {
	out := make([]Problem, len(in))
	for i, p := range in {
		out[i] = p
	}
	return out
}
