package quality

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Check identifiers
// =============================================================================

// CheckID identifies a check family. Its value is the wire code used in
// report file names and configuration.
type CheckID string

// Check families, in the fixed order a run evaluates them.
const (
	CheckCharacters      CheckID = "char"
	CheckAssociationEnds CheckID = "ends"
	CheckGeneralizations CheckID = "gens"
	CheckOldStereotypes  CheckID = "ster"
)

// ErrUnknownCheck is returned for a CheckID outside the closed set.
var ErrUnknownCheck = errors.New("unknown check")

// AllChecks returns every check in run order.
func AllChecks() []CheckID {
	return []CheckID{
		CheckCharacters,
		CheckAssociationEnds,
		CheckGeneralizations,
		CheckOldStereotypes,
	}
}

// String returns the wire code.
func (id CheckID) String() string {
	return string(id)
}

// Valid reports whether id is one of the known checks.
func (id CheckID) Valid() bool {
	switch id {
	case CheckCharacters, CheckAssociationEnds, CheckGeneralizations, CheckOldStereotypes:
		return true
	default:
		return false
	}
}

// ParseCheckID converts a wire code to a CheckID. Matching ignores case and
// surrounding whitespace.
func ParseCheckID(s string) (CheckID, error) {
	id := CheckID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCheck, s)
	}
	return id, nil
}

// ParseCheckIDs parses a list of wire codes, dropping duplicates and
// returning the result in run order.
func ParseCheckIDs(values []string) ([]CheckID, error) {
	selected := make(map[CheckID]bool, len(values))
	for _, v := range values {
		id, err := ParseCheckID(v)
		if err != nil {
			return nil, err
		}
		selected[id] = true
	}

	out := make([]CheckID, 0, len(selected))
	for _, id := range AllChecks() {
		if selected[id] {
			out = append(out, id)
		}
	}
	return out, nil
}
