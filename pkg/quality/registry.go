package quality

import (
	"context"
	"fmt"
	"sync"

	"github.com/leapstack-labs/ontolint/pkg/ontology"
)

// CheckFunc evaluates one graph. It must not retain or modify the graph.
type CheckFunc func(ctx context.Context, g *ontology.Graph) ([]Problem, error)

// CheckDef describes a registered check.
type CheckDef struct {
	ID          CheckID
	Name        string   // Human-readable name, e.g. "characters"
	Description string   // One-line summary
	Columns     []string // Report columns after the dataset column
	Run         CheckFunc

	Rationale string // Why the convention exists
	Fix       string // How to resolve a finding
}

var registry = struct {
	mu     sync.RWMutex
	checks map[CheckID]CheckDef
}{checks: make(map[CheckID]CheckDef)}

// register adds a check. Called from init() in each check file.
func register(def CheckDef) {
	if !def.ID.Valid() {
		panic(fmt.Sprintf("quality: registering %q: %v", def.ID, ErrUnknownCheck))
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.checks[def.ID] = def
}

// Definition returns the registered check for id.
func Definition(id CheckID) (CheckDef, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	def, ok := registry.checks[id]
	if !ok {
		return CheckDef{}, fmt.Errorf("%w: %q", ErrUnknownCheck, id)
	}
	return def, nil
}

// Definitions returns every registered check in run order.
func Definitions() []CheckDef {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	defs := make([]CheckDef, 0, len(registry.checks))
	for _, id := range AllChecks() {
		if def, ok := registry.checks[id]; ok {
			defs = append(defs, def)
		}
	}
	return defs
}

// Header returns the report header row for id, starting with the dataset column.
func Header(id CheckID) ([]string, error) {
	def, err := Definition(id)
	if err != nil {
		return nil, err
	}
	return append([]string{"dataset"}, def.Columns...), nil
}

// Run dispatches to the check registered for id.
func Run(ctx context.Context, id CheckID, g *ontology.Graph) ([]Problem, error) {
	def, err := Definition(id)
	if err != nil {
		return nil, err
	}
	problems, err := def.Run(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", id, err)
	}
	return problems, nil
}
