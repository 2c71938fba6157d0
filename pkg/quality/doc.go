// Package quality implements the data quality checks run over a catalog
// dataset's Ontology Graph.
//
// Each check is a stateless function of one graph that returns problem
// records of its own shape. Checks are registered by CheckID and dispatched
// through Run:
//
//	problems, err := quality.Run(ctx, quality.CheckCharacters, graph)
//
// The four check families are:
//
//   - char: naming convention defects in any "name" value
//   - ends: association end labels that look like multiplicities
//   - gens: metaproperties in generalization names, vacuous generalization
//     sets and sets with fewer than two generalizations
//   - ster: classes using a deprecated stereotype
//
// Findings are data, never errors. Run only fails on an unknown CheckID or a
// failed graph query.
package quality
