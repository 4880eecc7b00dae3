// Package cartesian implements combinatorial parameterized testing: given one
// set of candidate values per test parameter, it runs a test body once for
// every element of the sets' Cartesian product, giving each invocation a
// stable, human-readable name.
//
// The pieces are: source declarations (literal values, enum constants with a
// selection mode, numeric ranges, custom providers, or a whole-method factory),
// a registry that resolves factory/provider/enum names, a validator that
// enforces source-exclusivity rules, a lazy product generator, and a
// display-name formatter. Run ties them to the ctest runner.
package cartesian
