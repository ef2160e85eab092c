// Package dataset loads the raw salary table from its source and normalizes
// it into the canonical domain schema. Loading is memoized per source for the
// process lifetime; normalization is pure and deterministic.
package dataset
