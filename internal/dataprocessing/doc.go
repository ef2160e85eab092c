// Package dataprocessing holds the pure computations over a normalized salary
// table: the filter engine, the metrics snapshot, and the aggregation views
// that feed the dashboard's charts. Every function here is deterministic,
// side-effect-free, and returns defined empty results rather than errors on
// empty input.
package dataprocessing
