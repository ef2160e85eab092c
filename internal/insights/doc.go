// Package insights derives human-readable findings from a filtered salary
// subset and its statistical snapshot. Rules are pure and independent; they
// run in a fixed order so the output is deterministic for a given subset.
package insights
