// Package views contains the derived-view builders: pure functions that
// turn the loaded dataset into the per-page dashboard payloads. Builders
// never mutate the dataset; every output is a freshly derived value.
//
// All aggregation orderings are deterministic. Where the sums tie, rows
// fall back to ascending name order so repeated renders of the same
// dataset produce identical payloads.
package views
