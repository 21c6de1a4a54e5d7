// Package group partitions the rows of a table into ordered groups according
// to the value each row holds in one grouping field, and keeps those groups
// correct as rows, the field definition and the user's manual ordering
// change.
//
// A Strategy decides membership for one field type. DefaultStrategy keeps
// every row in a single group; the option, checkbox and date strategies
// share one engine and differ only in how they classify a cell value.
//
// A Controller owns exactly one Strategy for one field. It serializes
// mutations, applies each of them to a copy of the strategy and swaps the
// copy in only on success, and turns strategy results into events that carry
// view and field identity.
package group
