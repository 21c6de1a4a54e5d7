// Package types defines the row and field snapshots consumed by the grouping
// engine, the Store and table interfaces of the persistence layer, and the
// standard error values shared by both.
package types
