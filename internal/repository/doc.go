// Package repository defines the data access interface for graph
// snapshots.
//
// The graph itself lives in node and edge files; a repository holds a
// queryable copy of one load, written by `truthmines export --format
// sqlite`. The implementation is in the sqlite subpackage.
//
// # Snapshot Semantics
//
// ImportGraph replaces the stored graph in a single transaction. Edges
// are stored as loaded, so dangling endpoints survive the round trip and
// can be found with plain SQL.
package repository
