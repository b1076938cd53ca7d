// Package domain defines the core record types of a truthmines fact graph.
//
// A graph is persisted as a tree of flat JSON node files and JSON-lines
// edge files. This package holds the typed form those records take once
// they have been read: downstream packages never work on raw maps.
//
// # Core Types
//
// Node is a single claim, theorem, theory or other entity, addressed by a
// six-character lowercase alphanumeric id.
//
// Edge is a directed, possibly parallel, relation between two node ids,
// optionally weighted.
//
// Location points at the file (and line, for line-oriented files) a record
// came from, so diagnostics can be navigated directly.
//
// Graph is the in-memory view used for querying: an id to node map, the
// ordered edge list and a forward adjacency index. Graph.Extract computes
// bounded breadth-first neighborhoods.
//
// GraphFragment is the flat node/edge list exchanged with codecs.
//
// # Design Principles
//
// - Records are immutable for the duration of a run
// - No file system, database or encoding dependencies
// - The graph is permissive; integrity checking lives in the validate package
package domain
