// Package service implements the truthmines commands on top of the
// loader, validator, extractor and codecs.
//
// # Operations
//
// GraphService.Validate runs the schema, referential and vocabulary checks
// over a graph directory and returns the accumulated report.
//
// GraphService.Extract writes the TOON pack of a node's k-hop
// neighborhood. An unknown start node fails before any file is touched.
//
// GraphService.BuildEdgesTOON and GraphService.BuildIndex produce the
// dist/ artifacts: edges.toon, manifest.json, graph.json and nodes.toon.
//
// GraphService.Export writes the whole graph or an extracted subgraph in
// any codec format, or as a SQLite snapshot.
//
// # Event System
//
// Services publish an event for every artifact written so that callers
// can report progress without parsing logs.
package service
