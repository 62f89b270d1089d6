// Package graph provides the serialization types that feed and capture a
// layout engine.
//
// This package defines the canonical wire format for orbit's data, used for
// JSON files, MongoDB documents, API payloads and cached frames.
//
// # Core Types
//
//   - [Snapshot]: the externally owned node set (nodes, edges, anchor)
//   - [Node], [Edge]: structural types of a snapshot
//   - [Frame]: pixel positions captured from an engine at one tick
//
// # Snapshot Format
//
// Node coordinates are fractions of the canvas. The anchor is optional and
// is always placed at the canvas centre, whatever its coordinates say:
//
//	{
//	  "anchor": "root",
//	  "nodes": [
//	    {"id": "root", "category": "core", "x": 0.5, "y": 0.5},
//	    {"id": "alice", "category": "hub-entity", "x": 0.25, "y": 0.5}
//	  ],
//	  "edges": [{"from": "root", "to": "alice"}]
//	}
//
// Common operations:
//
//	s, _ := graph.ReadSnapshotFile("snapshot.json") // File → Snapshot (validated)
//	e.Initialize(s.ToSpecs(), size)                 // Snapshot → engine
//	f := graph.NewFrame(e)                          // engine → Frame
//	data, _ := graph.MarshalFrame(f)                // Frame → []byte
//
// # Frame Format
//
//	{
//	  "width": 800,
//	  "height": 600,
//	  "tick": 120,
//	  "positions": {"alice": {"x": 201.3, "y": 298.7}}
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
