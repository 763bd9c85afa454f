// Package io provides JSON import and export for diagrams.
//
// # JSON Format
//
// A snapshot holds the diagram's nodes and edges in their canvas shape plus
// export metadata:
//
//	{
//	  "nodes": [
//	    {"id": "node-1", "position": {"x": 100, "y": 100},
//	     "data": {"label": "API Server", "type": "api"}},
//	    {"id": "node-2", "position": {"x": 300, "y": 100},
//	     "data": {"label": "Database", "type": "database", "description": "primary store"}}
//	  ],
//	  "edges": [
//	    {"id": "edge-1", "source": "node-1", "target": "node-2"}
//	  ],
//	  "metadata": {"exportedAt": "2025-01-01T12:00:00Z", "version": "1.0"}
//	}
//
// Unknown fields are ignored on import, so snapshots written by other
// canvas tools with the same node and edge shape can be read.
//
// # Export
//
// Use [ExportSnapshot] to write a file, or [WriteSnapshot] to write to any
// io.Writer. Exporting an empty diagram fails: there is nothing to save.
//
// # Import
//
// Use [ImportSnapshot] to read a file, or [ReadSnapshot] to read from any
// io.Reader. The result is validated: node and edge ids must be unique and
// every edge must reference existing nodes.
package io
