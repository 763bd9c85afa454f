package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
)

// SnapshotVersion is written into every export.
const SnapshotVersion = "1.0"

// Metadata describes an export.
type Metadata struct {
	ExportedAt time.Time `json:"exportedAt"`
	Version    string    `json:"version"`
}

// Snapshot is the on-disk form of a diagram.
type Snapshot struct {
	Nodes    []diagram.Node `json:"nodes"`
	Edges    []diagram.Edge `json:"edges"`
	Metadata Metadata       `json:"metadata"`
}

// ErrEmpty is returned when exporting a diagram without nodes or edges.
var ErrEmpty = errors.New(errors.ErrCodeInvalidInput, "no content to export")

// NewSnapshot wraps d with metadata stamped at now.
func NewSnapshot(d diagram.Diagram, now time.Time) Snapshot {
	nodes, edges := d.Nodes, d.Edges
	if nodes == nil {
		nodes = []diagram.Node{}
	}
	if edges == nil {
		edges = []diagram.Edge{}
	}
	return Snapshot{
		Nodes:    nodes,
		Edges:    edges,
		Metadata: Metadata{ExportedAt: now.UTC(), Version: SnapshotVersion},
	}
}

// WriteSnapshot encodes d as an indented JSON snapshot.
func WriteSnapshot(d diagram.Diagram, w io.Writer) error {
	if d.IsEmpty() {
		return ErrEmpty
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewSnapshot(d, time.Now())); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportSnapshot writes d to a JSON file at path.
func ExportSnapshot(d diagram.Diagram, path string) error {
	if d.IsEmpty() {
		return ErrEmpty
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(d, f)
}
