package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
)

// ReadSnapshot decodes a JSON snapshot from r and returns its diagram.
//
// ReadSnapshot returns an INVALID_FORMAT error if the JSON is malformed and
// an INVALID_INPUT error if the diagram has duplicate ids or dangling edges.
// Metadata is not required. ReadSnapshot does not close r.
func ReadSnapshot(r io.Reader) (diagram.Diagram, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	d := diagram.New(s.Nodes, s.Edges)
	if err := d.Validate(); err != nil {
		return diagram.Diagram{}, err
	}
	return d, nil
}

// ImportSnapshot reads a JSON snapshot file at path.
func ImportSnapshot(path string) (diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return diagram.Diagram{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
