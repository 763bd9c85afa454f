package assistant

import (
	"context"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/synth"
)

// Edit applies fn to the session's diagram and saves the result. Like a
// submission, an edit holds the session for its duration.
func (s *Service) Edit(ctx context.Context, sessionID string, fn func(diagram.Diagram) (diagram.Diagram, error)) (diagram.Diagram, error) {
	release, err := s.acquire(sessionID)
	if err != nil {
		return diagram.Diagram{}, err
	}
	defer release()

	sess, err := s.Session(ctx, sessionID)
	if err != nil {
		return diagram.Diagram{}, err
	}
	d, err := fn(sess.Diagram)
	if err != nil {
		return sess.Diagram, err
	}
	sess.Diagram = d
	sess.Touch(s.TTL)
	if err := s.Store.Set(ctx, sess); err != nil {
		return diagram.Diagram{}, errors.Wrap(errors.ErrCodeInternal, err, "save session")
	}
	return d, nil
}

// validateNodeData checks manually entered node data. Empty fields are
// allowed when partial is set.
func validateNodeData(data diagram.NodeData, partial bool) error {
	if !partial || data.Label != "" {
		if err := errors.ValidateLabel(data.Label); err != nil {
			return err
		}
	}
	if data.Type != "" && !diagram.IsNodeType(data.Type) {
		return errors.New(errors.ErrCodeInvalidNodeType, "unknown node type %q", data.Type)
	}
	return errors.ValidateColor(data.Color)
}

// AddNode adds a node at the manual position. An empty type means
// [diagram.DefaultType].
func (s *Service) AddNode(ctx context.Context, sessionID string, data diagram.NodeData) (diagram.Node, error) {
	if data.Type == "" {
		data.Type = diagram.DefaultType
	}
	if err := validateNodeData(data, false); err != nil {
		return diagram.Node{}, err
	}
	id := s.Engine.NewID(synth.NodePrefix)
	d, err := s.Edit(ctx, sessionID, func(d diagram.Diagram) (diagram.Diagram, error) {
		return d.AddNode(data, id), nil
	})
	if err != nil {
		return diagram.Node{}, err
	}
	n, _ := d.Node(id)
	s.Logger.Info("added node", "session", sessionID, "id", id, "label", data.Label)
	return n, nil
}

// UpdateNode merges the non-empty fields of patch into a node.
func (s *Service) UpdateNode(ctx context.Context, sessionID, nodeID string, patch diagram.NodeData) (diagram.Node, error) {
	if err := validateNodeData(patch, true); err != nil {
		return diagram.Node{}, err
	}
	d, err := s.Edit(ctx, sessionID, func(d diagram.Diagram) (diagram.Diagram, error) {
		return d.UpdateNode(nodeID, patch)
	})
	if err != nil {
		return diagram.Node{}, err
	}
	n, _ := d.Node(nodeID)
	return n, nil
}

// MoveNode repositions a node.
func (s *Service) MoveNode(ctx context.Context, sessionID, nodeID string, pos diagram.Position) (diagram.Node, error) {
	d, err := s.Edit(ctx, sessionID, func(d diagram.Diagram) (diagram.Diagram, error) {
		return d.MoveNode(nodeID, pos)
	})
	if err != nil {
		return diagram.Node{}, err
	}
	n, _ := d.Node(nodeID)
	return n, nil
}

// DeleteNode removes a node and its edges.
func (s *Service) DeleteNode(ctx context.Context, sessionID, nodeID string) (diagram.Diagram, error) {
	return s.Edit(ctx, sessionID, func(d diagram.Diagram) (diagram.Diagram, error) {
		return d.DeleteNode(nodeID)
	})
}

// Connect adds an edge between two existing nodes. Connecting an already
// connected pair returns the existing edge.
func (s *Service) Connect(ctx context.Context, sessionID, source, target string) (diagram.Edge, error) {
	id := s.Engine.NewID(synth.EdgePrefix)
	d, err := s.Edit(ctx, sessionID, func(d diagram.Diagram) (diagram.Diagram, error) {
		return d.AddEdge(source, target, id)
	})
	if err != nil {
		return diagram.Edge{}, err
	}
	for _, e := range d.Edges {
		if e.Source == source && e.Target == target {
			return e, nil
		}
	}
	return diagram.Edge{}, errors.New(errors.ErrCodeInternal, "edge %s -> %s missing after insert", source, target)
}

// DeleteEdge removes an edge.
func (s *Service) DeleteEdge(ctx context.Context, sessionID, edgeID string) (diagram.Diagram, error) {
	return s.Edit(ctx, sessionID, func(d diagram.Diagram) (diagram.Diagram, error) {
		return d.DeleteEdge(edgeID)
	})
}

// Clear empties the diagram. The transcript is kept.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	_, err := s.Edit(ctx, sessionID, func(d diagram.Diagram) (diagram.Diagram, error) {
		return d.Clear(), nil
	})
	return err
}

// Replace swaps in a whole diagram, as when importing a snapshot.
func (s *Service) Replace(ctx context.Context, sessionID string, next diagram.Diagram) error {
	if err := next.Validate(); err != nil {
		return err
	}
	_, err := s.Edit(ctx, sessionID, func(diagram.Diagram) (diagram.Diagram, error) {
		return next.Clone(), nil
	})
	return err
}
