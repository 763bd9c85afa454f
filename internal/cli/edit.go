package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/pkg/assistant"
	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/synth"
)

// nodeRef resolves command-line node references: an id, an exact label, or
// a label within a typo or two.
var nodeRef = synth.Chain(synth.Exact, synth.DefaultFuzzy)

func resolveNode(d diagram.Diagram, ref string) (diagram.Node, error) {
	if n, ok := d.Node(ref); ok {
		return n, nil
	}
	if n, ok := nodeRef.Resolve(ref, d.Nodes); ok {
		return n, nil
	}
	return diagram.Node{}, errors.New(errors.ErrCodeNodeNotFound, "no node matches %q", ref)
}

// withDiagram opens the service and loads the current diagram for reference
// resolution.
func (c *CLI) withDiagram(ctx context.Context, fn func(svc *assistant.Service, d diagram.Diagram) error) error {
	svc, release, err := c.openService(ctx, false)
	if err != nil {
		return err
	}
	defer release()

	sess, err := svc.Session(ctx, c.sessionID)
	if err != nil {
		return err
	}
	return fn(svc, sess.Diagram)
}

// =============================================================================
// node
// =============================================================================

type nodeFlags struct {
	label       string
	typ         string
	description string
	color       string
	block       string
}

func (f *nodeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.label, "label", "l", "", "node label")
	cmd.Flags().StringVarP(&f.typ, "type", "t", "", "node type (server, database, api, ...)")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "node description")
	cmd.Flags().StringVarP(&f.color, "color", "c", "", "fill colour as #rrggbb")
}

func (f *nodeFlags) data() diagram.NodeData {
	return diagram.NodeData{Label: f.label, Type: f.typ, Description: f.description, Color: f.color}
}

func (c *CLI) nodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Add, change, move or remove nodes",
	}
	cmd.AddCommand(c.nodeAddCommand())
	cmd.AddCommand(c.nodeUpdateCommand())
	cmd.AddCommand(c.nodeMoveCommand())
	cmd.AddCommand(c.nodeDeleteCommand())
	return cmd
}

func (c *CLI) nodeAddCommand() *cobra.Command {
	var f nodeFlags

	cmd := &cobra.Command{
		Use:   "add [label]",
		Short: "Add a node at the default position",
		Example: `  archsketch node add "Orders DB" --type database
  archsketch node add --block "Payments Gateway"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := f.data()
			if f.block != "" {
				b, ok := c.config().Block(f.block)
				if !ok {
					return errors.New(errors.ErrCodeNotFound, "no block named %q in config", f.block)
				}
				data = mergeNodeData(diagram.NodeData{Label: b.Name, Type: b.Type, Description: b.Description, Color: b.Color}, data)
			}
			if len(args) == 1 {
				data.Label = args[0]
			}

			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			n, err := svc.AddNode(cmd.Context(), c.sessionID, data)
			if err != nil {
				return err
			}
			printSuccess("Added %s (%s)", n.Data.Label, n.Data.Type)
			printDetail("id %s", n.ID)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.block, "block", "b", "", "start from a custom block defined in the config")
	return cmd
}

// mergeNodeData overlays the non-empty fields of top onto base.
func mergeNodeData(base, top diagram.NodeData) diagram.NodeData {
	if top.Label != "" {
		base.Label = top.Label
	}
	if top.Type != "" {
		base.Type = top.Type
	}
	if top.Description != "" {
		base.Description = top.Description
	}
	if top.Color != "" {
		base.Color = top.Color
	}
	return base
}

func (c *CLI) nodeUpdateCommand() *cobra.Command {
	var f nodeFlags

	cmd := &cobra.Command{
		Use:   "update <node>",
		Short: "Change a node's label, type, description or colour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDiagram(cmd.Context(), func(svc *assistant.Service, d diagram.Diagram) error {
				target, err := resolveNode(d, args[0])
				if err != nil {
					return err
				}
				n, err := svc.UpdateNode(cmd.Context(), c.sessionID, target.ID, f.data())
				if err != nil {
					return err
				}
				printSuccess("Updated %s (%s)", n.Data.Label, n.Data.Type)
				return nil
			})
		},
	}

	f.register(cmd)
	return cmd
}

func (c *CLI) nodeMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <node> <x> <y>",
		Short: "Set a node's position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, errX := strconv.ParseFloat(args[1], 64)
			y, errY := strconv.ParseFloat(args[2], 64)
			if errX != nil || errY != nil {
				return errors.New(errors.ErrCodeInvalidInput, "position must be two numbers, got %q %q", args[1], args[2])
			}
			return c.withDiagram(cmd.Context(), func(svc *assistant.Service, d diagram.Diagram) error {
				target, err := resolveNode(d, args[0])
				if err != nil {
					return err
				}
				n, err := svc.MoveNode(cmd.Context(), c.sessionID, target.ID, diagram.Position{X: x, Y: y})
				if err != nil {
					return err
				}
				printSuccess("Moved %s to %g,%g", n.Data.Label, n.Position.X, n.Position.Y)
				return nil
			})
		},
	}
}

func (c *CLI) nodeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <node>",
		Aliases: []string{"rm"},
		Short:   "Remove a node and its connections",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDiagram(cmd.Context(), func(svc *assistant.Service, d diagram.Diagram) error {
				target, err := resolveNode(d, args[0])
				if err != nil {
					return err
				}
				next, err := svc.DeleteNode(cmd.Context(), c.sessionID, target.ID)
				if err != nil {
					return err
				}
				printSuccess("Deleted %s", target.Data.Label)
				if removed := len(d.Edges) - len(next.Edges); removed > 0 {
					printDetail("removed %d connections", removed)
				}
				return nil
			})
		},
	}
}

// =============================================================================
// edge
// =============================================================================

func (c *CLI) edgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Connect or disconnect nodes",
	}
	cmd.AddCommand(c.edgeAddCommand())
	cmd.AddCommand(c.edgeDeleteCommand())
	return cmd
}

func (c *CLI) edgeAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "add <source> <target>",
		Short:   "Connect two nodes",
		Example: `  archsketch edge add "API Server" Database`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDiagram(cmd.Context(), func(svc *assistant.Service, d diagram.Diagram) error {
				src, err := resolveNode(d, args[0])
				if err != nil {
					return err
				}
				dst, err := resolveNode(d, args[1])
				if err != nil {
					return err
				}
				e, err := svc.Connect(cmd.Context(), c.sessionID, src.ID, dst.ID)
				if err != nil {
					return err
				}
				printSuccess("Connected %s %s %s", src.Data.Label, iconArrow, dst.Data.Label)
				printDetail("id %s", e.ID)
				return nil
			})
		},
	}
}

func (c *CLI) edgeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <edge-id> | <source> <target>",
		Aliases: []string{"rm"},
		Short:   "Remove a connection",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withDiagram(cmd.Context(), func(svc *assistant.Service, d diagram.Diagram) error {
				id := args[0]
				if len(args) == 2 {
					src, err := resolveNode(d, args[0])
					if err != nil {
						return err
					}
					dst, err := resolveNode(d, args[1])
					if err != nil {
						return err
					}
					id = ""
					for _, e := range d.Edges {
						if e.Source == src.ID && e.Target == dst.ID {
							id = e.ID
							break
						}
					}
					if id == "" {
						return errors.New(errors.ErrCodeEdgeNotFound, "%s is not connected to %s", src.Data.Label, dst.Data.Label)
					}
				}
				if _, err := svc.DeleteEdge(cmd.Context(), c.sessionID, id); err != nil {
					return err
				}
				printSuccess("Removed connection %s", id)
				return nil
			})
		},
	}
}

// =============================================================================
// clear
// =============================================================================

func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every node and edge from the diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			if err := svc.Clear(cmd.Context(), c.sessionID); err != nil {
				return err
			}
			printSuccess("Cleared session %s", c.sessionID)
			return nil
		},
	}
}
