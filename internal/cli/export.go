package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/pkg/errors"
	dio "github.com/matzehuels/archsketch/pkg/io"
	"github.com/matzehuels/archsketch/pkg/render"
	"github.com/matzehuels/archsketch/pkg/render/nodelink"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the diagram as JSON, DOT, SVG, PNG or PDF",
		Long: `Export the session's diagram. The format follows --format, else the output
file's extension, else JSON. Without --output the result goes to stdout.

SVG, PNG and PDF are laid out with Graphviz at the nodes' canvas positions.
PNG and PDF additionally need rsvg-convert on the PATH.`,
		Example: `  archsketch export -o design.json
  archsketch export -o design.svg --detailed
  archsketch export --format dot | dot -Tpng > design.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format == "" {
				format = render.FormatFromPath(output)
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			svc, release, err := c.openService(ctx, false)
			if err != nil {
				return err
			}
			defer release()

			sess, err := svc.Session(ctx, c.sessionID)
			if err != nil {
				return err
			}

			renderer, err := c.newRenderer(ctx)
			if err != nil {
				return err
			}
			renderer.Scale = scale

			prog := newProgress(loggerFromContext(ctx))
			data, err := renderer.Render(ctx, sess.Diagram, f, nodelink.Options{Detailed: detailed})
			if err != nil {
				return err
			}
			prog.done("Rendered " + f)

			if output == "" || output == "-" {
				_, err := out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess("Exported %d nodes, %d edges", len(sess.Diagram.Nodes), len(sess.Diagram.Edges))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show type and description in node labels")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")
	return cmd
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot.json>",
		Short: "Replace the diagram with an exported JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dio.ImportSnapshot(args[0])
			if err != nil {
				return err
			}

			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			if err := svc.Replace(cmd.Context(), c.sessionID, d); err != nil {
				return err
			}
			printSuccess("Imported %d nodes, %d edges into session %s", len(d.Nodes), len(d.Edges), c.sessionID)
			return nil
		},
	}
}
