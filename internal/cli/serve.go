package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram API over HTTP",
		Long: `Start the HTTP API. Sessions, prompts, manual edits and exports are exposed
under /api/sessions; the server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			svc, release, err := c.openService(ctx, true)
			if err != nil {
				return err
			}
			defer release()

			renderer, err := c.newRenderer(ctx)
			if err != nil {
				return err
			}

			srv := server.New(svc, renderer, c.Logger)
			srv.PromptTimeout = cfg.LLM.Timeout

			printInfo("Serving on %s", addr)
			printDetail("provider %s, %s sessions", svc.Generator.Name(), cfg.Store.Backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
