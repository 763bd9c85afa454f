package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/pkg/assistant"
	"github.com/matzehuels/archsketch/pkg/errors"
)

// promptCommand creates the prompt command.
func (c *CLI) promptCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "prompt <text...>",
		Short: "Describe a change and merge the proposed design",
		Long: `Send a request to the configured generative service and merge the proposed
components and connections into the session's diagram.

Components that match an existing node (by id or label) update it in place;
everything else is added on the grid.`,
		Example: `  archsketch prompt "a web app with an API and a Postgres database"
  archsketch prompt --session shop "add a payment service behind the API"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrompt(cmd.Context(), strings.Join(args, " "), timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (default from config, 0 for none)")
	return cmd
}

func (c *CLI) runPrompt(ctx context.Context, text string, timeout time.Duration) error {
	svc, release, err := c.openService(ctx, true)
	if err != nil {
		return err
	}
	defer release()

	if timeout <= 0 {
		timeout = c.config().LLM.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger := loggerFromContext(ctx)
	logger.Debug("submitting prompt", "session", c.sessionID, "provider", svc.Generator.Name())

	spinner := newSpinnerWithContext(ctx, "Generating design...")
	received := 0
	onChunk := func(chunk string) {
		received += len(chunk)
		spinner.Update(fmt.Sprintf("Generating design... %d bytes", received))
	}

	prog := newProgress(logger)
	spinner.Start()
	outcome, err := svc.Stream(ctx, c.sessionID, text, onChunk)
	if err != nil {
		spinner.Stop()
		return err
	}
	prog.done("Generated design")

	spinner.StopWithSuccess(outcome.Reply)
	printOutcome(outcome)
	printNextStep("View the diagram", fmt.Sprintf("%s show --session %s", appName, c.sessionID))
	return nil
}

// ingestCommand creates the ingest command.
func (c *CLI) ingestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [file|-]",
		Short: "Merge components described in plain text lines",
		Long: `Read lines such as

  Component: API Server (api-server)
  Connection: API Server connects to Database

from a file or stdin and merge them without calling a generative service.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			outcome, err := svc.Ingest(cmd.Context(), c.sessionID, text)
			if err != nil {
				return err
			}
			printSuccess("Merged %s", describeInput(args))
			printOutcome(outcome)
			return nil
		},
	}
}

// applyCommand creates the apply command.
func (c *CLI) applyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <payload.json|->",
		Short: "Merge a JSON design payload",
		Long: `Merge a {"components": [...], "connections": [...]} payload, as produced by a
generative service in structured mode, into the session's diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			outcome, err := svc.Apply(cmd.Context(), c.sessionID, payload)
			if err != nil {
				return err
			}
			printSuccess("Applied %s", describeInput(args))
			printOutcome(outcome)
			return nil
		},
	}
}

func printOutcome(o *assistant.Outcome) {
	printReport(o.Report)
	printDetail("%d nodes, %d edges in session %s", len(o.Diagram.Nodes), len(o.Diagram.Edges), o.SessionID)
}

// readInput reads the file named by args[0], or stdin when there is no
// argument or it is "-".
func readInput(stdin io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read input")
	}
	return string(data), nil
}

func describeInput(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return args[0]
}
