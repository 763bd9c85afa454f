package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/pkg/session"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		asJSON   bool
		messages bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the session's diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			sess, err := svc.Session(cmd.Context(), c.sessionID)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sess.Diagram)
			}
			printSession(sess, messages)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the diagram as JSON")
	cmd.Flags().BoolVarP(&messages, "messages", "m", false, "include the conversation")
	return cmd
}

func printSession(sess *session.Session, messages bool) {
	d := sess.Diagram
	printLine(StyleTitle.Render(fmt.Sprintf("Session %s", sess.ID)))
	if d.IsEmpty() {
		printInfo("The diagram is empty")
		printNextStep("Start one with", appName+` prompt "a web app with an API and a database"`)
		return
	}
	printLine(renderNodes(d))
	if len(d.Edges) > 0 {
		printLine(renderEdges(d))
	}
	if messages && len(sess.Messages) > 0 {
		printLine(StyleTitle.Render("Conversation"))
		for _, m := range sess.Messages {
			printKeyValue(string(m.Role), m.Content)
		}
	}
}

// contextCommand creates the context command.
func (c *CLI) contextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Print the diagram summary sent along with prompts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			sess, err := svc.Session(cmd.Context(), c.sessionID)
			if err != nil {
				return err
			}
			printLine(sess.Diagram.Summary())
			return nil
		},
	}
}
