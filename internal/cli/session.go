package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/session"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "List, remove and locate sessions",
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionDeleteCommand())
	cmd.AddCommand(c.sessionPathCommand())
	cmd.AddCommand(c.sessionCleanupCommand())

	return cmd
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			list, err := svc.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No sessions yet")
				return nil
			}
			printLine(renderSessions(list, c.sessionID, time.Now()))
			return nil
		},
	}
}

func renderSessions(list []*session.Session, current string, now time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		marker := "  "
		if s.ID == current {
			marker = "▸ "
		}
		rows = append(rows, []string{
			marker + s.ID,
			fmt.Sprint(len(s.Diagram.Nodes)),
			fmt.Sprint(len(s.Diagram.Edges)),
			fmt.Sprint(len(s.Messages)),
			formatRelativeTime(s.UpdatedAt, now),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Session", "Nodes", "Edges", "Messages", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < len(list) && list[row].ID == current {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a session (default: the --session one)",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := c.sessionID
			if len(args) == 1 {
				id = args[0]
			}
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			if err := svc.Store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess("Deleted session %s", id)
			return nil
		},
	}
}

func (c *CLI) sessionPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the current session is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			files, ok := svc.Store.(*session.FileStore)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s session store has no file path", c.config().Store.Backend)
			}
			printLine(files.SessionPath(c.sessionID))
			return nil
		},
	}
}

func (c *CLI) sessionCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer release()

			n, err := svc.Store.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Removed %d expired sessions", n)
			return nil
		},
	}
}
