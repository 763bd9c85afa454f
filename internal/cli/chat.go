package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/pkg/assistant"
	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/session"
)

// chatCommand creates the interactive chat command.
func (c *CLI) chatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Refine the diagram interactively",
		Long: `Open an interactive prompt. Each message is sent to the generative service and
merged into the session's diagram; the current components are shown as you go.

Type /clear to empty the diagram and /quit (or press ctrl+c) to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, release, err := c.openService(ctx, true)
			if err != nil {
				return err
			}
			defer release()

			sess, err := svc.Session(ctx, c.sessionID)
			if err != nil {
				return err
			}

			m := newChatModel(ctx, svc, sess)
			_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// chatModel
// =============================================================================

var chatKeys = struct {
	Submit key.Binding
	Cancel key.Binding
	Quit   key.Binding
}{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "send")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel request")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

var (
	chatUserStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	chatAssistantStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	chatErrorStyle     = lipgloss.NewStyle().Foreground(colorRed)
)

// chatTranscriptSize bounds how many transcript lines are shown.
const chatTranscriptSize = 12

type chatLine struct {
	role session.Role
	text string
	err  bool
}

// outcomeMsg carries a finished submission back into the update loop.
type outcomeMsg struct {
	outcome *assistant.Outcome
	diagram diagram.Diagram
	reply   string // stored transcript reply when err is set
	err     error
}

type chatModel struct {
	ctx       context.Context
	svc       *assistant.Service
	sessionID string

	input   textinput.Model
	spinner spinner.Model
	waiting bool
	cancel  context.CancelFunc

	lines   []chatLine
	diagram diagram.Diagram
	width   int
	quit    bool
}

func newChatModel(ctx context.Context, svc *assistant.Service, sess *session.Session) chatModel {
	input := textinput.New()
	input.Placeholder = "Describe what to add or change..."
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleIconSpinner

	m := chatModel{
		ctx:       ctx,
		svc:       svc,
		sessionID: sess.ID,
		input:     input,
		spinner:   s,
		diagram:   sess.Diagram,
	}
	for _, msg := range sess.Messages {
		m.lines = append(m.lines, chatLine{role: msg.Role, text: msg.Content})
	}
	return m
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 20)
		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case outcomeMsg:
		m.waiting = false
		m.cancel = nil
		if msg.err != nil {
			text := errors.UserMessage(msg.err)
			if msg.reply != "" {
				text = fmt.Sprintf("%s (%s)", msg.reply, text)
			}
			m.lines = append(m.lines, chatLine{role: session.RoleAssistant, text: text, err: true})
		} else {
			m.lines = append(m.lines, chatLine{role: session.RoleAssistant, text: msg.outcome.Reply})
		}
		m.diagram = msg.diagram
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, chatKeys.Quit):
			if m.cancel != nil {
				m.cancel()
			}
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, chatKeys.Cancel):
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		case m.waiting:
			return m, nil
		case key.Matches(msg, chatKeys.Submit):
			return m.handleInput(m.input.Value())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleInput runs a slash command or starts a submission.
func (m chatModel) handleInput(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	switch text {
	case "/quit", "/exit":
		m.quit = true
		return m, tea.Quit
	case "/clear":
		if err := m.svc.Clear(m.ctx, m.sessionID); err != nil {
			m.lines = append(m.lines, chatLine{role: session.RoleAssistant, text: errors.UserMessage(err), err: true})
			return m, nil
		}
		m.diagram = diagram.Diagram{}
		m.lines = append(m.lines, chatLine{role: session.RoleAssistant, text: "Cleared the diagram."})
		return m, nil
	}

	m.lines = append(m.lines, chatLine{role: session.RoleUser, text: text})
	m.waiting = true
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	return m, tea.Batch(m.spinner.Tick, m.submit(ctx, cancel, text))
}

// submit returns a command that sends prompt and reports the outcome along
// with the stored diagram, which is unchanged on failure.
func (m chatModel) submit(ctx context.Context, cancel context.CancelFunc, prompt string) tea.Cmd {
	svc, id := m.svc, m.sessionID
	return func() tea.Msg {
		defer cancel()
		outcome, err := svc.Submit(ctx, id, prompt)
		if err == nil {
			return outcomeMsg{outcome: outcome, diagram: outcome.Diagram}
		}
		msg := outcomeMsg{err: err}
		if sess, gerr := svc.Session(context.WithoutCancel(ctx), id); gerr == nil {
			msg.diagram = sess.Diagram
			if n := len(sess.Messages); n > 0 && sess.Messages[n-1].Role == session.RoleAssistant {
				msg.reply = sess.Messages[n-1].Content
			}
		}
		return msg
	}
}

func (m chatModel) View() string {
	if m.quit {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("archsketch · " + m.sessionID))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.diagram.Summary()))
	b.WriteString("\n\n")

	lines := m.lines
	if len(lines) > chatTranscriptSize {
		lines = lines[len(lines)-chatTranscriptSize:]
	}
	for _, l := range lines {
		b.WriteString(renderChatLine(l))
		b.WriteString("\n")
	}
	if len(lines) > 0 {
		b.WriteString("\n")
	}

	if m.waiting {
		b.WriteString(m.spinner.View() + " " + StyleDim.Render("Generating design..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s %s  %s %s  %s %s",
		chatKeys.Submit.Help().Key, chatKeys.Submit.Help().Desc,
		chatKeys.Cancel.Help().Key, chatKeys.Cancel.Help().Desc,
		chatKeys.Quit.Help().Key, chatKeys.Quit.Help().Desc)))
	return b.String()
}

func renderChatLine(l chatLine) string {
	if l.role == session.RoleUser {
		return chatUserStyle.Render("you") + "  " + l.text
	}
	text := l.text
	if l.err {
		text = chatErrorStyle.Render(text)
	}
	return chatAssistantStyle.Render("bot") + "  " + text
}
