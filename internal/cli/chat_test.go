package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/archsketch/pkg/assistant"
	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/llm"
	"github.com/matzehuels/archsketch/pkg/session"
)

func newChatTest(t *testing.T, gen llm.Generator) chatModel {
	t.Helper()
	store, err := session.NewMemoryStore(0)
	if err != nil {
		t.Fatal(err)
	}
	svc := assistant.New(store, gen, log.New(io.Discard))
	sess, err := svc.Session(context.Background(), "chat")
	if err != nil {
		t.Fatal(err)
	}
	return newChatModel(context.Background(), svc, sess)
}

// send runs a submission synchronously and feeds its result back.
func send(t *testing.T, m chatModel, text string) chatModel {
	t.Helper()
	next, _ := m.handleInput(text)
	m = next.(chatModel)
	if !m.waiting {
		t.Fatalf("%q did not start a request", text)
	}
	ctx, cancel := context.WithCancel(context.Background())
	msg := m.submit(ctx, cancel, text)()
	next, _ = m.Update(msg)
	return next.(chatModel)
}

func TestChatSubmit(t *testing.T) {
	m := newChatTest(t, &llm.Static{Text: `{"components":[{"name":"API","type":"api"},{"name":"DB","type":"database"}],"connections":[{"from":"API","to":"DB"}],"description":"Added an API and a DB."}`})

	m = send(t, m, "an api with a db")
	if m.waiting {
		t.Error("still waiting after the outcome arrived")
	}
	if len(m.diagram.Nodes) != 2 || len(m.diagram.Edges) != 1 {
		t.Errorf("diagram = %+v", m.diagram)
	}
	if len(m.lines) != 2 || m.lines[0].role != session.RoleUser || m.lines[1].text != "Added an API and a DB." {
		t.Errorf("lines = %+v", m.lines)
	}
	if view := m.View(); !strings.Contains(view, "Current system has 2 components: API, DB") {
		t.Errorf("view does not summarise the diagram:\n%s", view)
	}
}

func TestChatFailureKeepsDiagram(t *testing.T) {
	m := newChatTest(t, &llm.Static{Err: errors.New(errors.ErrCodeService, "quota exceeded")})

	m = send(t, m, "anything")
	last := m.lines[len(m.lines)-1]
	if !last.err || last.text != assistant.ReplyServiceError+" (quota exceeded)" {
		t.Errorf("last line = %+v", last)
	}
	if !m.diagram.IsEmpty() {
		t.Errorf("diagram = %+v", m.diagram)
	}
}

func TestChatCommands(t *testing.T) {
	m := newChatTest(t, &llm.Static{Text: `{"components":[{"name":"Web","type":"web"}],"connections":[]}`})
	m = send(t, m, "a web app")

	next, cmd := m.handleInput("/clear")
	m = next.(chatModel)
	if cmd != nil || !m.diagram.IsEmpty() {
		t.Errorf("/clear: cmd = %v, diagram = %+v", cmd, m.diagram)
	}

	next, _ = m.handleInput("   ")
	if next.(chatModel).waiting {
		t.Error("blank input started a request")
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(chatModel).quit || cmd == nil {
		t.Error("ctrl+c did not quit")
	}
	if next.(chatModel).View() != "" {
		t.Error("view after quit should be empty")
	}
}
