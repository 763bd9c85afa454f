package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/llm"
	"github.com/matzehuels/archsketch/pkg/proposal"
)

// newTestCLI isolates config, session and cache directories under a temp dir
// and captures command output.
func newTestCLI(t *testing.T, gen llm.Generator) (*CLI, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, k := range []string{
		"ARCHSKETCH_PROVIDER", "ARCHSKETCH_MODEL", "ARCHSKETCH_BASE_URL", "ARCHSKETCH_MODE",
		"ARCHSKETCH_STORE", "ARCHSKETCH_REDIS_ADDR", "ARCHSKETCH_MONGO_URI", "ARCHSKETCH_CACHE", "ARCHSKETCH_ADDR",
	} {
		t.Setenv(k, "")
	}

	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })

	c := New(io.Discard, LogInfo)
	c.Generator = gen
	return c, &buf
}

func run(t *testing.T, c *CLI, stdin string, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func mustRun(t *testing.T, c *CLI, args ...string) {
	t.Helper()
	if err := run(t, c, "", args...); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
}

// showDiagram reads a session's diagram through "show --json".
func showDiagram(t *testing.T, c *CLI, buf *bytes.Buffer, sessionID string) diagram.Diagram {
	t.Helper()
	buf.Reset()
	mustRun(t, c, "--session", sessionID, "show", "--json")
	var d diagram.Diagram
	if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
		t.Fatalf("decode show output %q: %v", buf.String(), err)
	}
	buf.Reset()
	return d
}

func TestPromptShowContext(t *testing.T) {
	gen := llm.NewStaticPayload(proposal.Payload{
		Components: []proposal.Component{
			{Name: "API Server", Type: "api-server"},
			{Name: "Database", Type: "postgres database"},
		},
		Connections: []proposal.Connection{{From: "API Server", To: "Database"}},
	})
	c, buf := newTestCLI(t, gen)

	mustRun(t, c, "prompt", "an", "api", "with", "a", "database")
	if !strings.Contains(buf.String(), "Design generated successfully!") {
		t.Errorf("prompt output = %q", buf.String())
	}
	if got := gen.Requests(); len(got) != 1 || got[0].Prompt != "an api with a database" {
		t.Errorf("requests = %+v", got)
	}

	d := showDiagram(t, c, buf, defaultSession)
	if len(d.Nodes) != 2 || len(d.Edges) != 1 {
		t.Fatalf("diagram = %+v", d)
	}
	if d.Nodes[1].Data.Type != diagram.TypeDatabase {
		t.Errorf("Database type = %q, want database", d.Nodes[1].Data.Type)
	}

	mustRun(t, c, "context")
	if want := "Current system has 2 components: API Server, Database"; !strings.Contains(buf.String(), want) {
		t.Errorf("context = %q", buf.String())
	}

	buf.Reset()
	mustRun(t, c, "show")
	for _, want := range []string{"API Server", "Database", "→"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestPromptErrors(t *testing.T) {
	c, _ := newTestCLI(t, &llm.Static{Err: errors.New(errors.ErrCodeService, "down")})
	if err := run(t, c, "", "prompt"); err == nil {
		t.Error("prompt without text should fail")
	}
	if err := run(t, c, "", "prompt", "anything"); !errors.Is(err, errors.ErrCodeService) {
		t.Errorf("err = %v, want SERVICE_ERROR", err)
	}
}

func TestIngestAndApply(t *testing.T) {
	c, buf := newTestCLI(t, nil)

	text := "Add a database called Orders DB\nAdd an api server called Gateway\nGateway connects to Orders DB\n"
	if err := run(t, c, text, "--session", "ing", "ingest"); err != nil {
		t.Fatal(err)
	}
	d := showDiagram(t, c, buf, "ing")
	if len(d.Nodes) != 2 || len(d.Edges) != 1 {
		t.Fatalf("ingested diagram = %+v", d)
	}

	path := filepath.Join(t.TempDir(), "payload.json")
	payload := `{"components":[{"name":"Orders DB","type":"database","description":"primary store"},{"name":"Cache","type":"redis"}],"connections":[{"from":"Gateway","to":"Cache"}]}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	mustRun(t, c, "--session", "ing", "apply", path)
	if !strings.Contains(buf.String(), "1 created") || !strings.Contains(buf.String(), "1 updated") {
		t.Errorf("apply output = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "dropped Gateway") {
		t.Errorf("unresolved connection not reported: %q", buf.String())
	}

	d = showDiagram(t, c, buf, "ing")
	if len(d.Nodes) != 3 || d.Nodes[0].Data.Description != "primary store" {
		t.Errorf("applied diagram = %+v", d)
	}

	if err := run(t, c, "not json", "--session", "ing", "apply", "-"); !errors.Is(err, errors.ErrCodeInvalidPayload) {
		t.Errorf("err = %v, want INVALID_PAYLOAD", err)
	}
}

func TestNodeAndEdgeCommands(t *testing.T) {
	c, buf := newTestCLI(t, nil)

	mustRun(t, c, "node", "add", "Orders DB", "--type", "database")
	mustRun(t, c, "node", "add", "API", "-t", "api")
	mustRun(t, c, "edge", "add", "api", "Orders DB")
	mustRun(t, c, "edge", "add", "API", "orders db")

	d := showDiagram(t, c, buf, defaultSession)
	if len(d.Nodes) != 2 || len(d.Edges) != 1 {
		t.Fatalf("diagram = %+v", d)
	}
	if d.Nodes[0].Position != diagram.ManualPosition {
		t.Errorf("manual node at %+v", d.Nodes[0].Position)
	}

	mustRun(t, c, "node", "move", "API", "10", "20.5")
	mustRun(t, c, "node", "update", "Orders DB", "--description", "primary", "--color", "#abcdef")
	d = showDiagram(t, c, buf, defaultSession)
	api, _ := d.Node(d.Nodes[1].ID)
	if api.Position != (diagram.Position{X: 10, Y: 20.5}) {
		t.Errorf("moved to %+v", api.Position)
	}
	if db := d.Nodes[0].Data; db.Description != "primary" || db.Color != "#abcdef" || db.Label != "Orders DB" {
		t.Errorf("updated data = %+v", db)
	}

	mustRun(t, c, "edge", "delete", "API", "Orders DB")
	if err := run(t, c, "", "edge", "delete", "API", "Orders DB"); !errors.Is(err, errors.ErrCodeEdgeNotFound) {
		t.Errorf("err = %v, want EDGE_NOT_FOUND", err)
	}
	mustRun(t, c, "edge", "add", "API", "Orders DB")
	mustRun(t, c, "node", "delete", "API")
	d = showDiagram(t, c, buf, defaultSession)
	if len(d.Nodes) != 1 || len(d.Edges) != 0 {
		t.Errorf("after delete = %+v", d)
	}

	mustRun(t, c, "clear")
	if d := showDiagram(t, c, buf, defaultSession); !d.IsEmpty() {
		t.Errorf("after clear = %+v", d)
	}
}

func TestNodeCommandErrors(t *testing.T) {
	c, _ := newTestCLI(t, nil)
	mustRun(t, c, "node", "add", "Web")

	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"unknown type", []string{"node", "add", "X", "--type", "mainframe"}, errors.ErrCodeInvalidNodeType},
		{"bad colour", []string{"node", "add", "X", "--color", "red"}, errors.ErrCodeInvalidInput},
		{"empty label", []string{"node", "add"}, errors.ErrCodeInvalidInput},
		{"unknown node", []string{"node", "delete", "Payments"}, errors.ErrCodeNodeNotFound},
		{"bad position", []string{"node", "move", "Web", "x", "1"}, errors.ErrCodeInvalidInput},
		{"unknown block", []string{"node", "add", "--block", "nope"}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(t, c, "", tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestNodeAddFromBlock(t *testing.T) {
	c, buf := newTestCLI(t, nil)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfg := `
[[blocks]]
name = "Payments Gateway"
type = "payment"
description = "Card processing"
color = "#123456"
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	mustRun(t, c, "--config", cfgPath, "node", "add", "--block", "payments gateway")
	mustRun(t, c, "--config", cfgPath, "node", "add", "Refunds", "--block", "Payments Gateway", "--color", "#fff")

	d := showDiagram(t, c, buf, defaultSession)
	if len(d.Nodes) != 2 {
		t.Fatalf("diagram = %+v", d)
	}
	want := diagram.NodeData{Label: "Payments Gateway", Type: "payment", Description: "Card processing", Color: "#123456"}
	if d.Nodes[0].Data != want {
		t.Errorf("block node = %+v", d.Nodes[0].Data)
	}
	if got := d.Nodes[1].Data; got.Label != "Refunds" || got.Color != "#fff" || got.Type != "payment" {
		t.Errorf("overridden block node = %+v", got)
	}
}

func TestExportImport(t *testing.T) {
	c, buf := newTestCLI(t, nil)

	if err := run(t, c, "", "export"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("exporting an empty diagram: err = %v", err)
	}

	mustRun(t, c, "node", "add", "Web", "--type", "web")
	mustRun(t, c, "node", "add", "API", "--type", "api")
	mustRun(t, c, "edge", "add", "Web", "API")

	buf.Reset()
	mustRun(t, c, "export", "--format", "dot")
	if !strings.Contains(buf.String(), "digraph") || !strings.Contains(buf.String(), "->") {
		t.Errorf("dot export = %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "design.json")
	mustRun(t, c, "export", "-o", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"exportedAt"`)) {
		t.Errorf("snapshot = %s", data)
	}

	mustRun(t, c, "--session", "copy", "import", path)
	d := showDiagram(t, c, buf, "copy")
	if len(d.Nodes) != 2 || len(d.Edges) != 1 {
		t.Errorf("imported diagram = %+v", d)
	}

	if err := run(t, c, "", "export", "--format", "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestSessionCommands(t *testing.T) {
	c, buf := newTestCLI(t, nil)
	mustRun(t, c, "--session", "alpha", "node", "add", "Web")
	mustRun(t, c, "--session", "beta", "node", "add", "API")

	buf.Reset()
	mustRun(t, c, "session", "list")
	if !strings.Contains(buf.String(), "alpha") || !strings.Contains(buf.String(), "beta") {
		t.Errorf("list = %q", buf.String())
	}

	buf.Reset()
	mustRun(t, c, "--session", "alpha", "session", "path")
	if got := strings.TrimSpace(buf.String()); filepath.Base(got) != "alpha.json" {
		t.Errorf("path = %q", got)
	}

	mustRun(t, c, "session", "delete", "alpha")
	buf.Reset()
	mustRun(t, c, "session", "list")
	if strings.Contains(buf.String(), "alpha") {
		t.Errorf("deleted session still listed: %q", buf.String())
	}

	mustRun(t, c, "session", "cleanup")
	if err := run(t, c, "", "--session", "../x", "node", "add", "Web"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestCacheCommands(t *testing.T) {
	c, buf := newTestCLI(t, nil)

	mustRun(t, c, "cache", "path")
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	buf.Reset()
	mustRun(t, c, "cache", "clear")
	if !strings.Contains(buf.String(), "Cache is empty") {
		t.Errorf("clear = %q", buf.String())
	}

	t.Setenv("ARCHSKETCH_CACHE", "none")
	if err := run(t, c, "", "cache", "clear"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}

func TestCompletion(t *testing.T) {
	c, buf := newTestCLI(t, nil)
	mustRun(t, c, "completion", "bash")
	if !strings.Contains(buf.String(), "archsketch") {
		t.Error("bash completion does not mention the command")
	}
	if err := run(t, c, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell accepted")
	}
}

func TestMergeNodeData(t *testing.T) {
	base := diagram.NodeData{Label: "Gateway", Type: "network", Description: "edge", Color: "#111"}
	got := mergeNodeData(base, diagram.NodeData{Label: "Edge Proxy", Color: "#222"})
	want := diagram.NodeData{Label: "Edge Proxy", Type: "network", Description: "edge", Color: "#222"}
	if got != want {
		t.Errorf("mergeNodeData = %+v, want %+v", got, want)
	}
}

func TestResolveNode(t *testing.T) {
	d := diagram.Diagram{}.
		AddNode(diagram.NodeData{Label: "API Server", Type: "api"}, "node-1").
		AddNode(diagram.NodeData{Label: "Database", Type: "database"}, "node-2")

	tests := []struct {
		ref  string
		want string
	}{
		{"node-2", "node-2"},
		{"api server", "node-1"},
		{"Databse", "node-2"},
		{"Cache", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			n, err := resolveNode(d, tt.ref)
			if tt.want == "" {
				if !errors.Is(err, errors.ErrCodeNodeNotFound) {
					t.Errorf("err = %v", err)
				}
				return
			}
			if err != nil || n.ID != tt.want {
				t.Errorf("resolveNode(%q) = %s, %v", tt.ref, n.ID, err)
			}
		})
	}
}
