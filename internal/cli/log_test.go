package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

const logPayload = `{"components":[{"name":"Web","type":"web"},{"name":"DB","type":"database"}],"connections":[{"from":"Web","to":"DB"}]}`

func TestProgressLogsAtDebug(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		wantLog bool
	}{
		{"hidden at info", log.InfoLevel, false},
		{"shown at debug", log.DebugLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prog := newProgress(newLogger(&buf, tt.level))
			time.Sleep(5 * time.Millisecond)
			prog.done("Rendered svg")

			if got := strings.Contains(buf.String(), "Rendered svg"); got != tt.wantLog {
				t.Errorf("logged = %v, want %v: %q", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.DebugLevel))
	prog.start = time.Now().Add(-1500 * time.Millisecond)
	prog.done("Generated design")

	if !regexp.MustCompile(`Generated design \(1\.5\d*s\)`).MatchString(buf.String()) {
		t.Errorf("output = %q, want elapsed time in parentheses", buf.String())
	}
}

func TestLoggerFromContextFallsBackToDefault(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Errorf("loggerFromContext(empty) = %p, want log.Default()", got)
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestRootAttachesLogger(t *testing.T) {
	c, _ := newTestCLI(t, nil)
	var logs bytes.Buffer
	c.Logger = newLogger(&logs, LogDebug)

	root := c.RootCommand()
	root.SetArgs([]string{"--session", "logs", "context"})
	cmd, err := root.ExecuteC()
	if err != nil {
		t.Fatal(err)
	}
	if got := loggerFromContext(cmd.Context()); got != c.Logger {
		t.Error("command context does not carry the CLI logger")
	}
}

func TestExportLogsRenderTime(t *testing.T) {
	for _, level := range []log.Level{LogInfo, LogDebug} {
		t.Run(level.String(), func(t *testing.T) {
			c, _ := newTestCLI(t, nil)
			var logs bytes.Buffer
			c.Logger = newLogger(&logs, level)

			if err := run(t, c, logPayload, "--session", "logs", "apply"); err != nil {
				t.Fatal(err)
			}
			mustRun(t, c, "--session", "logs", "export", "--format", "dot")

			got := strings.Contains(logs.String(), "Rendered dot (")
			if got != (level == LogDebug) {
				t.Errorf("level %s: render time logged = %v\n%s", level, got, logs.String())
			}
		})
	}
}
