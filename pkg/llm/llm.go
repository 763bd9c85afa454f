// Package llm talks to generative services that turn a user's description
// into an architecture proposal.
//
// Every provider implements [Generator]. A request carries the user's prompt,
// the current diagram's context string and the desired [Mode]: structured
// JSON matching [proposal.Payload], or plain text in the phrasing understood
// by the free-text parser. Providers return the raw response text; decoding
// and merging happen elsewhere so a bad response can be reported without
// touching the diagram.
package llm

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/proposal"
)

// Mode selects the response format requested from the service.
type Mode string

const (
	// ModeStructured asks for a JSON design payload.
	ModeStructured Mode = "structured"
	// ModeText asks for one instruction per line.
	ModeText Mode = "text"
)

// ParseMode validates a mode name. Empty means [ModeStructured].
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStructured:
		return ModeStructured, nil
	case ModeText:
		return ModeText, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown mode %q (want structured or text)", s)
}

// Request is one generation call.
type Request struct {
	Prompt  string
	Context string
	Mode    Mode

	// OnChunk, if set, receives response text as it streams in.
	OnChunk func(chunk string)
}

// Response is the raw service output.
type Response struct {
	Text       string `json:"text"`
	Structured bool   `json:"structured"`
}

// Generator produces a design response for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// DefaultModel is used by the Gemini provider when none is configured.
const DefaultModel = "gemini-2.5-flash"

// BuildPrompt renders the full prompt sent to the service.
func BuildPrompt(req Request) string {
	sysContext := req.Context
	if strings.TrimSpace(sysContext) == "" {
		sysContext = "Starting with empty system"
	}

	var b strings.Builder
	b.WriteString("You are an expert system architect and designer. Your job is to help users create system architecture diagrams by describing the components and their relationships.\n\n")
	fmt.Fprintf(&b, "Current system context: %s\n\n", sysContext)
	fmt.Fprintf(&b, "User request: %s\n\n", req.Prompt)
	b.WriteString("Based on the user's request, generate a complete system architecture with:\n")
	b.WriteString("1. All necessary components with clear names and types\n")
	b.WriteString("2. All connections between components\n")
	b.WriteString(`3. Use specific technical terms for component types (e.g., "load-balancer", "database", "api-server", "cache", "cdn", "message-broker", "web-client", "mobile-client")` + "\n\n")
	b.WriteString("Make sure to include all components mentioned in the user's description and their interconnections.")
	b.WriteString(" Reuse the exact names of components that already exist.\n\n")

	if req.Mode == ModeText {
		b.WriteString("Answer with one instruction per line and nothing else, using exactly these forms:\n")
		b.WriteString("create a <component type> called <name> that <what it does>\n")
		b.WriteString("<name> connects to <name>\n")
		return b.String()
	}

	b.WriteString("Respond with a single JSON object matching this JSON Schema:\n")
	b.Write(proposal.SchemaJSON())
	b.WriteString("\n")
	return b.String()
}

// emit forwards a chunk to req.OnChunk if one is set.
func emit(req Request, chunk string) {
	if req.OnChunk != nil && chunk != "" {
		req.OnChunk(chunk)
	}
}

// serviceError wraps a provider failure. Deadline expiry maps to TIMEOUT.
func serviceError(provider string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s request timed out", provider)
	}
	return errors.Wrap(errors.ErrCodeService, err, "%s request failed", provider)
}
