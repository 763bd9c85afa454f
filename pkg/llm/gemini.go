package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/matzehuels/archsketch/pkg/errors"
)

// Gemini generates designs with the Gemini API. Responses are streamed and
// forwarded chunk by chunk to [Request.OnChunk].
type Gemini struct {
	cli         *genai.Client
	model       string
	temperature *float32
}

// GeminiConfig configures [NewGemini].
type GeminiConfig struct {
	// APIKey may be empty, in which case the SDK reads GEMINI_API_KEY or
	// GOOGLE_API_KEY from the environment.
	APIKey      string
	Model       string
	Temperature *float32
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create gemini client")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{cli: cli, model: model, temperature: cfg.Temperature}, nil
}

// Name returns "gemini:<model>".
func (g *Gemini) Name() string { return "gemini:" + g.model }

// Generate implements [Generator].
func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: BuildPrompt(req)}},
	}}
	config := &genai.GenerateContentConfig{Temperature: g.temperature}
	if req.Mode != ModeText {
		config.ResponseMIMEType = "application/json"
	}

	var b strings.Builder
	for resp, err := range g.cli.Models.GenerateContentStream(ctx, g.model, contents, config) {
		if err != nil {
			return Response{}, serviceError("gemini", err)
		}
		chunk := candidateText(resp)
		b.WriteString(chunk)
		emit(req, chunk)
	}
	if b.Len() == 0 {
		return Response{}, errors.New(errors.ErrCodeService, "gemini returned no content")
	}
	return Response{Text: b.String(), Structured: req.Mode != ModeText}, nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && !p.Thought {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

var _ Generator = (*Gemini)(nil)
