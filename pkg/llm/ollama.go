package llm

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/proposal"
)

// Ollama generates designs with a local or hosted Ollama server.
type Ollama struct {
	client      *api.Client
	model       string
	temperature float64
}

// OllamaConfig configures [NewOllama].
type OllamaConfig struct {
	BaseURL     string // empty uses OLLAMA_HOST or the default local address
	APIKey      string // sent as a bearer token when set
	Model       string
	Temperature float64
}

type bearerTransport struct {
	token string
	rt    http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("Authorization") == "" {
		r.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.rt.RoundTrip(r)
}

// NewOllama creates an Ollama generator.
func NewOllama(cfg OllamaConfig) (*Ollama, error) {
	if cfg.Model == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "ollama: model is required")
	}

	var client *api.Client
	if cfg.BaseURL == "" && cfg.APIKey == "" {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "ollama client")
		}
		client = c
	} else {
		base := cfg.BaseURL
		if base == "" {
			base = "http://127.0.0.1:11434"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "ollama base url")
		}
		httpClient := http.DefaultClient
		if cfg.APIKey != "" {
			httpClient = &http.Client{Transport: &bearerTransport{token: cfg.APIKey, rt: http.DefaultTransport}}
		}
		client = api.NewClient(u, httpClient)
	}

	return &Ollama{client: client, model: cfg.Model, temperature: cfg.Temperature}, nil
}

// Name returns "ollama:<model>".
func (o *Ollama) Name() string { return "ollama:" + o.model }

// Generate implements [Generator]. Structured requests constrain the output
// with the payload's JSON Schema.
func (o *Ollama) Generate(ctx context.Context, req Request) (Response, error) {
	stream := req.OnChunk != nil
	chat := &api.ChatRequest{
		Model:    o.model,
		Messages: []api.Message{{Role: "user", Content: BuildPrompt(req)}},
		Stream:   &stream,
		Options:  map[string]any{"temperature": o.temperature},
	}
	structured := req.Mode != ModeText
	if structured {
		chat.Format = proposal.SchemaJSON()
	}

	var b strings.Builder
	err := o.client.Chat(ctx, chat, func(cr api.ChatResponse) error {
		b.WriteString(cr.Message.Content)
		emit(req, cr.Message.Content)
		return nil
	})
	if err != nil {
		return Response{}, serviceError("ollama", err)
	}
	if b.Len() == 0 {
		return Response{}, errors.New(errors.ErrCodeService, "ollama returned no content")
	}
	return Response{Text: b.String(), Structured: structured}, nil
}

var _ Generator = (*Ollama)(nil)
