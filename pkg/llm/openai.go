package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/proposal"
)

// OpenAI generates designs with any OpenAI-compatible chat completions API.
type OpenAI struct {
	client      openai.Client
	model       string
	temperature float64
}

// OpenAIConfig configures [NewOpenAI].
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // empty for api.openai.com
	Model       string
	Temperature float64
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "openai: OPENAI_API_KEY is not set")
	}
	if cfg.Model == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "openai: model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns "openai:<model>".
func (c *OpenAI) Name() string { return "openai:" + c.model }

// Generate implements [Generator]. Structured requests use a JSON Schema
// response format; text is streamed when the request has a chunk callback.
func (c *OpenAI) Generate(ctx context.Context, req Request) (Response, error) {
	body := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(BuildPrompt(req))},
		Temperature: openai.Float(c.temperature),
	}
	structured := req.Mode != ModeText
	if structured {
		body.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "system_design",
					Description: openai.String("Components and connections of a system architecture"),
					Schema:      proposal.SchemaMap(),
					Strict:      openai.Bool(false),
				},
			},
		}
	}

	if req.OnChunk == nil {
		resp, err := c.client.Chat.Completions.New(ctx, body)
		if err != nil {
			return Response{}, serviceError("openai", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return Response{}, errors.New(errors.ErrCodeService, "openai returned no content")
		}
		return Response{Text: resp.Choices[0].Message.Content, Structured: structured}, nil
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, body)
	defer stream.Close()

	var b strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		text := chunk.Choices[0].Delta.Content
		b.WriteString(text)
		emit(req, text)
	}
	if err := stream.Err(); err != nil {
		return Response{}, serviceError("openai", err)
	}
	if b.Len() == 0 {
		return Response{}, errors.New(errors.ErrCodeService, "openai returned no content")
	}
	return Response{Text: b.String(), Structured: structured}, nil
}

var _ Generator = (*OpenAI)(nil)
