package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/petasbytes/stepagent/memory"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const DefaultOpenAIModel = "gpt-4o-mini"

var ErrEmptyCompletion = errors.New("provider returned no choices")

type OpenAI struct {
	llm   *openai.LLM
	model string
	http  *http.Client
}

// NewOpenAI returns a chat-completions client in JSON mode. An empty apiKey
// falls back to OPENAI_API_KEY as read by langchaingo, which refuses to
// construct a client when neither is set.
func NewOpenAI(apiKey, model, baseURL string, httpClient *http.Client) (*OpenAI, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithHTTPClient(httpClient),
	}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return &OpenAI{llm: llm, model: model, http: httpClient}, nil
}

func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Close() error {
	o.http.CloseIdleConnections()
	return nil
}

func (o *OpenAI) Complete(ctx context.Context, msgs []memory.Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		content = append(content, llms.TextParts(chatRole(m.Role), m.Content))
	}
	resp, err := o.llm.GenerateContent(ctx, content, llms.WithJSONMode())
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Content, nil
}

func chatRole(r memory.Role) schema.ChatMessageType {
	switch r {
	case memory.RoleSystem:
		return schema.ChatMessageTypeSystem
	case memory.RoleAssistant:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
