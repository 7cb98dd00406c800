package provider

import (
	"context"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/petasbytes/stepagent/memory"
)

const DefaultAnthropicModel = anthropic.ModelClaude3_7SonnetLatest

const anthropicMaxTokens = 1024

// continueNudge follows a trailing assistant turn so the request is never
// read as a prefill of that turn.
const continueNudge = "Continue with the next step."

type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
	http   *http.Client
}

// NewAnthropic returns a client for the Messages API. An empty apiKey falls
// back to ANTHROPIC_API_KEY as read by the SDK.
func NewAnthropic(apiKey, model, baseURL string, httpClient *http.Client) *Anthropic {
	opts := []option.RequestOption{option.WithHTTPClient(httpClient)}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := anthropic.NewClient(opts...)

	m := anthropic.Model(model)
	if model == "" {
		m = DefaultAnthropicModel
	}
	return &Anthropic{client: &c, model: m, http: httpClient}
}

func (a *Anthropic) Model() string { return string(a.model) }

func (a *Anthropic) Close() error {
	a.http.CloseIdleConnections()
	return nil
}

func (a *Anthropic) Complete(ctx context.Context, msgs []memory.Message) (string, error) {
	system, conv := toAnthropicMessages(msgs)
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: int64(anthropicMaxTokens),
		Messages:  conv,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}

// toAnthropicMessages lifts system text into the dedicated field, merges
// consecutive same-role turns, and ends on a user turn.
func toAnthropicMessages(msgs []memory.Message) (string, []anthropic.MessageParam) {
	var system []string
	type turn struct {
		role  memory.Role
		parts []string
	}
	var turns []turn
	for _, m := range msgs {
		if m.Role == memory.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].role == m.Role {
			turns[n-1].parts = append(turns[n-1].parts, m.Content)
			continue
		}
		turns = append(turns, turn{role: m.Role, parts: []string{m.Content}})
	}
	if n := len(turns); n > 0 && turns[n-1].role == memory.RoleAssistant {
		turns = append(turns, turn{role: memory.RoleUser, parts: []string{continueNudge}})
	}

	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(strings.Join(t.parts, "\n"))
		if t.role == memory.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
	}
	return strings.Join(system, "\n\n"), out
}
