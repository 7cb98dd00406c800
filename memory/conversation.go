package memory

import (
	"errors"
	"fmt"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry of the transcript sent to the provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

var ErrInvalidRole = errors.New("memory: invalid role")

// History is the append-only transcript for one query.
// It always starts with the system prompt followed by the user query.
type History struct {
	msgs []Message
}

// NewHistory seeds a transcript with the instruction prompt and the original query.
func NewHistory(systemPrompt, query string) *History {
	return &History{msgs: []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: query},
	}}
}

// Append adds a user or assistant message. System messages are only allowed at index 0.
func (h *History) Append(role Role, content string) error {
	switch role {
	case RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	h.msgs = append(h.msgs, Message{Role: role, Content: content})
	return nil
}

// AppendAssistant records the model's raw reply.
func (h *History) AppendAssistant(content string) {
	h.msgs = append(h.msgs, Message{Role: RoleAssistant, Content: content})
}

// AppendUser records a tool observation or injected error text.
func (h *History) AppendUser(content string) {
	h.msgs = append(h.msgs, Message{Role: RoleUser, Content: content})
}

// Messages returns a copy of the transcript, oldest first.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.msgs))
	copy(out, h.msgs)
	return out
}

func (h *History) Len() int { return len(h.msgs) }

// Last returns the newest message.
func (h *History) Last() Message { return h.msgs[len(h.msgs)-1] }
