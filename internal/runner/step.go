package runner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type StepKind string

const (
	StepThink   StepKind = "think"
	StepAction  StepKind = "action"
	StepObserve StepKind = "observe"
	StepOutput  StepKind = "output"
)

var ErrMalformedStep = errors.New("malformed step")

// Step is one structured unit of model output.
type Step struct {
	Kind    StepKind        `json:"step"`
	Tool    string          `json:"tool,omitempty"`
	Input   json.RawMessage `json:"input,omitempty"`
	Content string          `json:"content,omitempty"`
}

// ParseStep decodes a model reply. No repair is attempted.
func ParseStep(text string) (Step, error) {
	var s Step
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &s); err != nil {
		return Step{}, fmt.Errorf("%w: %v", ErrMalformedStep, err)
	}
	switch s.Kind {
	case StepThink, StepAction, StepObserve, StepOutput:
		return s, nil
	case "":
		return Step{}, fmt.Errorf("%w: missing \"step\" field", ErrMalformedStep)
	default:
		return Step{}, fmt.Errorf("%w: unknown step %q", ErrMalformedStep, s.Kind)
	}
}

// inputText renders the raw input for console display.
func (s Step) inputText() string {
	var str string
	if err := json.Unmarshal(s.Input, &str); err == nil {
		return str
	}
	return string(s.Input)
}

// observation is the user message fed back after a tool call.
func observation(content string) string {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(Step{Kind: StepObserve, Content: content})
	return strings.TrimSuffix(b.String(), "\n")
}
