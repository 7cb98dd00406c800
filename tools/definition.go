package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
)

var ErrInvalidInput = errors.New("invalid tool input")

// Action is a resolved tool call, ready to run.
type Action interface {
	Tool() string
	Run(ctx context.Context) (string, error)
}

type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	// Parse turns the step's raw input into a typed Action.
	Parse func(input json.RawMessage) (Action, error)
}

// GenerateSchema derives a JSON Schema from the Go input struct T.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// decodeInput accepts a JSON string (handed to fromText) or a JSON object
// (unmarshalled into T). Missing input is treated as an empty string.
func decodeInput[T any](raw json.RawMessage, fromText func(string) (T, error)) (T, error) {
	var zero T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fromText("")
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return fromText(s)
	case '{':
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return v, nil
	default:
		return zero, fmt.Errorf("%w: expected a string or an object", ErrInvalidInput)
	}
}
