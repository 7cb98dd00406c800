package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const WeatherToolName = "getWeatherInfo"

// syntheticTempC is reported for every city; no weather service is called.
const syntheticTempC = 42

type WeatherInput struct {
	City string `json:"city" jsonschema:"required,description=City name; the free-form form 'city: <name>' is also accepted"`
}

var WeatherDefinition = ToolDefinition{
	Name:        WeatherToolName,
	Description: "Returns the current weather for a city.",
	InputSchema: GenerateSchema[WeatherInput](),
	Parse:       parseWeatherAction,
}

// ParseWeatherInput strips a leading "city:" label and surrounding whitespace.
func ParseWeatherInput(expr string) (WeatherInput, error) {
	s := strings.TrimSpace(expr)
	s, _ = strings.CutPrefix(s, "city:")
	return validateWeatherInput(WeatherInput{City: s})
}

func validateWeatherInput(in WeatherInput) (WeatherInput, error) {
	in.City = strings.TrimSpace(in.City)
	if in.City == "" {
		return WeatherInput{}, fmt.Errorf("%w: city is required", ErrInvalidInput)
	}
	return in, nil
}

func parseWeatherAction(raw json.RawMessage) (Action, error) {
	in, err := decodeInput(raw, ParseWeatherInput)
	if err != nil {
		return nil, err
	}
	if in, err = validateWeatherInput(in); err != nil {
		return nil, err
	}
	return WeatherAction{Input: in}, nil
}

type WeatherAction struct {
	Input WeatherInput
}

func (WeatherAction) Tool() string { return WeatherToolName }

func (a WeatherAction) Run(context.Context) (string, error) {
	return GetWeatherInfo(a.Input), nil
}

// GetWeatherInfo returns a fixed-format synthetic report.
func GetWeatherInfo(in WeatherInput) string {
	return fmt.Sprintf("The weather in %s is %d°C.", in.City, syntheticTempC)
}
