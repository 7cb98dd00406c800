package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Registry returns all tool definitions wired for the agent.
func Registry(shell string) []ToolDefinition {
	return []ToolDefinition{WeatherDefinition, NewExecDefinition(shell)}
}

var ErrUnknownTool = errors.New("unknown tool")

// UnknownToolError carries the requested name and the closest registered one, if any.
type UnknownToolError struct {
	Name       string
	Suggestion string
}

func (e *UnknownToolError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown tool %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown tool %q", e.Name)
}

func (e *UnknownToolError) Is(target error) bool { return target == ErrUnknownTool }

// Dispatcher resolves tool names to definitions.
type Dispatcher struct {
	defs   []ToolDefinition
	byName map[string]ToolDefinition
}

func NewDispatcher(defs []ToolDefinition) *Dispatcher {
	return &Dispatcher{
		defs:   defs,
		byName: lo.KeyBy(defs, func(d ToolDefinition) string { return d.Name }),
	}
}

// Definitions returns the registered tools in registration order.
func (d *Dispatcher) Definitions() []ToolDefinition { return d.defs }

func (d *Dispatcher) Names() []string {
	return lo.Map(d.defs, func(def ToolDefinition, _ int) string { return def.Name })
}

// Resolve looks up name and parses input into a typed Action.
// Unknown names return an error matching ErrUnknownTool; bad input one matching ErrInvalidInput.
func (d *Dispatcher) Resolve(name string, input json.RawMessage) (Action, error) {
	def, ok := d.byName[name]
	if !ok {
		return nil, &UnknownToolError{Name: name, Suggestion: d.suggest(name)}
	}
	action, err := def.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return action, nil
}

// suggest returns the registered name closest to name, or "".
func (d *Dispatcher) suggest(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	names := d.Names()

	// name is a fragment of a registered tool ("weather" -> getWeatherInfo)
	if ranks := fuzzy.RankFindFold(name, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	// registered tool is a fragment of name, or name is a near miss
	best, bestDist := "", -1
	for _, n := range names {
		dist := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(n))
		if !fuzzy.MatchFold(n, name) && dist > len(n)/3 {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = n, dist
		}
	}
	return best
}
