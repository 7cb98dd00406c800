package runner

import (
	"fmt"

	"github.com/petasbytes/stepagent/tools"
)

const systemPromptTemplate = `You are a helpful AI assistant that resolves user queries by working in explicit steps.

Reply with exactly one JSON object per message and nothing else. The object has the shape:
{"step": "think" | "action" | "observe" | "output", "content": "string", "tool": "string", "input": "string or object"}

Rules:
1. Work through the steps: think one or more times, then choose an action, wait for the observation, and finally produce the output.
2. Emit exactly one step per message and wait for the next turn before continuing.
3. "think" steps carry your reasoning in "content".
4. "action" steps name one of the available tools in "tool" and pass its argument in "input".
5. Tool results arrive as a user message of the form {"step": "observe", "content": "..."}. A result starting with "Error:" means the tool failed.
6. "output" carries the final answer for the user in "content" and ends the conversation.
7. Only call tools that are listed below.

Available tools:
%s
Example:
User: What is the weather in Tokyo?
Assistant: {"step": "think", "content": "The user wants the current weather for Tokyo."}
Assistant: {"step": "think", "content": "getWeatherInfo can answer this."}
Assistant: {"step": "action", "tool": "getWeatherInfo", "input": "city: Tokyo"}
User: {"step": "observe", "content": "The weather in Tokyo is 42°C."}
Assistant: {"step": "output", "content": "It is currently 42°C in Tokyo."}
`

// SystemPrompt returns the fixed instruction prompt listing the dispatcher's tools.
func SystemPrompt(d *tools.Dispatcher) string {
	return fmt.Sprintf(systemPromptTemplate, d.Catalog())
}
