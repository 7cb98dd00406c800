// Package tools defines the closed set of tools the agent may invoke.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, input parser.
//   - Action: a tool call whose typed input was parsed when it was resolved.
//   - Dispatcher: name lookup with "did you mean" hints for unknown names.
//   - Tools: getWeatherInfo (synthetic), execCommand (shell, no allow-list).
//
// Tool input arrives either as a free-form JSON string ("city: Tokyo") or as
// a JSON object matching the tool's input schema ({"city": "Tokyo"}).
package tools
