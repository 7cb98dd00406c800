package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Catalog renders the registered tools for inclusion in the system prompt.
func (d *Dispatcher) Catalog() string {
	var b strings.Builder
	for _, def := range d.defs {
		fmt.Fprintf(&b, "- %s: %s\n", def.Name, def.Description)
		if def.InputSchema == nil {
			continue
		}
		schema, err := json.Marshal(def.InputSchema)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  input schema: %s\n", schema)
	}
	return b.String()
}
