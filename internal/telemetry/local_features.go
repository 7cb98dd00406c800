package telemetry

import (
	"context"

	"github.com/petasbytes/stepagent/internal/metrics"
)

// EmitQueryFeatures records size features of the user query, never its text.
func EmitQueryFeatures(ctx context.Context, query string) {
	if !Enabled() {
		return
	}
	turnID, _ := TurnIDFromContext(ctx)
	f := metrics.CountFeatures(query)
	Emit("query_received", map[string]any{
		"turn_id":          turnID,
		"features_version": "1",
		"query": map[string]any{
			"bytes": f.Bytes,
			"runes": f.Runes,
			"words": f.Words,
			"lines": f.Lines,
		},
		"est_tokens": metrics.EstimateTokens(query),
	})
}
