// Package telemetry writes opt-in JSONL events describing each run.
//
// Events go to <dir>/events.jsonl (".agent" by default) only when enabled,
// either at startup via Configure or by AGT_OBSERVE_JSON=1. Raw prompts, model
// replies and tool payloads are never written; only sizes, durations and names.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const eventsFile = "events.jsonl"

var (
	enabled bool
	baseDir = ".agent"
)

// Configure sets the startup state. An empty dir keeps the current directory.
func Configure(on bool, dir string) {
	enabled = on
	if dir != "" {
		baseDir = dir
	}
}

// Enabled reports whether events are written. The env override lets tests
// switch emission on without reconfiguring.
func Enabled() bool {
	if os.Getenv("AGT_OBSERVE_JSON") == "1" {
		return true
	}
	return enabled
}

// Path returns the events file location.
func Path() string { return filepath.Join(baseDir, eventsFile) }

// Emit writes a single JSON line when telemetry is enabled.
// It augments fields with RFC3339Nano time and the event name.
func Emit(name string, fields map[string]any) {
	if !Enabled() {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		m[k] = v
	}
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: marshal: %v\n", err)
		return
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: mkdir %s: %v\n", baseDir, err)
		return
	}

	path := Path()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: open %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "telemetry: write %s: %v\n", path, err)
	}
}
