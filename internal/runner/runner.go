package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/petasbytes/stepagent/internal/metrics"
	"github.com/petasbytes/stepagent/internal/provider"
	"github.com/petasbytes/stepagent/internal/telemetry"
	"github.com/petasbytes/stepagent/memory"
	"github.com/petasbytes/stepagent/tools"
)

type State string

const (
	StateDone   State = "done"
	StateFailed State = "failed"
)

var ErrStepLimit = errors.New("step limit reached without output")

// Outcome summarizes a finished run.
type Outcome struct {
	State State
	Steps int    // completions requested
	Final string // content of the output step, when State is StateDone
}

type Runner struct {
	Client   provider.Completer
	Tools    *tools.Dispatcher
	Out      io.Writer
	Log      *slog.Logger
	MaxSteps int // 0 means unbounded
}

type Option func(*Runner)

func WithOutput(w io.Writer) Option { return func(r *Runner) { r.Out = w } }

func WithLogger(l *slog.Logger) Option { return func(r *Runner) { r.Log = l } }

func WithMaxSteps(n int) Option { return func(r *Runner) { r.MaxSteps = n } }

func New(client provider.Completer, dispatcher *tools.Dispatcher, opts ...Option) *Runner {
	r := &Runner{
		Client: client,
		Tools:  dispatcher,
		Out:    os.Stdout,
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewHistory seeds a transcript with the system prompt and query.
func (r *Runner) NewHistory(query string) *memory.History {
	return memory.NewHistory(SystemPrompt(r.Tools), query)
}

// Run resolves one query from scratch.
func (r *Runner) Run(ctx context.Context, query string) (Outcome, error) {
	ctx, _ = telemetry.EnsureTurnID(ctx)
	telemetry.EmitQueryFeatures(ctx, query)
	return r.Loop(ctx, r.NewHistory(query))
}

// Loop runs steps over h until an output step, a fatal error, or the step limit.
// Fatal errors are printed as an ERROR line and returned.
func (r *Runner) Loop(ctx context.Context, h *memory.History) (Outcome, error) {
	ctx, _ = telemetry.EnsureTurnID(ctx)
	out := Outcome{State: StateFailed}
	for r.MaxSteps == 0 || out.Steps < r.MaxSteps {
		out.Steps++
		step, err := r.RunOneStep(ctx, h)
		if err != nil {
			r.print("error", err.Error())
			r.Log.Error("run failed", "steps", out.Steps, "err", err)
			return out, err
		}
		if step.Kind == StepOutput {
			out.State = StateDone
			out.Final = step.Content
			r.Log.Debug("run finished", "steps", out.Steps)
			return out, nil
		}
	}
	err := fmt.Errorf("%w (%d steps)", ErrStepLimit, r.MaxSteps)
	r.print("error", err.Error())
	r.Log.Error("run failed", "steps", out.Steps, "err", err)
	return out, err
}

// RunOneStep requests one completion over h, appends it, and dispatches the parsed step.
// Only provider and parse failures are returned as errors.
func (r *Runner) RunOneStep(ctx context.Context, h *memory.History) (Step, error) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)

	msgs := h.Messages()
	start := time.Now()
	reply, err := r.Client.Complete(ctx, msgs)
	r.emitCompletion(turnID, msgs, reply, time.Since(start), err)
	if err != nil {
		return Step{}, fmt.Errorf("completion: %w", err)
	}
	h.AppendAssistant(reply)

	step, err := ParseStep(reply)
	if err != nil {
		return Step{}, fmt.Errorf("parse step: %w", err)
	}
	telemetry.Emit("step_parsed", map[string]any{
		"turn_id": turnID,
		"step":    string(step.Kind),
		"tool":    step.Tool,
	})

	switch step.Kind {
	case StepThink, StepObserve, StepOutput:
		r.print(string(step.Kind), step.Content)
	case StepAction:
		r.print("action", fmt.Sprintf("%s(%s)", step.Tool, step.inputText()))
		r.dispatch(ctx, h, step)
	}
	return step, nil
}

// dispatch resolves and runs the step's tool. Unknown tools leave h untouched;
// any other failure is appended as an observation so the model can react.
func (r *Runner) dispatch(ctx context.Context, h *memory.History, step Step) {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	start := time.Now()

	emit := func(outputSize int, errStr string) {
		fields := map[string]any{
			"turn_id":     turnID,
			"tool_name":   step.Tool,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(step.Input),
			"output_size": outputSize,
			"error":       nil,
		}
		if errStr != "" {
			fields["error"] = errStr
		}
		telemetry.Emit("tool_exec", fields)
	}

	action, err := r.Tools.Resolve(step.Tool, step.Input)
	if errors.Is(err, tools.ErrUnknownTool) {
		emit(0, "tool not found")
		r.print("error", err.Error())
		r.Log.Warn("unknown tool", "tool", step.Tool, "available", r.Tools.Names())
		return
	}
	if err != nil {
		emit(0, "invalid input")
		r.toolFailed(h, step.Tool, err)
		return
	}

	result, err := action.Run(ctx)
	if err != nil {
		emit(0, "tool error")
		r.toolFailed(h, step.Tool, err)
		return
	}
	f := metrics.CountFeatures(result)
	emit(f.Bytes, "")
	r.Log.Debug("tool result", "tool", step.Tool, "bytes", f.Bytes, "lines", f.Lines)
	h.AppendUser(observation(result))
}

func (r *Runner) toolFailed(h *memory.History, tool string, err error) {
	r.print("error", err.Error())
	r.Log.Warn("tool failed", "tool", tool, "err", err)
	h.AppendUser(observation("Error: " + err.Error()))
}

func (r *Runner) emitCompletion(turnID string, msgs []memory.Message, reply string, d time.Duration, err error) {
	if !telemetry.Enabled() {
		return
	}
	contents := make([]string, len(msgs))
	for i, m := range msgs {
		contents[i] = m.Content
	}
	fields := map[string]any{
		"turn_id":     turnID,
		"duration_ms": d.Milliseconds(),
		"history_len": len(msgs),
		"est_tokens":  metrics.EstimateTokens(contents...),
		"reply_size":  len(reply),
		"error":       nil,
	}
	if err != nil {
		fields["error"] = "provider error"
	}
	telemetry.Emit("completion", fields)
}

// print writes one console line prefixed by the upper-cased kind.
func (r *Runner) print(kind, text string) {
	fmt.Fprintf(r.Out, "%s: %s\n", strings.ToUpper(kind), text)
}
