package runner_test

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/petasbytes/stepagent/internal/runner"
	"github.com/petasbytes/stepagent/memory"
	"github.com/petasbytes/stepagent/tools"
)

// scripted replays canned replies in order and records every request.
type scripted struct {
	replies []string
	err     error // returned once replies are exhausted
	seen    [][]memory.Message
}

func (s *scripted) Complete(_ context.Context, msgs []memory.Message) (string, error) {
	s.seen = append(s.seen, msgs)
	if i := len(s.seen) - 1; i < len(s.replies) {
		return s.replies[i], nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", errors.New("script exhausted")
}

func (s *scripted) calls() int { return len(s.seen) }

func newRunner(c *scripted, opts ...runner.Option) (*runner.Runner, *bytes.Buffer) {
	var out bytes.Buffer
	opts = append([]runner.Option{runner.WithOutput(&out)}, opts...)
	return runner.New(c, tools.NewDispatcher(tools.Registry("sh")), opts...), &out
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}
