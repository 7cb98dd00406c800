package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const ExecToolName = "execCommand"

const defaultShell = "sh"

// waitDelay bounds how long Run waits for orphaned children to release the
// output pipes after the shell is killed on cancellation.
const waitDelay = 500 * time.Millisecond

type CommandInput struct {
	Command string `json:"command" jsonschema:"required,description=Shell command line to run, e.g. 'ls -la'"`
}

// CommandError reports a command that could not start or exited non-zero.
type CommandError struct {
	Command string
	Err     error
	Stderr  string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// NewExecDefinition returns the execCommand tool bound to shell ("sh" when empty).
func NewExecDefinition(shell string) ToolDefinition {
	if shell == "" {
		shell = defaultShell
	}
	return ToolDefinition{
		Name:        ExecToolName,
		Description: "Runs a command line in a shell on the user's machine and returns its stdout and stderr.",
		InputSchema: GenerateSchema[CommandInput](),
		Parse: func(raw json.RawMessage) (Action, error) {
			in, err := decodeInput(raw, func(s string) (CommandInput, error) {
				return CommandInput{Command: s}, nil
			})
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(in.Command) == "" {
				return nil, fmt.Errorf("%w: command is required", ErrInvalidInput)
			}
			return CommandAction{Input: in, Shell: shell}, nil
		},
	}
}

type CommandAction struct {
	Input CommandInput
	Shell string
}

func (CommandAction) Tool() string { return ExecToolName }

func (a CommandAction) Run(ctx context.Context) (string, error) {
	return ExecCommand(ctx, a.Shell, a.Input.Command)
}

// ExecCommand runs command via `shell -c` and returns labelled stdout and stderr.
// A non-zero exit yields a *CommandError.
func ExecCommand(ctx context.Context, shell, command string) (string, error) {
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", &CommandError{Command: command, Err: err, Stderr: stderr.String()}
	}
	return fmt.Sprintf("stdout: %s\nstderr: %s", stdout.String(), stderr.String()), nil
}
