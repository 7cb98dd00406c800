package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/petasbytes/stepagent/internal/config"
	"github.com/petasbytes/stepagent/internal/provider"
	"github.com/petasbytes/stepagent/internal/runner"
	"github.com/petasbytes/stepagent/internal/telemetry"
	"github.com/petasbytes/stepagent/tools"
)

var errEmptyQuery = errors.New("empty query")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 when the model produced an output step.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logger := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	telemetry.Configure(cfg.ObserveJSON, "")

	query, err := readQuery(args, stdin, stdout)
	if err != nil {
		fmt.Fprintf(stdout, "ERROR: %v\n", err)
		return 1
	}

	client, err := provider.New(cfg, nil)
	if err != nil {
		fmt.Fprintf(stdout, "ERROR: %v\n", err)
		logger.Error("provider setup failed", "provider", cfg.Provider, "err", err)
		return 1
	}
	defer client.Close()
	logger.Debug("provider ready", "provider", cfg.Provider, "model", client.Model(), "max_steps", cfg.MaxSteps)

	// Ctrl-C / SIGTERM cancels the in-flight request or command.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(client, tools.NewDispatcher(tools.Registry(cfg.Shell)),
		runner.WithOutput(stdout),
		runner.WithLogger(logger),
		runner.WithMaxSteps(cfg.MaxSteps),
	)
	if _, err := r.Run(ctx, query); err != nil {
		return 1
	}
	return 0
}

// readQuery joins the arguments, or prompts for one line on stdin when there are none.
func readQuery(args []string, stdin io.Reader, stdout io.Writer) (string, error) {
	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		return q, nil
	}
	fmt.Fprintf(stdout, "%v: ", ancli.ColoredMessage(ancli.BLUE, "You"))
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read query: %w", err)
		}
		return "", errEmptyQuery
	}
	q := strings.TrimSpace(scanner.Text())
	if q == "" {
		return "", errEmptyQuery
	}
	return q, nil
}
