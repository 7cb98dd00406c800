// Package provider adapts hosted completion APIs to the single call the
// conversation loop needs: full history in, one text reply out.
package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/petasbytes/stepagent/internal/config"
	"github.com/petasbytes/stepagent/memory"
)

// Completer returns the model's reply to the full message history.
type Completer interface {
	Complete(ctx context.Context, msgs []memory.Message) (string, error)
}

// Client is a Completer with an explicit lifetime. Callers create it at
// startup and Close it at exit.
type Client interface {
	Completer
	Model() string
	Close() error
}

// New builds the client selected by cfg. A nil httpClient gets a fresh one
// owned by the returned Client.
func New(cfg config.Config, httpClient *http.Client) (Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.APIKey, cfg.Model, cfg.ProviderBaseURL, httpClient), nil
	case config.ProviderOpenAI, "":
		return NewOpenAI(cfg.APIKey, cfg.Model, cfg.ProviderBaseURL, httpClient)
	default:
		return nil, fmt.Errorf("provider: unsupported %q", cfg.Provider)
	}
}
