package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultProvider  = ProviderOpenAI
	defaultMaxSteps  = 25
	defaultShell     = "sh"
	defaultLogLevel  = slog.LevelInfo
	defaultLogFormat = LogFormatText
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is read once at startup. Mid-run environment changes have no effect.
type Config struct {
	Provider        Provider
	Model           string // empty selects the provider default
	ProviderBaseURL string
	APIKey          string // not validated here; the provider reports auth failures
	MaxSteps        int    // 0 means unbounded
	Shell           string
	LogLevel        slog.Level
	LogFormat       LogFormat
	ObserveJSON     bool
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Provider:  defaultProvider,
		MaxSteps:  defaultMaxSteps,
		Shell:     defaultShell,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}

// LoadDotEnv loads variables from the given files (".env" when none are given)
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads runtime configuration from environment variables.
func Load() (Config, error) {
	cfg := Default()

	if p := strings.TrimSpace(os.Getenv("AGT_PROVIDER")); p != "" {
		parsed, err := parseProvider(p)
		if err != nil {
			return Config{}, err
		}
		cfg.Provider = parsed
	}
	cfg.Model = strings.TrimSpace(os.Getenv("AGT_MODEL"))
	cfg.ProviderBaseURL = strings.TrimSpace(os.Getenv("AGT_PROVIDER_BASE_URL"))
	cfg.APIKey = apiKeyFor(cfg.Provider)

	if v := strings.TrimSpace(os.Getenv("AGT_MAX_STEPS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse AGT_MAX_STEPS: %w", err)
		}
		if n < 0 {
			return Config{}, fmt.Errorf("parse AGT_MAX_STEPS: value must be >= 0")
		}
		cfg.MaxSteps = n
	}
	if sh := strings.TrimSpace(os.Getenv("AGT_SHELL")); sh != "" {
		cfg.Shell = sh
	}
	if level := strings.TrimSpace(os.Getenv("AGT_LOG_LEVEL")); level != "" {
		parsed, err := parseLogLevel(level)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = parsed
	}
	if format := strings.TrimSpace(os.Getenv("AGT_LOG_FORMAT")); format != "" {
		parsed, err := parseLogFormat(format)
		if err != nil {
			return Config{}, err
		}
		cfg.LogFormat = parsed
	}
	cfg.ObserveJSON = os.Getenv("AGT_OBSERVE_JSON") == "1"

	return cfg, nil
}

// apiKeyFor picks the key variable for the provider. OPEN_AI_KEY is accepted
// as a fallback for older .env files.
func apiKeyFor(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	default:
		if k := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); k != "" {
			return k
		}
		return strings.TrimSpace(os.Getenv("OPEN_AI_KEY"))
	}
}

func parseProvider(input string) (Provider, error) {
	switch Provider(strings.ToLower(input)) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	default:
		return "", fmt.Errorf("parse AGT_PROVIDER: unsupported value %q (expected %q or %q)", input, ProviderOpenAI, ProviderAnthropic)
	}
}

func parseLogLevel(input string) (slog.Level, error) {
	switch strings.ToLower(input) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("parse AGT_LOG_LEVEL: unsupported value %q", input)
	}
}

func parseLogFormat(input string) (LogFormat, error) {
	switch LogFormat(strings.ToLower(input)) {
	case LogFormatText:
		return LogFormatText, nil
	case LogFormatJSON:
		return LogFormatJSON, nil
	default:
		return "", fmt.Errorf("parse AGT_LOG_FORMAT: unsupported value %q (expected %q or %q)", input, LogFormatText, LogFormatJSON)
	}
}
