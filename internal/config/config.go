// Package config loads prreviewer configuration from an optional YAML file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// DefaultFile is the config file name looked up in the repository path.
const DefaultFile = ".prreviewer.yaml"

// DefaultModel is the AI backend used when none is configured.
const DefaultModel = "claude-code"

// Models lists the accepted AI backend names.
var Models = []string{"claude-code", "anthropic", "openai", "copilot"}

// GitConfig controls the fix-mode commit.
type GitConfig struct {
	Remote      string `yaml:"remote"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Config holds the resolved configuration. Secrets are only read from the
// environment.
type Config struct {
	GitHubToken string `yaml:"-"`

	Model            string        `yaml:"model"`
	ModelTimeout     time.Duration `yaml:"model_timeout"`
	ClaudePath       string        `yaml:"claude_path"`
	AnthropicAPIKey  string        `yaml:"-"`
	AnthropicModel   string        `yaml:"anthropic_model"`
	AnthropicBaseURL string        `yaml:"anthropic_base_url"`
	OpenAIAPIKey     string        `yaml:"-"`
	OpenAIModel      string        `yaml:"openai_model"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	CopilotModel     string        `yaml:"copilot_model"`

	MinSeverity     string `yaml:"min_severity"`
	AutoReply       bool   `yaml:"auto_reply"`
	IncludeResolved bool   `yaml:"include_resolved"`
	LogLevel        string `yaml:"log_level"`

	Git GitConfig `yaml:"git"`
}

// Defaults returns the configuration used before any file or variable is
// applied.
func Defaults() *Config {
	return &Config{
		Model:     DefaultModel,
		AutoReply: true,
		LogLevel:  "warn",
		Git:       GitConfig{Remote: "origin"},
	}
}

// Load applies the YAML file at path (skipped when path is empty or the file
// does not exist) and then environment variables on top of Defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("no config file", "path", path)
		case err != nil:
			return nil, fmt.Errorf("%w: reading %s: %w", model.ErrConfiguration, path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%w: parsing %s: %w", model.ErrConfiguration, path, err)
			}
			slog.Debug("loaded config file", "path", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.GitHubToken, "GITHUB_TOKEN", "PRREVIEWER_GITHUB_TOKEN")
	setString(&c.Model, "PRREVIEWER_MODEL")
	setString(&c.ClaudePath, "PRREVIEWER_CLAUDE_PATH")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.AnthropicModel, "PRREVIEWER_ANTHROPIC_MODEL")
	setString(&c.AnthropicBaseURL, "ANTHROPIC_BASE_URL")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.OpenAIModel, "PRREVIEWER_OPENAI_MODEL")
	setString(&c.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.CopilotModel, "PRREVIEWER_COPILOT_MODEL")
	setString(&c.MinSeverity, "PRREVIEWER_MIN_SEVERITY")
	setString(&c.LogLevel, "PRREVIEWER_LOG_LEVEL")
	setString(&c.Git.Remote, "PRREVIEWER_GIT_REMOTE")
	setString(&c.Git.AuthorName, "PRREVIEWER_GIT_AUTHOR_NAME")
	setString(&c.Git.AuthorEmail, "PRREVIEWER_GIT_AUTHOR_EMAIL")

	if v, ok := lookup("PRREVIEWER_MODEL_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: PRREVIEWER_MODEL_TIMEOUT has invalid duration %q: %w", model.ErrConfiguration, v, err)
		}
		c.ModelTimeout = d
	}
	if v, ok := lookup("PRREVIEWER_AUTO_REPLY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: PRREVIEWER_AUTO_REPLY has invalid boolean %q: %w", model.ErrConfiguration, v, err)
		}
		c.AutoReply = b
	}
	return nil
}

// Validate checks the resolved configuration before any remote call is made.
func (c *Config) Validate() error {
	var errs []error

	if c.GitHubToken == "" {
		errs = append(errs, errors.New("GITHUB_TOKEN is not set"))
	}
	if !slices.Contains(Models, c.Model) {
		errs = append(errs, fmt.Errorf("unknown model %q (want one of %s)", c.Model, strings.Join(Models, ", ")))
	}
	if c.Model == "anthropic" && c.AnthropicAPIKey == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic model"))
	}
	if c.Model == "openai" && c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai model"))
	}
	if c.MinSeverity != "" {
		if _, err := model.ParseSeverity(c.MinSeverity); err != nil {
			errs = append(errs, fmt.Errorf("min severity: %w", err))
		}
	}
	if c.ModelTimeout < 0 {
		errs = append(errs, fmt.Errorf("model timeout %s is negative", c.ModelTimeout))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrConfiguration, errors.Join(errs...))
	}
	return nil
}

// Threshold returns the configured minimum severity, or zero when the user
// should be asked.
func (c *Config) Threshold() model.Severity {
	sev, err := model.ParseSeverity(c.MinSeverity)
	if err != nil {
		return 0
	}
	return sev
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: want debug, info, warn or error", c.LogLevel)
	}
	return lvl, nil
}

func setString(dst *string, keys ...string) {
	for _, k := range keys {
		if v, ok := lookup(k); ok {
			*dst = v
			return
		}
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}
