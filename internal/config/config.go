// Package config provides configuration management for the newsletter generator.
// It handles loading YAML or TOML config files, overlaying environment variables
// (including a .env file), and resolving the provider credential.
package config

import (
	"errors"

	"github.com/atinylittleshell/newsletter/internal/core"
)

// ErrMissingAPIKey is returned when no credential is found in flags, env or config.
var ErrMissingAPIKey = errors.New("missing OpenAI API key: set OPENAI_API_KEY or pass --api-key")

// Environment variables read by the loader.
const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"
	EnvModel   = "NEWSLETTER_MODEL"
)

const (
	DefaultModel       = "gpt-5.1"
	DefaultTemperature = 0.4
	DefaultCommunity   = "The Makery"
	DefaultPoster      = "Stavros"
)

// Config holds all generator configuration.
type Config struct {
	// Model is the chat model identifier sent to the provider.
	Model string `yaml:"model" toml:"model"`

	// Temperature is the sampling temperature.
	Temperature float64 `yaml:"temperature" toml:"temperature"`

	// APIKey is the provider credential. Prefer OPENAI_API_KEY over storing it on disk.
	APIKey string `yaml:"api_key" toml:"api_key"`

	// BaseURL points at an OpenAI-compatible endpoint. Empty means the provider default.
	BaseURL string `yaml:"base_url" toml:"base_url"`

	// Output is where the {"LINK_CONTENT": ...} file is written.
	Output string `yaml:"output" toml:"output"`

	// LogLevel controls logging verbosity ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// MarkdownFallback converts a markup-free model answer from Markdown to HTML.
	MarkdownFallback bool `yaml:"markdown_fallback" toml:"markdown_fallback"`

	Prompt PromptConfig `yaml:"prompt" toml:"prompt"`
}

// PromptConfig holds the organization-specific parts of the system instruction.
type PromptConfig struct {
	// Community is the name of the community the newsletter is written for.
	Community string `yaml:"community" toml:"community"`

	// Poster is the example username shown in the credit line of the HTML template.
	Poster string `yaml:"poster" toml:"poster"`

	// SystemFile, when set, replaces the built-in system instruction with the file's contents.
	SystemFile string `yaml:"system_file" toml:"system_file"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		Output:      core.DefaultOutputFile,
		LogLevel:    "info",
		Prompt: PromptConfig{
			Community: DefaultCommunity,
			Poster:    DefaultPoster,
		},
	}
}

// ResolveAPIKey returns the credential, preferring an explicit flag value.
func (c *Config) ResolveAPIKey(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if c.APIKey != "" {
		return c.APIKey, nil
	}
	return "", ErrMissingAPIKey
}
