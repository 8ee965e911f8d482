package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/atinylittleshell/newsletter/internal/core"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration files and the environment overlay.
type Loader struct {
	logger    *zap.Logger
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		logger:    logger,
		lookupEnv: os.LookupEnv,
	}
}

// LoadResult contains the result of loading a configuration file.
type LoadResult struct {
	Config *Config

	// Path is the file the configuration was read from, empty when only defaults apply.
	Path string
}

// LoadFromFile loads configuration from a YAML or TOML file, chosen by extension.
// If the file doesn't exist, returns default configuration with no error.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Debug("config file not found, using defaults", zap.String("path", path))
			return &LoadResult{Config: DefaultConfig()}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := l.LoadFromString(string(content), formatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	result.Path = path

	l.logger.Debug("loaded config file", zap.String("path", path))
	return result, nil
}

// LoadFromString parses configuration source in the given format ("yaml" or "toml")
// on top of the defaults.
func (l *Loader) LoadFromString(source string, format string) (*LoadResult, error) {
	cfg := DefaultConfig()

	switch format {
	case "toml":
		if _, err := toml.Decode(source, cfg); err != nil {
			return nil, err
		}
	case "yaml", "":
		if err := yaml.Unmarshal([]byte(source), cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	return &LoadResult{Config: cfg}, nil
}

// LoadDefaultConfigPath loads ~/.newsletter/config.yaml, falling back to config.toml
// next to it.
func (l *Loader) LoadDefaultConfigPath() (*LoadResult, error) {
	yamlPath := core.ConfigFile()
	if _, err := os.Stat(yamlPath); err == nil {
		return l.LoadFromFile(yamlPath)
	}

	tomlPath := strings.TrimSuffix(yamlPath, filepath.Ext(yamlPath)) + ".toml"
	return l.LoadFromFile(tomlPath)
}

// ApplyEnv overlays environment variables onto cfg. Values from the dotenv file
// are used only when the real environment does not define the variable.
// A missing dotenv file is not an error.
func (l *Loader) ApplyEnv(cfg *Config, dotenvPath string) error {
	dotenv := map[string]string{}
	if dotenvPath != "" {
		values, err := godotenv.Read(dotenvPath)
		switch {
		case err == nil:
			dotenv = values
			l.logger.Debug("loaded dotenv file", zap.String("path", dotenvPath), zap.Int("keys", len(values)))
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("failed to read %s: %w", dotenvPath, err)
		}
	}

	lookup := func(key string) string {
		if value, ok := l.lookupEnv(key); ok && value != "" {
			return value
		}
		return dotenv[key]
	}

	if v := lookup(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := lookup(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := lookup(EnvModel); v != "" {
		cfg.Model = v
	}
	return nil
}

// Validate reports configuration values the provider would reject.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path must not be empty")
	}
	return nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}
