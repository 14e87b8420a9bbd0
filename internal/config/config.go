package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the complete leetcoach configuration
type Config struct {
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Coach      CoachConfig      `yaml:"coach"`
	Hooks      HooksConfig      `yaml:"hooks"`
	Log        LogConfig        `yaml:"log"`
}

// OpenRouterConfig holds the endpoint and credentials. api_key, base_url,
// model and app_url support ${VAR} expansion.
type OpenRouterConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url" validate:"omitempty,url"`
	Model    string `yaml:"model" validate:"omitempty,contains=/"`
	AppTitle string `yaml:"app_title"`
	AppURL   string `yaml:"app_url" validate:"omitempty,url"`
}

type CoachConfig struct {
	Mode               string `yaml:"mode" validate:"omitempty,oneof=learn agent"`
	Reasoning          string `yaml:"reasoning" validate:"omitempty,oneof=low medium high"`
	CustomInstructions string `yaml:"custom_instructions"`
	// CheckModel looks up the model's endpoints before the first turn
	CheckModel bool `yaml:"check_model"`
}

// HooksConfig contains hook-related settings
type HooksConfig struct {
	// AutoAccept applies suggestions without asking
	AutoAccept bool `yaml:"auto_accept"`
	// ToolConfirm enables user confirmation before specified tools
	ToolConfirm []string `yaml:"tool_confirm" validate:"dive,required"`
}

type LogConfig struct {
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn tool coach error"`
	NoColor bool   `yaml:"no_color"`
}

// ErrMissingAPIKey is returned by RequireCredentials
var ErrMissingAPIKey = errors.New("OpenRouter API key is not configured (set OPENROUTER_API_KEY or openrouter.api_key)")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and parses the YAML config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	cfg.expand()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Locations lists the config files LoadWithDefaults tries, in order
func Locations() []string {
	locations := []string{"./leetcoach.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "leetcoach", "leetcoach.yaml"))
	}
	return append(locations, "/etc/leetcoach/leetcoach.yaml")
}

// LoadWithDefaults loads the first config found in Locations. No config file
// is not an error. Environment variables fill what the file leaves empty.
func LoadWithDefaults() (*Config, error) {
	cfg := &Config{}
	for _, loc := range Locations() {
		if _, err := os.Stat(loc); err == nil {
			if cfg, err = Load(loc); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv fills empty credentials from OPENROUTER_API_KEY,
// OPENROUTER_BASE_URL and OPENROUTER_MODEL
func (c *Config) ApplyEnv() {
	setIfEmpty(&c.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	setIfEmpty(&c.OpenRouter.BaseURL, "OPENROUTER_BASE_URL")
	setIfEmpty(&c.OpenRouter.Model, "OPENROUTER_MODEL")
}

func setIfEmpty(field *string, env string) {
	if *field == "" {
		*field = os.Getenv(env)
	}
}

// expand resolves environment references in the credential and endpoint
// fields only. Free text such as custom instructions is left verbatim.
func (c *Config) expand() {
	c.OpenRouter.APIKey = ExpandEnv(c.OpenRouter.APIKey)
	c.OpenRouter.BaseURL = ExpandEnv(c.OpenRouter.BaseURL)
	c.OpenRouter.Model = ExpandEnv(c.OpenRouter.Model)
	c.OpenRouter.AppURL = ExpandEnv(c.OpenRouter.AppURL)
}

// Validate checks config correctness
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// RequireCredentials checks what is needed to talk to the API
func (c *Config) RequireCredentials() error {
	if c.OpenRouter.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.OpenRouter.Model == "" {
		return errors.New("model is not configured (use --model, OPENROUTER_MODEL or openrouter.model)")
	}
	return c.Validate()
}
