package generation

import (
	"context"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Generator turns a prompt into a completion. Implementations own their
// timeout; failures are returned as-is and never retried.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

const (
	DefaultSystemPrompt = "You are a helpful assistant."
	DefaultMaxTokens    = 500
	DefaultTemperature  = 0.7
	DefaultTimeout      = 60 * time.Second
)

type Config struct {
	Provider    Provider `yaml:"provider"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"maxTokens"`
	Temperature *float64 `yaml:"temperature"`
	Timeout     Duration `yaml:"timeout"`
	BaseURL     string   `yaml:"baseURL"`
	APIKey      string   `yaml:"-"`
}

func (cfg Config) MaxTokensOrDefault() int {
	if cfg.MaxTokens <= 0 {
		return DefaultMaxTokens
	}

	return cfg.MaxTokens
}

func (cfg Config) TemperatureOrDefault() float64 {
	if cfg.Temperature == nil {
		return DefaultTemperature
	}

	return *cfg.Temperature
}

func (cfg Config) TimeoutOrDefault() time.Duration {
	if cfg.Timeout <= 0 {
		return DefaultTimeout
	}

	return cfg.Timeout.Duration()
}

type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration().String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration().String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	duration, err := time.ParseDuration(str)
	if err != nil {
		return err
	}

	*d = Duration(duration)
	return nil
}
