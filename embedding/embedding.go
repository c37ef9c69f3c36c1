package embedding

type Provider string

const (
	ProviderHashing Provider = "hashing"
	ProviderOpenAI  Provider = "openai"
	ProviderOllama  Provider = "ollama"
)

type Config struct {
	Provider  Provider `yaml:"provider"`
	Model     string   `yaml:"model"`
	Dimension int      `yaml:"dimension"`
	BaseURL   string   `yaml:"baseURL"`
	APIKey    string   `yaml:"-"`
}
