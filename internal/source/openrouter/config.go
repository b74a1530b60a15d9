package openrouter

// Config contains OpenRouter marketplace source settings.
// All fields map to OpenAI SDK options:
//   - APIKey: Maps to option.WithAPIKey() (the models listing is public)
//   - BaseURL: Maps to option.WithBaseURL()
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
type Config struct {
	APIKey  string `env:"OPENROUTER_API_KEY"`
	BaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Timeout int    `env:"OPENROUTER_TIMEOUT"  envDefault:"15"`
	Enabled bool   `env:"OPENROUTER_ENABLED"  envDefault:"true"`
}
