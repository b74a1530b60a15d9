package litellm

// Config contains LiteLLM pricing source settings.
//   - URL: community pricing document (model id -> per-token costs)
//   - Timeout: HTTP client timeout in seconds
type Config struct {
	URL     string `env:"LITELLM_URL"     envDefault:"https://raw.githubusercontent.com/BerriAI/litellm/main/model_prices_and_context_window.json"`
	Timeout int    `env:"LITELLM_TIMEOUT" envDefault:"15"`
	Enabled bool   `env:"LITELLM_ENABLED" envDefault:"true"`
}
