package steam

// Config holds configuration for the Steam Web API client.
type Config struct {
	// APIKey is the Steam Web API key (STEAM_API_KEY).
	APIKey string `mapstructure:"api_key" default:""`
	// BaseURL is the Steam Web API endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://api.steampowered.com"`
	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Retries is the number of extra attempts for retryable failures.
	Retries int `mapstructure:"retries" default:"2"`
	// Concurrency limits how many collections are fetched at once.
	Concurrency int `mapstructure:"concurrency" default:"4"`
}
