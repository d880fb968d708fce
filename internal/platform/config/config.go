package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application settings, loaded from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8000"`

	// AI providers
	DefaultAIProvider string `env:"DEFAULT_AI_PROVIDER" envDefault:"groq"`
	GroqAPIKey        string `env:"GROQ_API_KEY"`
	GroqModel         string `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	AnthropicAPIKey   string `env:"ANTHROPIC_API_KEY"`
	ClaudeModel       string `env:"CLAUDE_MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	OpenAIAPIKey      string `env:"OPENAI_API_KEY"`
	OpenAIModel       string `env:"OPENAI_MODEL" envDefault:"gpt-4-turbo-preview"`
	AIRateLimitRPS    int    `env:"AI_RATE_LIMIT_RPS" envDefault:"1"`
	MaxKeyPoints      int    `env:"MAX_KEY_POINTS" envDefault:"5"`

	// News aggregators
	NewsAPIKey        string `env:"NEWSAPI_KEY"`
	GNewsAPIKey       string `env:"GNEWS_API_KEY"`
	DefaultAggregator string `env:"DEFAULT_AGGREGATOR" envDefault:"newsapi"`

	// Cache
	CacheMaxSize int `env:"CACHE_MAX_SIZE" envDefault:"500"`

	// Scraper
	ScraperTimeout   time.Duration `env:"SCRAPER_TIMEOUT" envDefault:"30s"`
	ScraperRPS       float64       `env:"SCRAPER_RPS" envDefault:"2"`
	ScraperUserAgent string        `env:"SCRAPER_USER_AGENT" envDefault:"Spectrum/1.0 (News Analysis Bot)"`

	// HTTP rate limiting
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
}

// Load reads configuration from .env (when present) and the environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
