// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Provider holds the OAuth app registration for one provider.
// All three values are required; there are no baked-in fallbacks.
type Provider struct {
	ClientID     string `env:"CLIENT_ID,required"`
	ClientSecret string `env:"CLIENT_SECRET,required"`
	RedirectURI  string `env:"REDIRECT_URI,required"`
}

// Config is the full process configuration.
type Config struct {
	Host           string `env:"HOST" envDefault:"0.0.0.0"`
	Port           int    `env:"PORT" envDefault:"8000"`
	RedisURL       string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	FrontendOrigin string `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:3000"`

	HubSpot  Provider `envPrefix:"HUBSPOT_"`
	Notion   Provider `envPrefix:"NOTION_"`
	Airtable Provider `envPrefix:"AIRTABLE_"`
}

// Load reads configuration from environment variables.
// A missing provider client id, client secret, or redirect URI fails
// startup rather than falling back to a default secret.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
