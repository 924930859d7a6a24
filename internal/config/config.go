package config

import "github.com/kelseyhightower/envconfig"

// Config holds every environment-driven setting. Everything is optional:
// credentials unlock the authenticated squad path, BRAVE_API_KEY unlocks
// community trends, and FPL_MANAGER_ID is the default manager when a tool
// call does not name one.
type Config struct {
	ManagerID   int    `envconfig:"FPL_MANAGER_ID"`
	Cookie      string `envconfig:"FPL_COOKIE"`
	XAPIAuth    string `envconfig:"FPL_X_API_AUTH"`
	BraveAPIKey string `envconfig:"BRAVE_API_KEY"`

	CacheFile string `envconfig:"FPL_CACHE_FILE" default:"data/cache.json"`
	LogFile   string `envconfig:"FPL_LOG_FILE" default:"data/fpl-ai-assist.log"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

func New() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
