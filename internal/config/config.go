// Package config loads client configuration from environment variables.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config holds everything the client needs to talk to the backend and
// persist its session token.
type Config struct {
	AppName            string        `env:"APP_NAME" envDefault:"Storefront Client"`
	BaseURL            string        `env:"API_BASE_URL" envDefault:"http://localhost:3000/api"`
	DataFolder         string        `env:"DATA_FOLDER" envDefault:"./data"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	HealthPollInterval time.Duration `env:"HEALTH_POLL_INTERVAL" envDefault:"1m"`
	StoreWatchInterval time.Duration `env:"STORE_WATCH_INTERVAL" envDefault:"1s"`
}

// New parses the environment into a Config.
func New() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "[New] parse environment")
	}
	return cfg, nil
}
