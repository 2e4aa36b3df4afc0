package config

import (
	"errors"
	"net/url"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Default locations of the NY Times COVID-19 CSVs.
const (
	DefaultStatesURL   = "https://raw.githubusercontent.com/nytimes/covid-19-data/master/us-states.csv"
	DefaultCountiesURL = "https://raw.githubusercontent.com/nytimes/covid-19-data/master/us-counties.csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CSV sources.
	StatesURL    string
	CountiesURL  string
	FetchTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first if present; variables
// already set in the environment take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("FETCH_TIMEOUT", "2m"))
	if err != nil || fetchTimeout <= 0 {
		return nil, errors.New("invalid FETCH_TIMEOUT")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", "0.0.0.0:8050"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		StatesURL:    sharedcfg.EnvOrDefault("STATES_CSV_URL", DefaultStatesURL),
		CountiesURL:  sharedcfg.EnvOrDefault("COUNTIES_CSV_URL", DefaultCountiesURL),
		FetchTimeout: fetchTimeout,
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if !isHTTPURL(cfg.StatesURL) {
		return nil, errors.New("STATES_CSV_URL must be an http(s) URL")
	}
	if !isHTTPURL(cfg.CountiesURL) {
		return nil, errors.New("COUNTIES_CSV_URL must be an http(s) URL")
	}

	return cfg, nil
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
