package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds raw IMAGEFEED_* values. Unset variables leave the zero
// value and do not override earlier sources.
type envConfig struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	AuthorizeURL   string        `env:"AUTHORIZE_URL"`
	TokenURL       string        `env:"TOKEN_URL"`
	AccessKey      string        `env:"ACCESS_KEY"`
	SecretKey      string        `env:"SECRET_KEY"`
	RedirectURI    string        `env:"REDIRECT_URI"`
	Scopes         []string      `env:"SCOPES" envSeparator:" "`
	PerPage        int           `env:"PER_PAGE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	DatabasePath   string        `env:"DATABASE_PATH"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: "IMAGEFEED_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&cfg.APIBaseURL, ec.APIBaseURL)
	setString(&cfg.AuthorizeURL, ec.AuthorizeURL)
	setString(&cfg.TokenURL, ec.TokenURL)
	setString(&cfg.AccessKey, ec.AccessKey)
	setString(&cfg.SecretKey, ec.SecretKey)
	setString(&cfg.RedirectURI, ec.RedirectURI)
	setString(&cfg.DatabasePath, ec.DatabasePath)
	setString(&cfg.LogLevel, ec.LogLevel)
	if len(ec.Scopes) > 0 {
		cfg.Scopes = ec.Scopes
	}
	if ec.PerPage != 0 {
		cfg.PerPage = ec.PerPage
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	return nil
}
