package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/imagefeed/internal/flagx"
	"github.com/dmitrijs2005/imagefeed/internal/timex"
)

// jsonConfig is the on-disk shape. Absent fields keep the value they already
// had.
type jsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	AuthorizeURL   string         `json:"authorize_url"`
	TokenURL       string         `json:"token_url"`
	AccessKey      string         `json:"access_key"`
	SecretKey      string         `json:"secret_key"`
	RedirectURI    string         `json:"redirect_uri"`
	Scopes         []string       `json:"scopes"`
	PerPage        int            `json:"per_page"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`
	LogLevel       string         `json:"log_level"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.AuthorizeURL, jc.AuthorizeURL)
	setString(&cfg.TokenURL, jc.TokenURL)
	setString(&cfg.AccessKey, jc.AccessKey)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.RedirectURI, jc.RedirectURI)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if len(jc.Scopes) > 0 {
		cfg.Scopes = jc.Scopes
	}
	if jc.PerPage != 0 {
		cfg.PerPage = jc.PerPage
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
