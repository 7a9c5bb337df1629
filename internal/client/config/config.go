package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Config holds runtime settings of the ImageFeed CLI.
type Config struct {
	// APIBaseURL is the root of the photo REST API.
	APIBaseURL string
	// AuthorizeURL is the page the user opens to grant access.
	AuthorizeURL string
	// TokenURL is the code-for-token endpoint.
	TokenURL string

	AccessKey   string
	SecretKey   string
	RedirectURI string
	Scopes      []string

	PerPage        int
	RequestTimeout time.Duration

	DatabasePath string
	LogLevel     string
}

// LoadDefaults populates c with the production endpoints and defaults. The
// application keys have no default.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.unsplash.com"
	c.AuthorizeURL = "https://unsplash.com/oauth/authorize"
	c.TokenURL = "https://unsplash.com/oauth/token"
	c.RedirectURI = "urn:ietf:wg:oauth:2.0:oob"
	c.Scopes = []string{"public", "read_user", "write_likes"}
	c.PerPage = 10
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "imagefeed.db"
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c or
// -config, then IMAGEFEED_* environment variables, then flags. Later sources
// win. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error

	for _, u := range []struct{ name, value string }{
		{"api base url", c.APIBaseURL},
		{"authorize url", c.AuthorizeURL},
		{"token url", c.TokenURL},
	} {
		parsed, err := url.Parse(u.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("%s %q must be an absolute URL", u.name, u.value))
		}
	}
	if c.AccessKey == "" {
		errs = append(errs, errors.New("access key is required"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is required"))
	}
	if c.RedirectURI == "" {
		errs = append(errs, errors.New("redirect uri is required"))
	}
	if c.PerPage <= 0 {
		errs = append(errs, fmt.Errorf("page size must be positive, got %d", c.PerPage))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	return errors.Join(errs...)
}
