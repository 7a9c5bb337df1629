// Package config loads runtime configuration for the ImageFeed CLI.
//
// Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. IMAGEFEED_* environment variables, so keys can stay out of shell history.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   path of the local SQLite database
//	-p int      photos per page
//	-t int      request timeout (seconds)
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "https://api.unsplash.com",
//	  "access_key": "...",
//	  "secret_key": "...",
//	  "per_page": 10,
//	  "request_timeout": "30s",
//	  "database_path": "imagefeed.db",
//	  "log_level": "info"
//	}
//
// Environment variables
//
//	IMAGEFEED_API_BASE_URL   IMAGEFEED_AUTHORIZE_URL   IMAGEFEED_TOKEN_URL
//	IMAGEFEED_ACCESS_KEY     IMAGEFEED_SECRET_KEY      IMAGEFEED_REDIRECT_URI
//	IMAGEFEED_SCOPES (space separated)                 IMAGEFEED_PER_PAGE
//	IMAGEFEED_REQUEST_TIMEOUT                          IMAGEFEED_DATABASE_PATH
//	IMAGEFEED_LOG_LEVEL
package config
