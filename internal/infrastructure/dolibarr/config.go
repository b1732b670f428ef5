package dolibarr

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Errors for Dolibarr client configuration
var (
	ErrConfigMissingBaseURL = errors.New("dolibarr: base URL is required")
	ErrConfigInvalidBaseURL = errors.New("dolibarr: base URL is not a valid URL")
	ErrConfigMissingAPIKey  = errors.New("dolibarr: API key is required")
)

// Config holds configuration for the Dolibarr REST API client
type Config struct {
	// BaseURL is the API root, e.g. "https://erp.example.com/api/index.php"
	BaseURL string
	// APIKey is the static key passed as the DOLAPIKEY query parameter
	APIKey string
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// NewConfig creates a new Dolibarr client configuration with defaults
func NewConfig(baseURL, apiKey string) *Config {
	return &Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Timeout: 30 * time.Second,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return ErrConfigInvalidBaseURL
	}
	if c.APIKey == "" {
		return ErrConfigMissingAPIKey
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}
