package clientcli

import (
	"time"

	"github.com/tbxmanager/tbx"
)

// DefaultServer is the tbxmanager host used when none is configured.
const DefaultServer = "tbxmanager.com"

// Config holds resolved client configuration for one call.
type Config struct {
	// Server is a host ("tbxmanager.com") or a base URL ("https://host:8443").
	Server   string
	Login    string
	Password string
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

// WithDefaults returns a copy of the config with default values applied.
// If Server is empty, it defaults to DefaultServer.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	return &cfg
}

// ValidateWithAuth checks that both credentials are set.
func (c *Config) ValidateWithAuth() error {
	if c.Login == "" {
		return ErrLoginRequired
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// ConfigFromOptions builds a Config taking credentials from resolved options.
func ConfigFromOptions(server string, timeout time.Duration, opts *tbx.Options) *Config {
	return &Config{
		Server:   server,
		Login:    opts.Value(tbx.OptLogin),
		Password: opts.Value(tbx.OptPassword),
		Timeout:  timeout,
	}
}
