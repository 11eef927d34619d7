package clientcli

import "errors"

// Errors for configuration validation.
var (
	ErrLoginRequired    = errors.New("login is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrConfigRequired   = errors.New("config is required")
)
