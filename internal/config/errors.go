package config

import (
	"errors"
)

// Sentinel error kinds for configuration. Load wraps them so callers can use errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
