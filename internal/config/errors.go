package config

import "errors"

// Errors returned while loading or validating the configuration.
var (
	// ErrLoadConfig wraps failures reading a configuration source
	// (environment variables or the config file).
	ErrLoadConfig = errors.New("error loading configuration")
	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, a missing URL or a non-positive request timeout).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidWaitConfigs indicates a non-positive poll interval or timeout.
	ErrInvalidWaitConfigs = errors.New("invalid wait configuration")
	// ErrInvalidToolsConfigs indicates missing paths of external tools.
	ErrInvalidToolsConfigs = errors.New("invalid tools configuration")
	// ErrInvalidLogConfigs indicates an unknown log level.
	ErrInvalidLogConfigs = errors.New("invalid log configuration")
)

// IsConfigError reports whether err originates from this package.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrLoadConfig) ||
		errors.Is(err, ErrInvalidServerConfigs) ||
		errors.Is(err, ErrInvalidWaitConfigs) ||
		errors.Is(err, ErrInvalidToolsConfigs) ||
		errors.Is(err, ErrInvalidLogConfigs)
}
