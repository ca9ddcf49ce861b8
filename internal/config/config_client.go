package config

import (
	"fmt"
	"time"
)

// ClientServer holds settings used by the API client transport.
type ClientServer struct {
	// URL is the server base URL. It may be empty when the secrets file
	// carries the URL.
	URL string
	// RequestTimeout is the timeout of a single outbound request.
	RequestTimeout time.Duration
}

// ClientConfig is the configuration view consumed by the CLI, assembled
// from [StructuredConfig].
type ClientConfig struct {
	// Server contains the server address and request timeout.
	Server ClientServer
	// Auth contains the credential inputs.
	Auth Auth
	// Wait contains the polling settings.
	Wait Wait
	// Tools contains external tool paths.
	Tools Tools
	// LogLevel is the validated log level.
	LogLevel string
}

// GetClientConfig builds and validates the client view of the merged
// configuration.
//
// It loads the base config via [GetStructuredConfig] and maps the fields the
// CLI uses into a [ClientConfig].
func GetClientConfig(flags *StructuredConfig) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return &ClientConfig{
		Server: ClientServer{
			URL:            cfg.Server.URL,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Auth:     cfg.Auth,
		Wait:     cfg.Wait,
		Tools:    cfg.Tools,
		LogLevel: cfg.Log.Level,
	}, nil
}
