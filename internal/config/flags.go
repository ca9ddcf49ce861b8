package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagURL               = "url"
	FlagUsername          = "username"
	FlagPassword          = "password"
	FlagSecretsFile       = "secrets-file"
	FlagServiceAccountKey = "service-account-key"
	FlagToken             = "token"
	FlagManaged           = "managed"
	FlagConfig            = "config"
	FlagRequestTimeout    = "request-timeout"
	FlagLogLevel          = "log-level"
)

// RegisterFlags defines the global configuration flags on fs and returns the
// config they are bound to. The returned value is populated once fs is
// parsed; unset flags stay zero so lower-priority sources can fill them.
//
// Flags:
//
//	--url                  workflow server URL
//	--username/--password  HTTP basic auth credentials
//	--secrets-file         JSON file with username, password and url
//	--service-account-key  JSON service-account key file
//	--token                bearer token
//	--managed              server is a managed deployment
//	-c/--config            config file path
//	--request-timeout      per-request timeout (e.g. "30s", "1m")
//	--log-level            debug, info, warn or error
func RegisterFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := &StructuredConfig{}

	fs.StringVar(&cfg.Server.URL, FlagURL, "", "Workflow server URL")
	fs.DurationVar(&cfg.Server.RequestTimeout, FlagRequestTimeout, 0, "Request timeout (e.g., 30s, 1m)")

	fs.StringVar(&cfg.Auth.Username, FlagUsername, "", "Username for HTTP basic auth")
	fs.StringVar(&cfg.Auth.Password, FlagPassword, "", "Password for HTTP basic auth")
	fs.StringVar(&cfg.Auth.SecretsFile, FlagSecretsFile, "", "JSON file with username, password and url")
	fs.StringVar(&cfg.Auth.ServiceAccountKey, FlagServiceAccountKey, "", "JSON service-account key file")
	fs.StringVar(&cfg.Auth.Token, FlagToken, "", "Bearer token")
	fs.BoolVar(&cfg.Auth.Managed, FlagManaged, false, "Server is a managed (as-a-service) deployment")

	fs.StringVarP(&cfg.JSONFilePath, FlagConfig, "c", "", "JSON or YAML config file path")
	fs.StringVar(&cfg.Log.Level, FlagLogLevel, "", "Log level: debug, info, warn, error")

	return cfg
}
