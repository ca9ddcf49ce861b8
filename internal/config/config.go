// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Default values applied when no source sets a field.
const (
	DefaultRequestTimeout = 60 * time.Second
	DefaultPollInterval   = 30 * time.Second
	DefaultWaitTimeout    = 120 * time.Minute
	DefaultJavaPath       = "java"
	DefaultLogLevel       = "info"
)

// envPrefix is prepended to every environment variable name.
const envPrefix = "CROMWELL_"

// StructuredConfig is the top-level configuration container for
// cromwell-tools. It aggregates all sub-configurations and is populated by
// merging values from command-line flags, environment variables, an optional
// config file and defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//
// Every variable is additionally prefixed with CROMWELL_.
type StructuredConfig struct {
	// Server holds the workflow server address and request timeout.
	Server Server `envPrefix:"SERVER_"`

	// Auth holds the credential inputs handed to the auth resolver.
	Auth Auth `envPrefix:"AUTH_"`

	// Wait holds the polling settings of the wait command.
	Wait Wait `envPrefix:"WAIT_"`

	// Tools holds paths of the external programs used by validate.
	Tools Tools `envPrefix:"TOOLS_"`

	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON (or YAML) configuration
	// file. When non-empty, the file is parsed and merged below the values
	// already loaded from flags and environment variables.
	// Populated via the CROMWELL_CONFIG environment variable or the
	// -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds the address of the workflow server.
type Server struct {
	// URL is the base URL of the server (e.g. "https://cromwell.example.org").
	// Env: CROMWELL_SERVER_URL
	URL string `env:"URL"`

	// RequestTimeout bounds every single HTTP request to the server
	// (e.g. "30s", "1m").
	// Env: CROMWELL_SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Auth holds the raw credential inputs. At most one credential source may be
// set; the auth resolver enforces this.
type Auth struct {
	// Env: CROMWELL_AUTH_USERNAME
	Username string `env:"USERNAME"`

	// Env: CROMWELL_AUTH_PASSWORD
	Password string `env:"PASSWORD"`

	// SecretsFile is a JSON file with username, password and url.
	// Env: CROMWELL_AUTH_SECRETS_FILE
	SecretsFile string `env:"SECRETS_FILE"`

	// ServiceAccountKey is a JSON service-account key file.
	// Env: CROMWELL_AUTH_SERVICE_ACCOUNT_KEY
	ServiceAccountKey string `env:"SERVICE_ACCOUNT_KEY"`

	// Token is a pre-issued bearer token.
	// Env: CROMWELL_AUTH_TOKEN
	Token string `env:"TOKEN"`

	// Managed marks the server as a managed (as-a-service) deployment.
	// Env: CROMWELL_AUTH_MANAGED
	Managed bool `env:"MANAGED"`
}

// Wait holds the polling settings used when waiting for workflows.
type Wait struct {
	// PollInterval is the pause between two polling rounds.
	// Env: CROMWELL_WAIT_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// Timeout is the total time budget of a wait.
	// Env: CROMWELL_WAIT_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Tools holds locations of external programs.
type Tools struct {
	// WomtoolPath is the path to the womtool jar.
	// Env: CROMWELL_TOOLS_WOMTOOL_PATH
	WomtoolPath string `env:"WOMTOOL_PATH"`

	// JavaPath is the java binary used to run womtool.
	// Env: CROMWELL_TOOLS_JAVA_PATH
	JavaPath string `env:"JAVA_PATH"`
}

// Log holds logging settings.
type Log struct {
	// Level is one of debug, info, warn, error.
	// Env: CROMWELL_LOG_LEVEL
	Level string `env:"LEVEL"`
}

// Defaults returns the configuration used for fields no source sets.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		Server: Server{RequestTimeout: DefaultRequestTimeout},
		Wait: Wait{
			PollInterval: DefaultPollInterval,
			Timeout:      DefaultWaitTimeout,
		},
		Tools: Tools{JavaPath: DefaultJavaPath},
		Log:   Log{Level: DefaultLogLevel},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (the first source
// that sets a field wins):
//  1. Command-line flags (flags may be nil)
//  2. Environment variables
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig(flags *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(flags).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
