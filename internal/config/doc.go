// Package config provides configuration loading, merging, and validation
// facilities for cromwell-tools.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win over later ones for every non-zero field):
//  1. Command-line flags
//  2. Environment variables prefixed with CROMWELL_
//  3. JSON or YAML config file (--config / CROMWELL_CONFIG)
//  4. Built-in defaults
//
// The main entry points are [GetStructuredConfig] for the merged
// configuration and [GetClientConfig] for the view consumed by the CLI.
package config
