// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// validate checks that the final merged [StructuredConfig] is usable by any
// command. Settings only some commands need are checked by the
// [ClientConfig] Require* methods.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %s",
			ErrInvalidServerConfigs, cfg.Server.RequestTimeout)
	}

	if cfg.Wait.PollInterval <= 0 || cfg.Wait.Timeout <= 0 {
		return fmt.Errorf("%w: poll interval and timeout must be positive, got %s and %s",
			ErrInvalidWaitConfigs, cfg.Wait.PollInterval, cfg.Wait.Timeout)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil || cfg.Log.Level == "" {
		return fmt.Errorf("%w: unknown level %q", ErrInvalidLogConfigs, cfg.Log.Level)
	}

	return nil
}

// RequireServer reports an error when no server URL is configured.
func (cfg *ClientConfig) RequireServer() error {
	if strings.TrimSpace(cfg.Server.URL) == "" {
		return fmt.Errorf("%w: server url is required (--url or CROMWELL_SERVER_URL)", ErrInvalidServerConfigs)
	}
	return nil
}

// RequireWomtool reports an error when the womtool jar is not configured.
func (cfg *ClientConfig) RequireWomtool() error {
	if strings.TrimSpace(cfg.Tools.WomtoolPath) == "" {
		return fmt.Errorf("%w: womtool path is required (--womtool-path or CROMWELL_TOOLS_WOMTOOL_PATH)", ErrInvalidToolsConfigs)
	}
	return nil
}
