package models

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ServerVersion is the version reported by the engine version endpoint.
// The server reports a bare release number (e.g. "86"), which is coerced
// into a semantic version.
type ServerVersion struct {
	Raw     string
	Version *semver.Version
}

// ParseServerVersion parses raw, accepting both bare release numbers and
// full semantic versions.
func ParseServerVersion(raw string) (ServerVersion, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return ServerVersion{Raw: raw}, fmt.Errorf("parse server version %q: %w", raw, err)
	}
	return ServerVersion{Raw: raw, Version: v}, nil
}

// AtLeast reports whether the server version is greater than or equal to
// minimum. An unparsed version never satisfies the check.
func (v ServerVersion) AtLeast(minimum string) bool {
	if v.Version == nil {
		return false
	}
	c, err := semver.NewConstraint(">= " + minimum)
	if err != nil {
		return false
	}
	return c.Check(v.Version)
}

// String returns the version as the server reported it.
func (v ServerVersion) String() string {
	return v.Raw
}
