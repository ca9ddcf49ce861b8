// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, JSON response
// writing, HTTP client initialization, JWT signing and parsing, and
// workflow id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// PrincipalCtxKey is the key used to store the authenticated caller
// (user name or token subject) in the context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.PrincipalCtxKey, "alice")
var PrincipalCtxKey = contextKey("principal")

// GetPrincipalFromContext retrieves the authenticated caller from the context.
//
// Returns the principal and an ok flag:
//   - ok == true: value is found and is a non-empty string
//   - ok == false: value is missing, empty or has an unexpected type
func GetPrincipalFromContext(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(PrincipalCtxKey).(string)
	return principal, ok && principal != ""
}
