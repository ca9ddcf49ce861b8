package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a bearer token minted from a service-account key.
//
// Token keeps the parsed claims of the signed assertion for inspection in
// tests and logs. For tokens obtained from a token endpoint the claims are
// nil because the access token is opaque to the client.
type Token struct {
	// Claims are the registered claims of a self-signed token.
	// Excluded from JSON serialization; use SignedString on the wire.
	Claims *jwt.RegisteredClaims `json:"-"`

	// SignedString is the value sent after "Bearer " in the Authorization
	// header.
	SignedString string `json:"access_token"`

	// ExpiresAt is the moment the server stops accepting the token.
	ExpiresAt time.Time `json:"-"`
}

// IsValidAt reports whether the token can still be used at now, keeping
// margin as a safety window before the real expiry.
func (t Token) IsValidAt(now time.Time, margin time.Duration) bool {
	if t.SignedString == "" {
		return false
	}
	return now.Add(margin).Before(t.ExpiresAt)
}

// String returns the compact serialized token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}

// TokenResponse is the body of an OAuth 2.0 token endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
