package utils

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceAccountClaims are the claims of a token signed with a service-account
// key. Scope carries the space-separated OAuth scopes the token is minted for.
type ServiceAccountClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// SignRS256 signs claims with key using RS256. A non-empty keyID is placed in
// the "kid" header so the verifier can pick the matching public key.
//
// Example usage:
//
//	signed, err := utils.SignRS256(claims, key, "key-1")
func SignRS256(claims jwt.Claims, key *rsa.PrivateKey, keyID string) (string, error) {
	if key == nil {
		return "", errors.New("invalid params for signing JWT token: nil key")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if keyID != "" {
		token.Header["kid"] = keyID
	}

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}
	return signed, nil
}

// VerifyRS256 validates the signature, expiry and audience of tokenString
// against the given public key and returns its claims.
func VerifyRS256(tokenString string, key *rsa.PublicKey, audience string) (*ServiceAccountClaims, error) {
	claims := &ServiceAccountClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithAudience(audience))
	if err != nil {
		return nil, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}
	return claims, nil
}

// ParseUnverifiedClaims decodes the claims of tokenString without checking its
// signature. It is used only to read metadata such as expiry and subject.
func ParseUnverifiedClaims(tokenString string) (*ServiceAccountClaims, error) {
	claims := &ServiceAccountClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("error occurred parsing token: %w", err)
	}
	return claims, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
