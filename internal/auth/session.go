package auth

import (
	"context"
	"encoding/base64"
	"net/http"
)

// Session is the resolved authentication state for one server.
//
// Everything except the service-account token cache is fixed at Resolve time.
// A Session is safe for concurrent use.
type Session struct {
	url     string
	managed bool
	creds   Credentials
	tokens  *tokenSource
}

// URL returns the server base URL without a trailing slash.
func (s *Session) URL() string {
	return s.url
}

// Managed reports whether the server is a managed deployment.
func (s *Session) Managed() bool {
	return s.managed
}

// Kind returns the credential variant.
func (s *Session) Kind() Kind {
	return s.creds.Kind()
}

// Credentials returns the resolved credentials.
func (s *Session) Credentials() Credentials {
	return s.creds
}

// Authorize sets the Authorization header for one request. For
// service-account sessions this may mint a new token.
func (s *Session) Authorize(ctx context.Context, header http.Header) error {
	switch c := s.creds.(type) {
	case BasicCredentials:
		header.Set("Authorization", "Basic "+basicAuth(c.Username, c.Password))
	case BearerCredentials:
		header.Set("Authorization", "Bearer "+c.Token)
	case ServiceAccountCredentials:
		token, err := s.tokens.Token(ctx)
		if err != nil {
			return err
		}
		header.Set("Authorization", "Bearer "+token.SignedString)
	case NoCredentials:
	}
	return nil
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
