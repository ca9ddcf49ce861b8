package auth

import "errors"

var (
	// ErrAmbiguousCredentials is returned when more than one credential
	// source is given, or when only one half of a username/password pair is.
	ErrAmbiguousCredentials = errors.New("ambiguous credentials")

	// ErrCredentialFile is returned when a secrets file or service-account
	// key file is missing, unreadable or malformed.
	ErrCredentialFile = errors.New("invalid credential file")

	// ErrInvalidServerURL is returned when the server URL is empty or is not
	// an absolute http(s) URL.
	ErrInvalidServerURL = errors.New("invalid server url")

	// ErrTokenRefresh is returned when a service-account token cannot be
	// minted or exchanged.
	ErrTokenRefresh = errors.New("token refresh failed")
)
