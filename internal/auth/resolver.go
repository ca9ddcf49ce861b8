package auth

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
)

// Inputs are the raw credential inputs collected from flags, environment
// and config. At most one credential source may be set.
type Inputs struct {
	URL               string
	Username          string
	Password          string
	SecretsFile       string
	ServiceAccountKey string
	Token             string
	Managed           bool
}

type options struct {
	now        func() time.Time
	httpClient *utils.HTTPClient
	log        *logger.Logger
	selfSigned bool
}

// Option customizes Resolve.
type Option func(*options)

// WithClock replaces time.Now for token expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithHTTPClient sets the client used to reach the token endpoint of
// service-account keys.
func WithHTTPClient(client *utils.HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithSelfSignedTokens makes service-account sessions send a token signed
// with the key itself, audience set to the server URL, instead of exchanging
// it at the key's token URI. Only servers that verify the key directly
// accept such tokens.
func WithSelfSignedTokens() Option {
	return func(o *options) {
		o.selfSigned = true
	}
}

// WithLogger sets the logger used by the session.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Resolve validates in and builds a Session. It never contacts the server:
// every error it returns is raised before any request is made.
func Resolve(in Inputs, opts ...Option) (*Session, error) {
	o := &options{
		now: time.Now,
		log: logger.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient == nil {
		o.httpClient = utils.NewHTTPClient(time.Minute)
	}

	sources, err := credentialSources(in)
	if err != nil {
		return nil, err
	}

	session := &Session{managed: in.Managed}
	serverURL := in.URL

	switch {
	case len(sources) == 0:
		session.creds = NoCredentials{}
	case in.SecretsFile != "":
		secrets, err := LoadSecretsFile(in.SecretsFile)
		if err != nil {
			return nil, err
		}
		if secrets.URL != "" {
			serverURL = secrets.URL
		}
		session.creds = BasicCredentials{Username: secrets.Username, Password: secrets.Password}
	case in.ServiceAccountKey != "":
		key, err := LoadServiceAccountKey(in.ServiceAccountKey)
		if err != nil {
			return nil, err
		}
		session.creds = ServiceAccountCredentials{Key: key}
	case in.Token != "":
		session.creds = BearerCredentials{Token: in.Token}
	default:
		session.creds = BasicCredentials{Username: in.Username, Password: in.Password}
	}

	if session.url, err = NormalizeURL(serverURL); err != nil {
		return nil, err
	}
	if c, ok := session.creds.(ServiceAccountCredentials); ok {
		session.tokens = newTokenSource(c.Key, session.url, o)
	}

	if session.Kind() == KindNone {
		o.log.Warn().Str("url", session.url).Msg("no credentials given, requests will be sent without authentication")
	} else {
		o.log.Debug().
			Str("url", session.url).
			Stringer("kind", session.Kind()).
			Bool("managed", session.managed).
			Msg("resolved credentials")
	}
	return session, nil
}

// credentialSources returns the names of the credential sources set in in.
func credentialSources(in Inputs) ([]string, error) {
	var sources []string
	if in.Username != "" || in.Password != "" {
		if in.Username == "" || in.Password == "" {
			return nil, fmt.Errorf("%w: username and password must be given together", ErrAmbiguousCredentials)
		}
		sources = append(sources, "username/password")
	}
	if in.SecretsFile != "" {
		sources = append(sources, "secrets file")
	}
	if in.ServiceAccountKey != "" {
		sources = append(sources, "service account key")
	}
	if in.Token != "" {
		sources = append(sources, "bearer token")
	}

	if len(sources) > 1 {
		return nil, fmt.Errorf("%w: got %s, expected at most one",
			ErrAmbiguousCredentials, strings.Join(sources, ", "))
	}
	return sources, nil
}

// NormalizeURL checks that raw is an absolute http(s) URL and strips
// trailing slashes.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidServerURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidServerURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q must start with http:// or https://", ErrInvalidServerURL, raw)
	}
	return trimmed, nil
}
