package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// tokenLifetime is the validity of a self-signed token and the fallback
	// when a token endpoint does not report expires_in.
	tokenLifetime = time.Hour

	// refreshMargin is how long before expiry a cached token is replaced.
	refreshMargin = time.Minute

	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// tokenSource mints service-account tokens and caches the current one.
//
// By default a signed assertion is exchanged at the key's token URI for an
// access token. With selfSigned the assertion itself is sent, its audience
// being the server URL.
type tokenSource struct {
	mu     sync.Mutex
	cached models.Token

	key        *ServiceAccountKey
	audience   string
	selfSigned bool

	httpClient *utils.HTTPClient
	now        func() time.Time
	log        *logger.Logger
}

func newTokenSource(key *ServiceAccountKey, audience string, o *options) *tokenSource {
	return &tokenSource{
		key:        key,
		audience:   audience,
		selfSigned: o.selfSigned,
		httpClient: o.httpClient,
		now:        o.now,
		log:        o.log,
	}
}

// Token returns the cached token, minting a new one when there is none or
// when the cached one expires within refreshMargin.
func (s *tokenSource) Token(ctx context.Context) (models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached.IsValidAt(now, refreshMargin) {
		return s.cached, nil
	}

	var (
		token models.Token
		err   error
	)
	if s.selfSigned {
		token, err = s.signed(now)
	} else {
		token, err = s.exchange(ctx, now)
	}
	if err != nil {
		return models.Token{}, err
	}

	s.log.Debug().
		Str("client_email", s.key.ClientEmail).
		Time("expires_at", token.ExpiresAt).
		Bool("self_signed", s.selfSigned).
		Msg("minted service account token")

	s.cached = token
	return token, nil
}

func (s *tokenSource) claims(audience string, now time.Time) utils.ServiceAccountClaims {
	return utils.ServiceAccountClaims{
		Scope: strings.Join(s.key.Scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.key.ClientEmail,
			Subject:   s.key.ClientEmail,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
}

func (s *tokenSource) signed(now time.Time) (models.Token, error) {
	claims := s.claims(s.audience, now)
	signed, err := utils.SignRS256(claims, s.key.Signer(), s.key.PrivateKeyID)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}

	return models.Token{
		Claims:       &claims.RegisteredClaims,
		SignedString: signed,
		ExpiresAt:    now.Add(tokenLifetime),
	}, nil
}

func (s *tokenSource) exchange(ctx context.Context, now time.Time) (models.Token, error) {
	assertion, err := utils.SignRS256(s.claims(s.key.TokenURI, now), s.key.Signer(), s.key.PrivateKeyID)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}

	var body models.TokenResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": jwtBearerGrantType,
			"assertion":  assertion,
		}).
		SetResult(&body).
		Post(s.key.TokenURI)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %v", ErrTokenRefresh, err)
	}
	if !resp.IsSuccess() {
		return models.Token{}, fmt.Errorf("%w: token endpoint returned %d: %s",
			ErrTokenRefresh, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	if body.AccessToken == "" {
		return models.Token{}, fmt.Errorf("%w: token endpoint returned no access_token", ErrTokenRefresh)
	}

	lifetime := tokenLifetime
	if body.ExpiresIn > 0 {
		lifetime = time.Duration(body.ExpiresIn) * time.Second
	}
	return models.Token{
		SignedString: body.AccessToken,
		ExpiresAt:    now.Add(lifetime),
	}, nil
}
