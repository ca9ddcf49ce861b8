package testserver

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/go-chi/chi/v5/middleware"
)

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

var errUnauthorized = errors.New("unauthorized")

// authenticator checks the credentials of a request and returns the caller.
type authenticator interface {
	authenticate(r *http.Request) (string, error)
}

type noAuthenticator struct{}

func (noAuthenticator) authenticate(*http.Request) (string, error) {
	return "anonymous", nil
}

type basicAuthenticator struct {
	username string
	password string
}

func (a basicAuthenticator) authenticate(r *http.Request) (string, error) {
	username, password, ok := r.BasicAuth()
	if !ok || username != a.username || password != a.password {
		return "", errUnauthorized
	}
	return username, nil
}

type tokenAuthenticator struct {
	token string
}

func (a tokenAuthenticator) authenticate(r *http.Request) (string, error) {
	token, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
	if err != nil || token != a.token {
		return "", errUnauthorized
	}
	return "token", nil
}

// serviceAccountAuthenticator accepts access tokens it issued in exchange
// for assertions signed by key.
type serviceAccountAuthenticator struct {
	key *rsa.PublicKey
	ids *utils.WorkflowIDGenerator

	mu     sync.Mutex
	tokens map[string]string
}

func newServiceAccountAuthenticator(key *rsa.PublicKey) *serviceAccountAuthenticator {
	return &serviceAccountAuthenticator{key: key, ids: utils.NewWorkflowIDGenerator(), tokens: map[string]string{}}
}

func (a *serviceAccountAuthenticator) authenticate(r *http.Request) (string, error) {
	token, err := utils.ParseBearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return "", errUnauthorized
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	subject, ok := a.tokens[token]
	if !ok {
		return "", errUnauthorized
	}
	return subject, nil
}

// issue verifies the jwt-bearer assertion of a token request and returns a
// new access token and the subject it was issued to. The assertion audience
// must be the token endpoint of this server.
func (a *serviceAccountAuthenticator) issue(r *http.Request) (string, string, error) {
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	if grant := r.PostForm.Get("grant_type"); grant != jwtBearerGrantType {
		return "", "", fmt.Errorf("unsupported grant_type %q", grant)
	}

	claims, err := utils.VerifyRS256(r.PostForm.Get("assertion"), a.key, "http://"+r.Host+TokenPath)
	if err != nil {
		return "", "", err
	}

	token := "access-" + a.ids.Generate()
	a.mu.Lock()
	a.tokens[token] = claims.Subject
	a.mu.Unlock()
	return token, claims.Subject, nil
}

// withAuth rejects unauthenticated requests with 401 and stores the caller
// under utils.PrincipalCtxKey.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := s.auth.authenticate(r)
		if err != nil {
			s.log.Debug().Err(err).Str("uri", r.RequestURI).Msg("rejected request")
			utils.WriteFailure(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		s.mu.Lock()
		s.principals = append(s.principals, principal)
		s.mu.Unlock()

		ctx := context.WithValue(r.Context(), utils.PrincipalCtxKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withFailures answers with the next queued failure status, if any.
func (s *Server) withFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var code int
		if len(s.failures) > 0 {
			code = s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if code != 0 {
			utils.WriteFailure(w, http.StatusText(code), code)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Int("size", ww.BytesWritten()).
			Send()
	})
}
