// Package testserver provides an in-memory workflow server that speaks the
// subset of the Cromwell REST API used by cromwell-tools. Tests start it
// with httptest.NewServer(srv.Router()).
package testserver

import (
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// TokenPath is the OAuth token endpoint served for WithServiceAccount.
const TokenPath = "/oauth2/v4/token"

// Submission is what the server received for one submitted workflow.
type Submission struct {
	ID        string
	Principal string
	Parts     map[string][]byte
	Fields    map[string]string
}

type workflow struct {
	id        string
	name      string
	status    models.WorkflowStatus
	script    []models.WorkflowStatus
	submitted time.Time
	labels    map[string]string
}

// Server is a fake workflow server. The zero value is not usable; use New.
type Server struct {
	mu          sync.Mutex
	workflows   map[string]*workflow
	submissions []Submission
	health      models.HealthResponse
	version     string
	failures    []int
	statusCalls map[string]int
	principals  []string
	tokens      int

	ids  *utils.WorkflowIDGenerator
	auth authenticator
	log  *logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithBasicAuth requires HTTP basic auth with the given credentials.
func WithBasicAuth(username, password string) Option {
	return func(s *Server) {
		s.auth = basicAuthenticator{username: username, password: password}
	}
}

// WithBearerToken requires the given opaque bearer token.
func WithBearerToken(token string) Option {
	return func(s *Server) {
		s.auth = tokenAuthenticator{token: token}
	}
}

// WithServiceAccount requires access tokens issued by the server's own token
// endpoint (TokenPath) for assertions signed by the key matching pub.
func WithServiceAccount(pub *rsa.PublicKey) Option {
	return func(s *Server) {
		s.auth = newServiceAccountAuthenticator(pub)
	}
}

// WithLogger sets the request logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// New creates a Server with a healthy engine and version "86".
func New(opts ...Option) *Server {
	s := &Server{
		workflows:   make(map[string]*workflow),
		health:      models.HealthResponse{"Engine Database": {OK: true}},
		version:     "86",
		statusCalls: make(map[string]int),
		ids:         utils.NewWorkflowIDGenerator(),
		auth:        noAuthenticator{},
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP handler of the server.
func (s *Server) Router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.withLogging)
	router.Use(s.withFailures)

	router.Post(TokenPath, s.issueToken)

	router.Group(func(r chi.Router) {
		r.Use(s.withAuth)

		r.Post("/api/workflows/v1", s.submit)
		r.Post("/api/workflows/v1/query", s.query)
		r.Get("/api/workflows/v1/{id}/status", s.status)
		r.Post("/api/workflows/v1/{id}/abort", s.abort)
		r.Post("/api/workflows/v1/{id}/releaseHold", s.releaseHold)
		r.Get("/api/workflows/v1/{id}/metadata", s.metadata)
		r.Get("/engine/v1/status", s.engineStatus)
		r.Get("/engine/v1/version", s.engineVersion)
	})

	return router
}

// AddWorkflow registers a workflow with the given status and returns its id.
// Every following status call pops the next status of script, the last one
// sticking.
func (s *Server) AddWorkflow(name string, status models.WorkflowStatus, script ...models.WorkflowStatus) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.Generate()
	s.workflows[id] = &workflow{id: id, name: name, status: status, script: script, submitted: time.Now().UTC()}
	return id
}

// SetStatus overrides the status of a known workflow.
func (s *Server) SetStatus(id string, status models.WorkflowStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if wf, ok := s.workflows[id]; ok {
		wf.status = status
		wf.script = nil
	}
}

// SetHealth replaces the reported subsystem health. The engine status
// endpoint answers 500 while any subsystem is failing.
func (s *Server) SetHealth(health models.HealthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = health
}

// FailNext makes the next len(statusCodes) requests fail with the given
// status codes, in order.
func (s *Server) FailNext(statusCodes ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statusCodes...)
}

// Submissions returns the received submissions in order.
func (s *Server) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}

// StatusCalls returns how many status requests hit id.
func (s *Server) StatusCalls(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls[id]
}

// TokensIssued returns how many access tokens the token endpoint issued.
func (s *Server) TokensIssued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// Principals returns the authenticated callers of all requests.
func (s *Server) Principals() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.principals...)
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	sa, ok := s.auth.(*serviceAccountAuthenticator)
	if !ok {
		utils.WriteFailure(w, "Not Found", http.StatusNotFound)
		return
	}

	token, subject, err := sa.issue(r)
	if err != nil {
		s.log.Debug().Err(err).Msg("rejected token request")
		_, _ = utils.WriteJSON(w, map[string]string{
			"error":             "invalid_grant",
			"error_description": err.Error(),
		}, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.tokens++
	s.mu.Unlock()
	s.log.Debug().Str("subject", subject).Msg("issued access token")

	_, _ = utils.WriteJSON(w, models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   3600,
	}, http.StatusOK)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.WriteFailure(w, "Invalid multipart request: "+err.Error(), http.StatusBadRequest)
		return
	}

	sub := Submission{Parts: map[string][]byte{}, Fields: map[string]string{}}
	sub.Principal, _ = utils.GetPrincipalFromContext(r.Context())
	for name, values := range r.MultipartForm.Value {
		sub.Fields[name] = values[0]
	}
	for name, headers := range r.MultipartForm.File {
		f, err := headers[0].Open()
		if err != nil {
			utils.WriteFailure(w, err.Error(), http.StatusBadRequest)
			return
		}
		sub.Parts[name], err = io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			utils.WriteFailure(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if len(sub.Parts["workflowSource"]) == 0 {
		utils.WriteFailure(w, "Error(s): workflowSource or workflowUrl needs to be supplied", http.StatusBadRequest)
		return
	}

	status := models.StatusSubmitted
	if sub.Fields["workflowOnHold"] == "true" {
		status = models.StatusOnHold
	}

	var labels map[string]string
	if raw, ok := sub.Parts["labels"]; ok {
		if err := json.Unmarshal(raw, &labels); err != nil {
			utils.WriteFailure(w, "Invalid labels: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	sub.ID = s.ids.Generate()
	s.workflows[sub.ID] = &workflow{id: sub.ID, status: status, submitted: time.Now().UTC(), labels: labels}
	s.submissions = append(s.submissions, sub)
	s.mu.Unlock()

	_, _ = utils.WriteJSON(w, models.WorkflowIDAndStatus{ID: sub.ID, Status: status}, http.StatusCreated)
}

// lookup returns the workflow named in the path or writes a 404.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*workflow, bool) {
	id := chi.URLParam(r, "id")
	wf, ok := s.workflows[id]
	if !ok {
		utils.WriteFailure(w, "Unrecognized workflow ID: "+id, http.StatusNotFound)
	}
	return wf, ok
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.statusCalls[wf.id]++
	if len(wf.script) > 0 {
		wf.status = wf.script[0]
		wf.script = wf.script[1:]
	}

	_, _ = utils.WriteJSON(w, models.WorkflowIDAndStatus{ID: wf.id, Status: wf.status}, http.StatusOK)
}

func (s *Server) abort(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if wf.status.IsTerminal() {
		utils.WriteFailure(w, "Couldn't abort "+wf.id+" because it is in terminal state "+wf.status.String(), http.StatusConflict)
		return
	}
	wf.status = models.StatusAborting
	wf.script = []models.WorkflowStatus{models.StatusAborted}

	_, _ = utils.WriteJSON(w, models.WorkflowIDAndStatus{ID: wf.id, Status: wf.status}, http.StatusOK)
}

func (s *Server) releaseHold(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if wf.status != models.StatusOnHold {
		utils.WriteFailure(w, "Couldn't change status of workflow "+wf.id+" to 'Submitted' because the workflow is not in 'On Hold' state", http.StatusConflict)
		return
	}
	wf.status = models.StatusSubmitted

	_, _ = utils.WriteJSON(w, models.WorkflowIDAndStatus{ID: wf.id, Status: wf.status}, http.StatusOK)
}

func (s *Server) metadata(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf, ok := s.lookup(w, r)
	if !ok {
		return
	}

	_, _ = utils.WriteJSON(w, map[string]any{
		"id":           wf.id,
		"workflowName": wf.name,
		"status":       wf.status,
		"submission":   wf.submitted.Format(time.RFC3339),
		"labels":       wf.labels,
	}, http.StatusOK)
}

// query supports the id, name and status keys. A workflow matches when it
// matches any value given for each key.
func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var params []map[string]string
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.WriteFailure(w, "Invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}

	filters := map[string]map[string]bool{}
	for _, param := range params {
		for key, value := range param {
			if filters[key] == nil {
				filters[key] = map[string]bool{}
			}
			filters[key][value] = true
		}
	}

	s.mu.Lock()
	results := make([]map[string]any, 0, len(s.workflows))
	for _, wf := range s.workflows {
		fields := map[string]string{"id": wf.id, "name": wf.name, "status": wf.status.String()}
		matches := true
		for key, values := range filters {
			if v, known := fields[key]; known && !values[v] {
				matches = false
			}
		}
		if matches {
			results = append(results, map[string]any{
				"id":         wf.id,
				"name":       wf.name,
				"status":     wf.status,
				"submission": wf.submitted.Format(time.RFC3339),
			})
		}
	}
	s.mu.Unlock()

	sort.Slice(results, func(i, j int) bool {
		return results[i]["id"].(string) < results[j]["id"].(string)
	})

	_, _ = utils.WriteJSON(w, map[string]any{
		"results":           results,
		"totalResultsCount": len(results),
	}, http.StatusOK)
}

func (s *Server) engineStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	health := s.health
	s.mu.Unlock()

	status := http.StatusOK
	if !health.IsHealthy() {
		status = http.StatusInternalServerError
	}
	_, _ = utils.WriteJSON(w, health, status)
}

func (s *Server) engineVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	version := s.version
	s.mu.Unlock()

	_, _ = utils.WriteJSON(w, map[string]string{"cromwell": version}, http.StatusOK)
}
