package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/broadinstitute/cromwell-tools/internal/logger"
	"github.com/broadinstitute/cromwell-tools/internal/utils"
	"github.com/broadinstitute/cromwell-tools/models"
	"github.com/go-resty/resty/v2"
)

const (
	workflowsPath   = "/api/workflows/v1"
	statusPath      = workflowsPath + "/{id}/status"
	abortPath       = workflowsPath + "/{id}/abort"
	releaseHoldPath = workflowsPath + "/{id}/releaseHold"
	metadataPath    = workflowsPath + "/{id}/metadata"
	queryPath       = workflowsPath + "/query"
	healthPath      = "/engine/v1/status"
	versionPath     = "/engine/v1/version"

	jsonContentType = "application/json"
	zipContentType  = "application/zip"
	textContentType = "text/plain"
)

type httpWorkflowAdapter struct {
	client     *utils.HTTPClient
	authorizer Authorizer

	logger *logger.Logger
}

// NewHTTPWorkflowAdapter constructs an HTTP/REST implementation of
// [WorkflowAdapter] for the server at authorizer.URL(). A positive
// requestTimeout bounds every single call.
func NewHTTPWorkflowAdapter(authorizer Authorizer, requestTimeout time.Duration, logger *logger.Logger) WorkflowAdapter {
	client := utils.NewHTTPClient(requestTimeout)
	client.SetBaseURL(authorizer.URL())

	return &httpWorkflowAdapter{client: client, authorizer: authorizer, logger: logger}
}

// request builds an authorized request bound to ctx. Authorization failures
// are returned before anything is sent.
func (h *httpWorkflowAdapter) request(ctx context.Context) (*resty.Request, error) {
	req := h.client.R().SetContext(ctx)
	if err := h.authorizer.Authorize(ctx, req.Header); err != nil {
		return nil, err
	}
	return req, nil
}

// Submit implements [WorkflowAdapter]. The first input document is sent as
// workflowInputs and every following one as workflowInputs_N, N starting at 2.
// Empty optional documents are omitted.
func (h *httpWorkflowAdapter) Submit(ctx context.Context, submission models.SubmissionRequest) (models.WorkflowIDAndStatus, error) {
	req, err := h.request(ctx)
	if err != nil {
		return models.WorkflowIDAndStatus{}, err
	}

	addPart(req, "workflowSource", submission.WorkflowSource, textContentType)
	for i, input := range submission.Inputs {
		name := "workflowInputs"
		if i > 0 {
			name += "_" + strconv.Itoa(i+1)
		}
		addPart(req, name, input, jsonContentType)
	}
	addPart(req, "workflowOptions", submission.Options, jsonContentType)
	addPart(req, "labels", submission.Labels, jsonContentType)
	addPart(req, "workflowDependencies", submission.Dependencies, zipContentType)

	fields := map[string]string{"workflowOnHold": strconv.FormatBool(submission.OnHold)}
	if submission.CollectionName != "" {
		fields["collectionName"] = submission.CollectionName
	}
	req.SetMultipartFormData(fields)

	h.logger.Debug().
		Str("workflow_source", submission.WorkflowSource.Name).
		Int("inputs", len(submission.Inputs)).
		Bool("on_hold", submission.OnHold).
		Msg("submitting workflow")

	resp, err := req.Post(workflowsPath)
	if err != nil {
		return models.WorkflowIDAndStatus{}, mapTransportError(ctx, "submit request", err)
	}
	if err = mapHTTPError(resp, false); err != nil {
		return models.WorkflowIDAndStatus{}, err
	}

	return decodeIDAndStatus(resp)
}

func addPart(req *resty.Request, name string, doc models.Document, contentType string) {
	if doc.IsEmpty() {
		return
	}
	fileName := doc.Name
	if fileName == "" {
		fileName = name
	}
	req.SetMultipartField(name, fileName, contentType, bytes.NewReader(doc.Content))
}

// Status implements [WorkflowAdapter] via GET /api/workflows/v1/{id}/status.
func (h *httpWorkflowAdapter) Status(ctx context.Context, id string) (models.WorkflowIDAndStatus, error) {
	return h.workflowCall(ctx, "status", id, func(req *resty.Request) (*resty.Response, error) {
		return req.Get(statusPath)
	})
}

// Abort implements [WorkflowAdapter] via POST /api/workflows/v1/{id}/abort.
func (h *httpWorkflowAdapter) Abort(ctx context.Context, id string) (models.WorkflowIDAndStatus, error) {
	return h.workflowCall(ctx, "abort", id, func(req *resty.Request) (*resty.Response, error) {
		return req.Post(abortPath)
	})
}

// ReleaseHold implements [WorkflowAdapter] via
// POST /api/workflows/v1/{id}/releaseHold.
func (h *httpWorkflowAdapter) ReleaseHold(ctx context.Context, id string) (models.WorkflowIDAndStatus, error) {
	return h.workflowCall(ctx, "release hold", id, func(req *resty.Request) (*resty.Response, error) {
		return req.Post(releaseHoldPath)
	})
}

func (h *httpWorkflowAdapter) workflowCall(
	ctx context.Context,
	op, id string,
	send func(req *resty.Request) (*resty.Response, error),
) (models.WorkflowIDAndStatus, error) {
	req, err := h.request(ctx)
	if err != nil {
		return models.WorkflowIDAndStatus{}, err
	}

	h.logger.Debug().Str("workflow_id", id).Msg(op)

	resp, err := send(req.SetPathParam("id", id))
	if err != nil {
		return models.WorkflowIDAndStatus{}, mapTransportError(ctx, op+" request", err)
	}
	if err = mapHTTPError(resp, true); err != nil {
		return models.WorkflowIDAndStatus{}, fmt.Errorf("%s %s: %w", op, id, err)
	}

	return decodeIDAndStatus(resp)
}

func decodeIDAndStatus(resp *resty.Response) (models.WorkflowIDAndStatus, error) {
	var result models.WorkflowIDAndStatus
	if err := decodeBody(resp, &result); err != nil {
		return models.WorkflowIDAndStatus{}, err
	}
	if result.ID == "" || result.Status == "" {
		return models.WorkflowIDAndStatus{}, fmt.Errorf("%w: missing id or status in %s", ErrProtocol, resp.String())
	}
	return result, nil
}

// Metadata implements [WorkflowAdapter] via
// GET /api/workflows/v1/{id}/metadata. The body is returned undecoded.
func (h *httpWorkflowAdapter) Metadata(ctx context.Context, id string) (models.RawJSON, error) {
	req, err := h.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.SetPathParam("id", id).Get(metadataPath)
	if err != nil {
		return nil, mapTransportError(ctx, "metadata request", err)
	}
	if err = mapHTTPError(resp, true); err != nil {
		return nil, fmt.Errorf("metadata %s: %w", id, err)
	}

	var metadata models.RawJSON
	if err = decodeBody(resp, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// Query implements [WorkflowAdapter]. params are sent without validation; an
// empty list is sent as [] and returns every workflow the server lists.
func (h *httpWorkflowAdapter) Query(ctx context.Context, params []models.QueryParam) (models.QueryResponse, error) {
	req, err := h.request(ctx)
	if err != nil {
		return models.QueryResponse{}, err
	}
	if params == nil {
		params = []models.QueryParam{}
	}

	resp, err := req.
		SetHeader("Content-Type", jsonContentType).
		SetBody(params).
		Post(queryPath)
	if err != nil {
		return models.QueryResponse{}, mapTransportError(ctx, "query request", err)
	}
	if err = mapHTTPError(resp, false); err != nil {
		return models.QueryResponse{}, err
	}

	var result models.QueryResponse
	if err = decodeBody(resp, &result); err != nil {
		return models.QueryResponse{}, err
	}
	if result.Results == nil {
		return models.QueryResponse{}, fmt.Errorf("%w: missing results in %s", ErrProtocol, resp.String())
	}
	return result, nil
}

// Health implements [WorkflowAdapter] via GET /engine/v1/status.
func (h *httpWorkflowAdapter) Health(ctx context.Context) (models.HealthResponse, error) {
	req, err := h.request(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get(healthPath)
	if err != nil {
		return nil, mapTransportError(ctx, "health request", err)
	}
	if health, ok := decodeUnhealthy(resp); ok {
		h.logger.Warn().Int("status", resp.StatusCode()).Msg("server reports failing subsystems")
		return health, nil
	}
	if err = mapHTTPError(resp, false); err != nil {
		return nil, err
	}

	var health models.HealthResponse
	if err = decodeBody(resp, &health); err != nil {
		return nil, err
	}
	return health, nil
}

// decodeUnhealthy reads the subsystem map the engine sends with a 500 when
// any subsystem is failing. Other 500 bodies are left to mapHTTPError.
func decodeUnhealthy(resp *resty.Response) (models.HealthResponse, bool) {
	if resp.StatusCode() != http.StatusInternalServerError {
		return nil, false
	}
	var health models.HealthResponse
	if err := json.Unmarshal(resp.Body(), &health); err != nil || len(health) == 0 {
		return nil, false
	}
	return health, true
}

// Version implements [WorkflowAdapter] via GET /engine/v1/version. A version
// string that is not a semantic version is kept in Raw.
func (h *httpWorkflowAdapter) Version(ctx context.Context) (models.ServerVersion, error) {
	req, err := h.request(ctx)
	if err != nil {
		return models.ServerVersion{}, err
	}

	resp, err := req.Get(versionPath)
	if err != nil {
		return models.ServerVersion{}, mapTransportError(ctx, "version request", err)
	}
	if err = mapHTTPError(resp, false); err != nil {
		return models.ServerVersion{}, err
	}

	var body map[string]string
	if err = decodeBody(resp, &body); err != nil {
		return models.ServerVersion{}, err
	}
	raw, ok := body["cromwell"]
	if !ok {
		return models.ServerVersion{}, fmt.Errorf("%w: missing version in %s", ErrProtocol, resp.String())
	}

	version, err := models.ParseServerVersion(raw)
	if err != nil {
		h.logger.Debug().Err(err).Msg("server version is not semantic")
	}
	return version, nil
}
